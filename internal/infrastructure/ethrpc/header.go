package ethrpc

import (
	"bytes"
	"encoding/json"
	"fmt"

	"hdrcommit/internal/domain"
)

// quantity accepts the shapes providers use for integers: hex strings,
// decimal strings and bare JSON numbers.
type quantity string

func (q *quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*q = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = quantity(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("quantity: %w", err)
	}
	*q = quantity(n.String())
	return nil
}

type rpcHeader struct {
	Number           quantity `json:"number"`
	Hash             string   `json:"hash"`
	ParentHash       string   `json:"parentHash"`
	StateRoot        string   `json:"stateRoot"`
	ReceiptsRoot     string   `json:"receiptsRoot"`
	TransactionsRoot string   `json:"transactionsRoot"`
	Timestamp        quantity `json:"timestamp"`
}

func (h *rpcHeader) toRecord(chainID uint64) (domain.HeaderRecord, error) {
	record := domain.HeaderRecord{ChainID: chainID}

	var err error
	if record.Number, err = domain.ParseQuantity(domain.FieldNumber, string(h.Number)); err != nil {
		return domain.HeaderRecord{}, err
	}
	if record.Timestamp, err = domain.ParseQuantity(domain.FieldTimestamp, string(h.Timestamp)); err != nil {
		return domain.HeaderRecord{}, err
	}

	hashes := []struct {
		field domain.Field
		raw   string
		dst   *[]byte
	}{
		{domain.FieldHash, h.Hash, &record.Hash},
		{domain.FieldParentHash, h.ParentHash, &record.ParentHash},
		{domain.FieldStateRoot, h.StateRoot, &record.StateRoot},
		{domain.FieldReceiptsRoot, h.ReceiptsRoot, &record.ReceiptsRoot},
		{domain.FieldTransactionsRoot, h.TransactionsRoot, &record.TransactionsRoot},
	}
	for _, entry := range hashes {
		value, err := domain.ParseHash32(entry.field, entry.raw)
		if err != nil {
			return domain.HeaderRecord{}, err
		}
		*entry.dst = value
	}
	return record, nil
}
