package streaming

import (
	"encoding/json"
	"errors"
)

type MessageType string

const (
	MessageTypeMismatch MessageType = "mismatch"
)

// ProviderView is one provider's side of an alert.
type ProviderView struct {
	Endpoint         string `json:"endpoint"`
	ChainID          uint64 `json:"chain_id"`
	BlockNumber      uint64 `json:"block_number"`
	BlockHash        string `json:"block_hash"`
	ParentHash       string `json:"parent_hash"`
	StateRoot        string `json:"state_root"`
	ReceiptsRoot     string `json:"receipts_root"`
	TransactionsRoot string `json:"transactions_root"`
	Timestamp        uint64 `json:"timestamp"`
	Commitment       string `json:"commitment"`
}

type Message struct {
	Type        MessageType  `json:"type"`
	ChainID     uint64       `json:"chain_id"`
	TraceID     string       `json:"trace_id,omitempty"`
	BlockTag    string       `json:"block_tag"`
	BlockNumber uint64       `json:"block_number"`
	Mismatched  []string     `json:"mismatched"`
	Primary     ProviderView `json:"primary"`
	Secondary   ProviderView `json:"secondary"`
	ObservedAt  int64        `json:"observed_at"`
}

func Encode(msg Message) ([]byte, error) {
	if msg.Type == "" {
		return nil, errors.New("message type is required")
	}
	if msg.ChainID == 0 {
		return nil, errors.New("chain_id is required")
	}
	return json.Marshal(msg)
}

func Decode(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	if msg.Type == "" {
		return Message{}, errors.New("message type is missing")
	}
	if msg.ChainID == 0 {
		return Message{}, errors.New("chain_id is missing")
	}
	return msg, nil
}
