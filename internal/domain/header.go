package domain

import "bytes"

// HashLength is the committed width of every hash and root field.
const HashLength = 32

// HeaderRecord holds the eight header fields bound by a commitment.
// Hash-like fields must be exactly HashLength bytes to be committed.
type HeaderRecord struct {
	ChainID          uint64
	Number           uint64
	Hash             []byte
	ParentHash       []byte
	StateRoot        []byte
	ReceiptsRoot     []byte
	TransactionsRoot []byte
	Timestamp        uint64
}

// Field identifies one committed header field. Values follow canonical order.
type Field int

const (
	FieldChainID Field = iota
	FieldNumber
	FieldHash
	FieldParentHash
	FieldStateRoot
	FieldReceiptsRoot
	FieldTransactionsRoot
	FieldTimestamp
)

// FieldCount is the number of committed fields.
const FieldCount = 8

// Fields lists every committed field in canonical order.
var Fields = [FieldCount]Field{
	FieldChainID,
	FieldNumber,
	FieldHash,
	FieldParentHash,
	FieldStateRoot,
	FieldReceiptsRoot,
	FieldTransactionsRoot,
	FieldTimestamp,
}

var fieldNames = [FieldCount]string{
	"chainId",
	"number",
	"hash",
	"parentHash",
	"stateRoot",
	"receiptsRoot",
	"transactionsRoot",
	"timestamp",
}

func (f Field) String() string {
	if f < 0 || int(f) >= FieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// MarshalText lets fields key JSON objects by name.
func (f Field) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// IsHash reports whether the field is one of the 32-byte hash or root fields.
func (f Field) IsHash() bool {
	switch f {
	case FieldHash, FieldParentHash, FieldStateRoot, FieldReceiptsRoot, FieldTransactionsRoot:
		return true
	}
	return false
}

// Uint returns the value of an integer field.
func (h HeaderRecord) Uint(f Field) uint64 {
	switch f {
	case FieldChainID:
		return h.ChainID
	case FieldNumber:
		return h.Number
	case FieldTimestamp:
		return h.Timestamp
	}
	return 0
}

// Bytes returns the raw value of a hash field.
func (h HeaderRecord) Bytes(f Field) []byte {
	switch f {
	case FieldHash:
		return h.Hash
	case FieldParentHash:
		return h.ParentHash
	case FieldStateRoot:
		return h.StateRoot
	case FieldReceiptsRoot:
		return h.ReceiptsRoot
	case FieldTransactionsRoot:
		return h.TransactionsRoot
	}
	return nil
}

// FieldEqual compares a single field of two records.
func (h HeaderRecord) FieldEqual(other HeaderRecord, f Field) bool {
	if f.IsHash() {
		return bytes.Equal(h.Bytes(f), other.Bytes(f))
	}
	return h.Uint(f) == other.Uint(f)
}
