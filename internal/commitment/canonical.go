// Package commitment derives the fixed-layout header commitment and compares
// the views of two providers. Everything here is pure: no I/O, no shared state.
package commitment

import (
	"encoding/binary"

	"hdrcommit/internal/domain"
)

const (
	uintWidth = 8

	// CanonicalLength is the size of the canonical buffer: three 8-byte
	// integers and five 32-byte hashes.
	CanonicalLength = 3*uintWidth + 5*domain.HashLength
)

// Canonicalize encodes the committed fields in canonical order, big-endian.
// The layout is part of the commitment's external contract and must not change.
func Canonicalize(h domain.HeaderRecord) ([]byte, error) {
	buf := make([]byte, 0, CanonicalLength)
	for _, field := range domain.Fields {
		if !field.IsHash() {
			buf = binary.BigEndian.AppendUint64(buf, h.Uint(field))
			continue
		}
		value := h.Bytes(field)
		if len(value) != domain.HashLength {
			return nil, domain.NewEncodingError(field, "got %d bytes, want %d", len(value), domain.HashLength)
		}
		buf = append(buf, value...)
	}
	return buf, nil
}
