package domain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ParseQuantity normalizes an integer header value as providers return it:
// 0x-prefixed hex of any case and length, or a plain decimal string.
// Values wider than 64 bits are rejected rather than wrapped.
func ParseQuantity(field Field, raw string) (uint64, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, NewEncodingError(field, "empty value")
	}

	base := 10
	if has0xPrefix(value) {
		value = value[2:]
		base = 16
		if value == "" {
			return 0, NewEncodingError(field, "empty hex value")
		}
	}

	parsed, ok := new(big.Int).SetString(value, base)
	if !ok {
		return 0, NewEncodingError(field, "invalid quantity %q", raw)
	}
	if parsed.Sign() < 0 {
		return 0, NewEncodingError(field, "negative quantity %q", raw)
	}
	if parsed.BitLen() > 64 {
		return 0, NewEncodingError(field, "value %s does not fit in 8 bytes", parsed.String())
	}
	return parsed.Uint64(), nil
}

// ParseHash32 decodes a hash or root field. The prefix is optional, case is
// ignored and odd-length input is accepted. Values shorter than 32 bytes are
// left-padded with zeros; longer values are rejected.
func ParseHash32(field Field, raw string) ([]byte, error) {
	value := strings.TrimSpace(raw)
	if has0xPrefix(value) {
		value = value[2:]
	}
	if value == "" {
		return nil, NewEncodingError(field, "empty hash")
	}
	if len(value)%2 == 1 {
		value = "0" + value
	}

	decoded, err := hexutil.Decode("0x" + value)
	if err != nil {
		return nil, NewEncodingError(field, "invalid hex %q: %v", raw, err)
	}
	if len(decoded) > HashLength {
		return nil, NewEncodingError(field, "got %d bytes, want %d", len(decoded), HashLength)
	}
	if len(decoded) == HashLength {
		return decoded, nil
	}
	padded := make([]byte, HashLength)
	copy(padded[HashLength-len(decoded):], decoded)
	return padded, nil
}

func has0xPrefix(value string) bool {
	return len(value) >= 2 && value[0] == '0' && (value[1] == 'x' || value[1] == 'X')
}
