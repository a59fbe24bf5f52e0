package commitment

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"hdrcommit/internal/domain"
)

// Commitment is the Keccak-256 digest of a canonical header buffer.
type Commitment [32]byte

// Commit hashes the canonical encoding of h with legacy Keccak-256, the
// variant Ethereum uses, not the padded SHA3-256.
func Commit(h domain.HeaderRecord) (Commitment, error) {
	buf, err := Canonicalize(h)
	if err != nil {
		return Commitment{}, err
	}
	return Commitment(crypto.Keccak256Hash(buf)), nil
}

// Hex renders the commitment as 0x-prefixed lowercase hex.
func (c Commitment) Hex() string {
	return hexutil.Encode(c[:])
}

func (c Commitment) String() string {
	return c.Hex()
}

func (c Commitment) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

func (c *Commitment) UnmarshalText(input []byte) error {
	return hexutil.UnmarshalFixedText("Commitment", input, c[:])
}
