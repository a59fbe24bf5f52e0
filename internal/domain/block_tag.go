package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// BlockTag selects a block either by number or by a named tag.
type BlockTag struct {
	name     string
	number   uint64
	isNumber bool
}

var namedTags = map[string]struct{}{
	"latest":    {},
	"finalized": {},
	"safe":      {},
	"pending":   {},
	"earliest":  {},
}

// LatestBlock is the default tag.
var LatestBlock = BlockTag{name: "latest"}

// BlockNumber pins a tag to a block height.
func BlockNumber(number uint64) BlockTag {
	return BlockTag{number: number, isNumber: true}
}

// ParseBlockTag accepts a named tag (case-insensitive) or a block number with
// base detection, so both "18000000" and "0x112a880" resolve to the same block.
// "pending" parses, but nodes report the pending block with a null number and
// hash, so committing to it fails with an EncodingError on number.
func ParseBlockTag(raw string) (BlockTag, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" {
		return LatestBlock, nil
	}
	if _, ok := namedTags[value]; ok {
		return BlockTag{name: value}, nil
	}
	number, err := strconv.ParseUint(value, 0, 64)
	if err != nil {
		return BlockTag{}, fmt.Errorf("invalid block %q: use a number or one of latest|finalized|safe|earliest", raw)
	}
	return BlockNumber(number), nil
}

// Number returns the pinned height when the tag is numeric.
func (t BlockTag) Number() (uint64, bool) {
	return t.number, t.isNumber
}

// RPCParam renders the tag as an eth_getBlockByNumber parameter.
func (t BlockTag) RPCParam() string {
	if t.isNumber {
		return hexutil.EncodeUint64(t.number)
	}
	if t.name == "" {
		return LatestBlock.name
	}
	return t.name
}

func (t BlockTag) String() string {
	if t.isNumber {
		return strconv.FormatUint(t.number, 10)
	}
	if t.name == "" {
		return LatestBlock.name
	}
	return t.name
}
