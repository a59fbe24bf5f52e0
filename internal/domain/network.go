package domain

import "fmt"

var networks = map[uint64]string{
	1:        "Ethereum Mainnet",
	11155111: "Sepolia Testnet",
	10:       "Optimism",
	137:      "Polygon",
	42161:    "Arbitrum One",
}

// NetworkName returns a display name for a chain id.
func NetworkName(chainID uint64) string {
	if name, ok := networks[chainID]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (chain ID %d)", chainID)
}
