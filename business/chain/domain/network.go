package domain

import "fmt"

// networks maps well-known chain IDs to display names.
var networks = map[uint64]string{
	1:        "Ethereum Mainnet",
	11155111: "Sepolia Testnet",
	10:       "Optimism",
	137:      "Polygon",
	42161:    "Arbitrum One",
	8453:     "Base",
}

// NetworkName returns the display name for a chain ID. The fallback string
// format is part of the observable output contract; do not change it.
func NetworkName(chainID uint64) string {
	if name, ok := networks[chainID]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (chain ID %d)", chainID)
}
