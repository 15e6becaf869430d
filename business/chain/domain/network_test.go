package domain

import "testing"

func TestNetworkName(t *testing.T) {
	tests := []struct {
		name    string
		chainID uint64
		want    string
	}{
		{"mainnet", 1, "Ethereum Mainnet"},
		{"sepolia", 11155111, "Sepolia Testnet"},
		{"optimism", 10, "Optimism"},
		{"polygon", 137, "Polygon"},
		{"arbitrum", 42161, "Arbitrum One"},
		{"base", 8453, "Base"},
		{"unknown", 31337, "Unknown (chain ID 31337)"},
		{"unknown_zero", 0, "Unknown (chain ID 0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NetworkName(tt.chainID); got != tt.want {
				t.Errorf("NetworkName(%d) = %q, want %q", tt.chainID, got, tt.want)
			}
		})
	}
}
