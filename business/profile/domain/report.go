package domain

// BlockFeeStats holds one block's fee statistics in gwei. All fields are
// non-negative; a block without transactions has zero medians.
type BlockFeeStats struct {
	BaseFeeGwei         float64
	MedianEffectiveGwei float64
	MedianTipGwei       float64
}

// BaseFeeQuantiles summarizes the sampled base-fee series in gwei.
type BaseFeeQuantiles struct {
	P50     float64 `json:"p50"`
	PTarget float64 `json:"pTarget"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// TipQuantiles summarizes the sampled tip series in gwei.
type TipQuantiles struct {
	P50     float64 `json:"p50"`
	PTarget float64 `json:"pTarget"`
}

// Recommendation holds the suggested EIP-1559 settings in gwei.
type Recommendation struct {
	MaxPriorityFeeGwei float64 `json:"maxPriorityFeeGwei"`
	MaxFeePerGasGwei   float64 `json:"maxFeePerGasGwei"`
}

// FeeReport is the aggregated result of one analysis run. The JSON field
// names are consumed by external dashboards and must stay stable.
type FeeReport struct {
	ChainID                  uint64           `json:"chainId"`
	Network                  string           `json:"network"`
	Head                     uint64           `json:"head"`
	SampledBlocks            int              `json:"sampledBlocks"`
	BlockWindow              uint64           `json:"blockWindow"`
	Step                     uint64           `json:"step"`
	TargetPercentile         float64          `json:"targetPercentile"`
	TimingSec                float64          `json:"timingSec"`
	BaseFeeGwei              BaseFeeQuantiles `json:"baseFeeGwei"`
	MedianEffectivePriceGwei float64          `json:"medianEffectivePriceGwei"`
	MedianTipGwei            TipQuantiles     `json:"medianTipGwei"`
	RecommendedForZK         Recommendation   `json:"recommendedForZK"`
}
