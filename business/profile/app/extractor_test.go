package app_test

import (
	"math/big"
	"testing"

	chaindomain "github.com/musks-suburbs/zk-fee-profiler/business/chain/domain"
	"github.com/musks-suburbs/zk-fee-profiler/business/profile/app"
)

// Helper to build a block with the given base fee (wei) and transactions.
func makeBlock(baseFeeWei int64, txs ...chaindomain.Transaction) *chaindomain.Block {
	var baseFee *big.Int
	if baseFeeWei >= 0 {
		baseFee = big.NewInt(baseFeeWei)
	}
	return &chaindomain.Block{
		Height:       100,
		BaseFee:      baseFee,
		Transactions: txs,
	}
}

func legacy(gasPriceWei int64) chaindomain.Transaction {
	return chaindomain.LegacyTx{GasPrice: big.NewInt(gasPriceWei)}
}

func dynamic(maxFeeWei, maxTipWei int64) chaindomain.Transaction {
	return chaindomain.DynamicFeeTx{
		MaxFeePerGas:         big.NewInt(maxFeeWei),
		MaxPriorityFeePerGas: big.NewInt(maxTipWei),
	}
}

func TestExtractBlockStats_EmptyBlock(t *testing.T) {
	stats := app.ExtractBlockStats(makeBlock(2_000_000_000))

	if stats.BaseFeeGwei != 2 {
		t.Errorf("BaseFeeGwei = %v, want 2", stats.BaseFeeGwei)
	}
	if stats.MedianEffectiveGwei != 0 {
		t.Errorf("MedianEffectiveGwei = %v, want 0", stats.MedianEffectiveGwei)
	}
	if stats.MedianTipGwei != 0 {
		t.Errorf("MedianTipGwei = %v, want 0", stats.MedianTipGwei)
	}
}

func TestExtractBlockStats_NoBaseFee(t *testing.T) {
	// Pre-EIP-1559 block: base fee absent, legacy tip equals the gas price.
	stats := app.ExtractBlockStats(makeBlock(-1, legacy(7)))

	if stats.BaseFeeGwei != 0 {
		t.Errorf("BaseFeeGwei = %v, want 0", stats.BaseFeeGwei)
	}
	if stats.MedianEffectiveGwei != 7e-9 {
		t.Errorf("MedianEffectiveGwei = %v, want 7e-9", stats.MedianEffectiveGwei)
	}
	if stats.MedianTipGwei != 7e-9 {
		t.Errorf("MedianTipGwei = %v, want 7e-9", stats.MedianTipGwei)
	}
}

func TestExtractBlockStats_LegacyTipApproximation(t *testing.T) {
	// gasPrice = baseFee + 5 wei: the implied tip is exactly 5 wei.
	baseFee := int64(50)
	stats := app.ExtractBlockStats(makeBlock(baseFee, legacy(baseFee+5)))

	if stats.MedianTipGwei != 5e-9 {
		t.Errorf("MedianTipGwei = %v, want 5e-9", stats.MedianTipGwei)
	}
	if stats.MedianEffectiveGwei != 55e-9 {
		t.Errorf("MedianEffectiveGwei = %v, want 55e-9", stats.MedianEffectiveGwei)
	}
}

func TestExtractBlockStats_LegacyTipFlooredAtZero(t *testing.T) {
	// gasPrice below base fee must not produce a negative tip.
	stats := app.ExtractBlockStats(makeBlock(100, legacy(40)))

	if stats.MedianTipGwei != 0 {
		t.Errorf("MedianTipGwei = %v, want 0", stats.MedianTipGwei)
	}
	if stats.MedianEffectiveGwei != 40e-9 {
		t.Errorf("MedianEffectiveGwei = %v, want 40e-9", stats.MedianEffectiveGwei)
	}
}

func TestExtractBlockStats_DynamicFeeCapped(t *testing.T) {
	// Effective price = min(maxFee, baseFee + tip) = min(100, 50+10) = 60.
	stats := app.ExtractBlockStats(makeBlock(50, dynamic(100, 10)))

	if stats.MedianEffectiveGwei != 60e-9 {
		t.Errorf("MedianEffectiveGwei = %v, want 60e-9", stats.MedianEffectiveGwei)
	}
	if stats.MedianTipGwei != 10e-9 {
		t.Errorf("MedianTipGwei = %v, want 10e-9", stats.MedianTipGwei)
	}
}

func TestExtractBlockStats_DynamicFeeCapBinds(t *testing.T) {
	// maxFee below baseFee + tip: the cap wins.
	stats := app.ExtractBlockStats(makeBlock(50, dynamic(55, 10)))

	if stats.MedianEffectiveGwei != 55e-9 {
		t.Errorf("MedianEffectiveGwei = %v, want 55e-9", stats.MedianEffectiveGwei)
	}
	if stats.MedianTipGwei != 10e-9 {
		t.Errorf("MedianTipGwei = %v, want 10e-9", stats.MedianTipGwei)
	}
}

func TestExtractBlockStats_MixedBlockMedians(t *testing.T) {
	// Two transactions: medians are the average of the two values.
	stats := app.ExtractBlockStats(makeBlock(50,
		legacy(70),       // effective 70, tip 20
		dynamic(100, 10), // effective 60, tip 10
	))

	if stats.MedianEffectiveGwei != 65e-9 {
		t.Errorf("MedianEffectiveGwei = %v, want 65e-9", stats.MedianEffectiveGwei)
	}
	if stats.MedianTipGwei != 15e-9 {
		t.Errorf("MedianTipGwei = %v, want 15e-9", stats.MedianTipGwei)
	}
}

func TestExtractBlockStats_NilFeeFieldsReadAsZero(t *testing.T) {
	stats := app.ExtractBlockStats(makeBlock(50,
		chaindomain.LegacyTx{},
		chaindomain.DynamicFeeTx{},
	))

	// Legacy: price 0, tip max(0, 0-50) = 0. Dynamic: min(0, 50+0) = 0, tip 0.
	if stats.MedianEffectiveGwei != 0 {
		t.Errorf("MedianEffectiveGwei = %v, want 0", stats.MedianEffectiveGwei)
	}
	if stats.MedianTipGwei != 0 {
		t.Errorf("MedianTipGwei = %v, want 0", stats.MedianTipGwei)
	}
}

func TestExtractBlockStats_DoesNotMutateBlock(t *testing.T) {
	baseFee := big.NewInt(50)
	gasPrice := big.NewInt(40)
	block := &chaindomain.Block{
		Height:       1,
		BaseFee:      baseFee,
		Transactions: []chaindomain.Transaction{chaindomain.LegacyTx{GasPrice: gasPrice}},
	}

	app.ExtractBlockStats(block)

	if baseFee.Int64() != 50 || gasPrice.Int64() != 40 {
		t.Errorf("input mutated: baseFee=%v gasPrice=%v", baseFee, gasPrice)
	}
}
