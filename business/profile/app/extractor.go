package app

import (
	"math/big"

	chaindomain "github.com/musks-suburbs/zk-fee-profiler/business/chain/domain"
	"github.com/musks-suburbs/zk-fee-profiler/business/profile/domain"
)

// ExtractBlockStats computes one block's fee statistics. Pure function of its
// input; malformed fee fields already read as zero at the domain boundary.
//
// Effective price per transaction follows the EIP-1559 reconciliation
// min(maxFeePerGas, baseFee + maxPriorityFeePerGas). Legacy transactions do
// not declare a tip, so their tip is approximated as gasPrice - baseFee,
// floored at zero. The approximation is a long-standing part of the
// observable output; keep it as is.
func ExtractBlockStats(block *chaindomain.Block) domain.BlockFeeStats {
	baseFeeWei := block.BaseFeeWei()

	effectivePrices := make([]float64, 0, len(block.Transactions))
	tips := make([]float64, 0, len(block.Transactions))

	for _, tx := range block.Transactions {
		switch tx := tx.(type) {
		case chaindomain.DynamicFeeTx:
			tipWei := tx.MaxPriorityFeeWei()

			effectiveWei := new(big.Int).Add(baseFeeWei, tipWei)
			if maxFeeWei := tx.MaxFeeWei(); maxFeeWei.Cmp(effectiveWei) < 0 {
				effectiveWei = maxFeeWei
			}

			effectivePrices = append(effectivePrices, domain.WeiToGwei(effectiveWei))
			tips = append(tips, domain.WeiToGwei(tipWei))

		case chaindomain.LegacyTx:
			gasPriceWei := tx.GasPriceWei()

			tipWei := new(big.Int).Sub(gasPriceWei, baseFeeWei)
			if tipWei.Sign() < 0 {
				tipWei.SetInt64(0)
			}

			effectivePrices = append(effectivePrices, domain.WeiToGwei(gasPriceWei))
			tips = append(tips, domain.WeiToGwei(tipWei))
		}
	}

	return domain.BlockFeeStats{
		BaseFeeGwei:         domain.WeiToGwei(baseFeeWei),
		MedianEffectiveGwei: domain.Median(effectivePrices),
		MedianTipGwei:       domain.Median(tips),
	}
}
