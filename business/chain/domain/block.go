// Package domain contains the core domain types for the chain context.
package domain

import "math/big"

// Block is a read-only view of one chain block, carrying only what fee
// extraction needs. BaseFee is nil on pre-EIP-1559 blocks.
type Block struct {
	Height       uint64
	BaseFee      *big.Int
	Transactions []Transaction
}

// BaseFeeWei returns the base fee in wei, zero when absent.
func (b *Block) BaseFeeWei() *big.Int {
	if b.BaseFee == nil {
		return new(big.Int)
	}
	return b.BaseFee
}

// Transaction is a sealed sum over the two fee encodings the profiler
// distinguishes. Anything that is not a dynamic-fee transaction is treated
// as legacy.
type Transaction interface {
	isTransaction()
}

// LegacyTx carries a single all-in gas price (type-0 and other pre-1559
// encodings).
type LegacyTx struct {
	GasPrice *big.Int
}

func (LegacyTx) isTransaction() {}

// GasPriceWei returns the gas price in wei, zero when absent.
func (tx LegacyTx) GasPriceWei() *big.Int {
	if tx.GasPrice == nil {
		return new(big.Int)
	}
	return tx.GasPrice
}

// DynamicFeeTx carries the EIP-1559 fee cap pair (type-2).
type DynamicFeeTx struct {
	MaxFeePerGas         *big.Int
	MaxPriorityFeePerGas *big.Int
}

func (DynamicFeeTx) isTransaction() {}

// MaxFeeWei returns the fee cap in wei, zero when absent.
func (tx DynamicFeeTx) MaxFeeWei() *big.Int {
	if tx.MaxFeePerGas == nil {
		return new(big.Int)
	}
	return tx.MaxFeePerGas
}

// MaxPriorityFeeWei returns the tip cap in wei, zero when absent.
func (tx DynamicFeeTx) MaxPriorityFeeWei() *big.Int {
	if tx.MaxPriorityFeePerGas == nil {
		return new(big.Int)
	}
	return tx.MaxPriorityFeePerGas
}
