// Package app contains port definitions for the chain context.
package app

import (
	"context"

	"github.com/musks-suburbs/zk-fee-profiler/business/chain/domain"
)

// ChainClient is the profiler's view of a chain RPC endpoint. Implementations
// must return an error for unknown or unreachable heights rather than a
// partial block.
type ChainClient interface {
	// ChainID returns the chain's network ID.
	ChainID(ctx context.Context) (uint64, error)

	// HeadHeight returns the current head block height.
	HeadHeight(ctx context.Context) (uint64, error)

	// BlockByHeight returns the full block at height, transactions included.
	BlockByHeight(ctx context.Context, height uint64) (*domain.Block, error)
}
