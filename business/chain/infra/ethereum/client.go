// Package ethereum implements the ChainClient port on top of go-ethereum.
package ethereum

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/musks-suburbs/zk-fee-profiler/business/chain/domain"
	"github.com/musks-suburbs/zk-fee-profiler/internal/apperror"
	"github.com/musks-suburbs/zk-fee-profiler/internal/cache"
	"github.com/musks-suburbs/zk-fee-profiler/internal/circuitbreaker"
	"github.com/musks-suburbs/zk-fee-profiler/internal/logger"
	"github.com/musks-suburbs/zk-fee-profiler/internal/ratelimit"
)

const (
	tracerName = "zk-fee-profiler/chain"
	meterName  = "zk-fee-profiler/chain"
)

// ClientConfig holds configuration for the RPC client.
type ClientConfig struct {
	RPCURL         string        // chain RPC endpoint
	RequestTimeout time.Duration // per-request timeout
	RateLimitRPM   int           // block fetches allowed per minute
	BlockCacheTTL  time.Duration // how long fetched blocks stay cached
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(rpcURL string) ClientConfig {
	return ClientConfig{
		RPCURL:         rpcURL,
		RequestTimeout: 30 * time.Second,
		RateLimitRPM:   600,
		BlockCacheTTL:  10 * time.Minute,
	}
}

// clientMetrics holds OTEL metric instruments.
type clientMetrics struct {
	blockFetches metric.Int64Counter
	fetchErrors  metric.Int64Counter
	cacheHits    metric.Int64Counter
	cacheMisses  metric.Int64Counter
}

// Client implements the ChainClient port using go-ethereum.
type Client struct {
	config ClientConfig
	logger logger.LoggerInterface

	client   *ethclient.Client
	clientMu sync.RWMutex

	// Sampled blocks are immutable, so watch-mode re-profiles can reuse them.
	blockCache *cache.Cache[uint64, *domain.Block]

	limiter *ratelimit.Limiter
	cb      *circuitbreaker.CircuitBreaker[*types.Block]

	// Observability
	tracer  trace.Tracer
	metrics *clientMetrics
}

// NewClient creates a new chain RPC client.
func NewClient(cfg ClientConfig, log logger.LoggerInterface) (*Client, error) {
	c := &Client{
		config:     cfg,
		logger:     log,
		blockCache: cache.New[uint64, *domain.Block](5 * time.Minute),
		limiter:    ratelimit.New(cfg.RateLimitRPM),
		cb:         circuitbreaker.New[*types.Block](circuitbreaker.DefaultConfig("chain-rpc")),
		tracer:     otel.Tracer(tracerName),
	}

	if err := c.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return c, nil
}

// initMetrics initializes OTEL metric instruments.
func (c *Client) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	c.metrics = &clientMetrics{}

	c.metrics.blockFetches, err = meter.Int64Counter(
		"block_fetches_total",
		metric.WithDescription("Total block fetch attempts"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return err
	}

	c.metrics.fetchErrors, err = meter.Int64Counter(
		"block_fetch_errors_total",
		metric.WithDescription("Total failed block fetches"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	c.metrics.cacheHits, err = meter.Int64Counter(
		"block_cache_hits_total",
		metric.WithDescription("Block cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return err
	}

	c.metrics.cacheMisses, err = meter.Int64Counter(
		"block_cache_misses_total",
		metric.WithDescription("Block cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Connect dials the RPC endpoint and probes it with a ChainID call. The probe
// is the liveness check: sampling never starts against an unreachable node.
func (c *Client) Connect(ctx context.Context) error {
	ctx, span := c.tracer.Start(ctx, "chain.connect",
		trace.WithAttributes(attribute.String("url", c.config.RPCURL)),
	)
	defer span.End()

	client, err := ethclient.DialContext(ctx, c.config.RPCURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dial failed")
		return apperror.New(apperror.CodeChainConnectionFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("failed to dial %s", c.config.RPCURL)))
	}

	probeCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	if _, err := client.ChainID(probeCtx); err != nil {
		client.Close()
		span.RecordError(err)
		span.SetStatus(codes.Error, "liveness probe failed")
		return apperror.New(apperror.CodeChainConnectionFailed,
			apperror.WithCause(err),
			apperror.WithContext("RPC endpoint did not answer liveness probe"))
	}

	c.clientMu.Lock()
	c.client = client
	c.clientMu.Unlock()

	span.SetStatus(codes.Ok, "connected")
	c.logger.Info(ctx, "chain client connected", "url", c.config.RPCURL)

	return nil
}

// ChainID returns the chain's network ID.
func (c *Client) ChainID(ctx context.Context) (uint64, error) {
	client, err := c.conn()
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	id, err := client.ChainID(ctx)
	if err != nil {
		return 0, apperror.New(apperror.CodeChainRPCError,
			apperror.WithCause(err),
			apperror.WithContext("failed to get chain ID"))
	}

	return id.Uint64(), nil
}

// HeadHeight returns the current head block height.
func (c *Client) HeadHeight(ctx context.Context) (uint64, error) {
	client, err := c.conn()
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
	defer cancel()

	head, err := client.BlockNumber(ctx)
	if err != nil {
		return 0, apperror.New(apperror.CodeChainRPCError,
			apperror.WithCause(err),
			apperror.WithContext("failed to get head height"))
	}

	return head, nil
}

// BlockByHeight returns the full block at height, transactions included.
func (c *Client) BlockByHeight(ctx context.Context, height uint64) (*domain.Block, error) {
	ctx, span := c.tracer.Start(ctx, "chain.block_by_height",
		trace.WithAttributes(attribute.Int64("height", int64(height))),
	)
	defer span.End()

	if block, found := c.blockCache.Get(ctx, height); found {
		c.metrics.cacheHits.Add(ctx, 1)
		span.AddEvent("cache_hit")
		return block, nil
	}

	c.metrics.cacheMisses.Add(ctx, 1)

	client, err := c.conn()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		span.RecordError(err)
		return nil, apperror.New(apperror.CodeRateLimitExceeded,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("rate limiter interrupted at height %d", height)))
	}

	c.metrics.blockFetches.Add(ctx, 1)

	raw, err := c.cb.Execute(func() (*types.Block, error) {
		fetchCtx, cancel := context.WithTimeout(ctx, c.config.RequestTimeout)
		defer cancel()
		return client.BlockByNumber(fetchCtx, new(big.Int).SetUint64(height))
	})
	if err != nil {
		c.metrics.fetchErrors.Add(ctx, 1)
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")

		if errors.Is(err, ethereum.NotFound) {
			return nil, apperror.New(apperror.CodeBlockNotFound,
				apperror.WithCause(err),
				apperror.WithContext(fmt.Sprintf("block %d not found", height)))
		}
		return nil, apperror.New(apperror.CodeBlockFetchFailed,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("failed to fetch block %d", height)))
	}

	block := convertBlock(raw)

	c.blockCache.Set(ctx, height, block, c.config.BlockCacheTTL)

	span.SetAttributes(attribute.Int("tx_count", len(block.Transactions)))
	span.SetStatus(codes.Ok, "fetched")

	return block, nil
}

// Close closes the client.
func (c *Client) Close() error {
	c.clientMu.Lock()
	defer c.clientMu.Unlock()

	if c.client != nil {
		c.client.Close()
		c.client = nil
	}

	c.blockCache.Close()

	return nil
}

func (c *Client) conn() (*ethclient.Client, error) {
	c.clientMu.RLock()
	client := c.client
	c.clientMu.RUnlock()

	if client == nil {
		return nil, apperror.New(apperror.CodeChainConnectionFailed,
			apperror.WithContext("chain client not connected"))
	}
	return client, nil
}

// convertBlock maps a go-ethereum block onto the domain view. Absent fee
// fields become zero here, at the deserialization boundary, so extraction
// logic never probes for missing data.
func convertBlock(raw *types.Block) *domain.Block {
	block := &domain.Block{
		Height:       raw.NumberU64(),
		BaseFee:      raw.BaseFee(),
		Transactions: make([]domain.Transaction, 0, len(raw.Transactions())),
	}

	for _, tx := range raw.Transactions() {
		if tx.Type() == types.DynamicFeeTxType {
			block.Transactions = append(block.Transactions, domain.DynamicFeeTx{
				MaxFeePerGas:         tx.GasFeeCap(),
				MaxPriorityFeePerGas: tx.GasTipCap(),
			})
			continue
		}
		// Everything that is not type 2 is priced like a legacy transaction.
		block.Transactions = append(block.Transactions, domain.LegacyTx{
			GasPrice: tx.GasPrice(),
		})
	}

	return block
}
