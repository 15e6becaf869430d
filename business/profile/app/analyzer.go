package app

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	chainapp "github.com/musks-suburbs/zk-fee-profiler/business/chain/app"
	chaindomain "github.com/musks-suburbs/zk-fee-profiler/business/chain/domain"
	"github.com/musks-suburbs/zk-fee-profiler/business/profile/domain"
	"github.com/musks-suburbs/zk-fee-profiler/internal/apperror"
	"github.com/musks-suburbs/zk-fee-profiler/internal/logger"
)

const (
	tracerName = "zk-fee-profiler/profile"
	meterName  = "zk-fee-profiler/profile"

	// tipSafetyMargin pads the recommended tip against underestimation when
	// the target percentile is low.
	tipSafetyMargin = 1.2

	// progressLogEvery controls how often the sampling loop logs progress.
	progressLogEvery = 20
)

// Params configures one analysis run.
type Params struct {
	// Head pins the sampling window below a fixed height. Nil means the
	// current chain head.
	Head *uint64

	// Window is the number of recent blocks the window spans.
	Window uint64

	// Stride samples every Nth block inside the window.
	Stride uint64

	// TargetPercentile in [0, 1] selects the aggressiveness of the
	// suggestion. Values outside the range are clamped during percentile
	// computation.
	TargetPercentile float64

	// Progress receives per-block sampling updates. Nil is allowed.
	Progress ProgressSink
}

// analyzerMetrics holds OTEL metric instruments.
type analyzerMetrics struct {
	analyses          metric.Int64Counter
	blocksSampled     metric.Int64Counter
	analysisDuration  metric.Float64Histogram
	recommendedMaxFee metric.Float64Gauge
}

// Analyzer samples a window of recent blocks and aggregates their fee
// statistics into a FeeReport. Stateless across runs: identical chain
// responses and identical parameters produce an identical report.
type Analyzer struct {
	chain  chainapp.ChainClient
	logger logger.LoggerInterface

	tracer  trace.Tracer
	metrics *analyzerMetrics
}

// NewAnalyzer creates an Analyzer reading blocks from chain.
func NewAnalyzer(chain chainapp.ChainClient, log logger.LoggerInterface) (*Analyzer, error) {
	a := &Analyzer{
		chain:  chain,
		logger: log,
		tracer: otel.Tracer(tracerName),
	}

	if err := a.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	return a, nil
}

// initMetrics initializes OTEL metric instruments.
func (a *Analyzer) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	a.metrics = &analyzerMetrics{}

	a.metrics.analyses, err = meter.Int64Counter(
		"fee_analyses_total",
		metric.WithDescription("Total fee analysis runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return err
	}

	a.metrics.blocksSampled, err = meter.Int64Counter(
		"fee_blocks_sampled_total",
		metric.WithDescription("Total blocks sampled across analysis runs"),
		metric.WithUnit("{block}"),
	)
	if err != nil {
		return err
	}

	a.metrics.analysisDuration, err = meter.Float64Histogram(
		"fee_analysis_duration_seconds",
		metric.WithDescription("Duration of fee analysis runs"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	a.metrics.recommendedMaxFee, err = meter.Float64Gauge(
		"fee_recommended_max_fee_gwei",
		metric.WithDescription("Most recent recommended maxFeePerGas in gwei"),
		metric.WithUnit("gwei"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Analyze runs one sampling pass and returns the aggregated report. A failed
// block fetch aborts the whole run; there is no partial report.
func (a *Analyzer) Analyze(ctx context.Context, p Params) (*domain.FeeReport, error) {
	ctx, span := a.tracer.Start(ctx, "profile.analyze",
		trace.WithAttributes(
			attribute.Int64("window", int64(p.Window)),
			attribute.Int64("stride", int64(p.Stride)),
			attribute.Float64("target_percentile", p.TargetPercentile),
		),
	)
	defer span.End()

	if err := validateParams(p); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid params")
		return nil, err
	}

	progress := p.Progress
	if progress == nil {
		progress = NopProgress{}
	}

	a.metrics.analyses.Add(ctx, 1)
	start := time.Now()

	chainID, err := a.chain.ChainID(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "chain id lookup failed")
		return nil, err
	}

	head, err := a.resolveHead(ctx, p)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "head lookup failed")
		return nil, err
	}

	// Sampling floor: the oldest height still inside the window, never
	// below genesis.
	var floor uint64
	if head+1 > p.Window {
		floor = head - p.Window + 1
	}
	planned := int((head-floor)/p.Stride) + 1

	a.logger.Info(ctx, "sampling recent blocks",
		"head", head,
		"window", p.Window,
		"stride", p.Stride,
		"planned", planned,
	)

	baseFees := make([]float64, 0, planned)
	effectivePrices := make([]float64, 0, planned)
	tips := make([]float64, 0, planned)

	sampled := 0
	for height := head; ; height -= p.Stride {
		block, err := a.chain.BlockByHeight(ctx, height)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "block fetch failed")
			return nil, apperror.Wrap(err, apperror.CodeBlockFetchFailed,
				fmt.Sprintf("sampling aborted at height %d", height))
		}

		sampled++
		a.metrics.blocksSampled.Add(ctx, 1)

		stats := ExtractBlockStats(block)

		baseFees = append(baseFees, stats.BaseFeeGwei)
		// Blocks without transactions (or with all-zero fees) would skew the
		// price and tip percentiles with degenerate zeros.
		if stats.MedianEffectiveGwei > 0 {
			effectivePrices = append(effectivePrices, stats.MedianEffectiveGwei)
		}
		if stats.MedianTipGwei > 0 {
			tips = append(tips, stats.MedianTipGwei)
		}

		progress.BlockSampled(height, sampled, planned)
		if sampled%progressLogEvery == 0 {
			a.logger.Debug(ctx, "sampling in progress", "height", height, "sampled", sampled)
		}

		if height < floor+p.Stride {
			break
		}
	}

	elapsed := time.Since(start)
	a.metrics.analysisDuration.Record(ctx, elapsed.Seconds())

	report := a.buildReport(chainID, head, sampled, elapsed, p, baseFees, effectivePrices, tips)

	a.metrics.recommendedMaxFee.Record(ctx, report.RecommendedForZK.MaxFeePerGasGwei)

	span.SetAttributes(
		attribute.Int("sampled", sampled),
		attribute.Float64("recommended_max_fee_gwei", report.RecommendedForZK.MaxFeePerGasGwei),
	)
	span.SetStatus(codes.Ok, "analyzed")

	a.logger.Info(ctx, "analysis complete",
		"sampled", sampled,
		"elapsed", elapsed,
		"recommended_max_fee_gwei", report.RecommendedForZK.MaxFeePerGasGwei,
	)

	return report, nil
}

func (a *Analyzer) resolveHead(ctx context.Context, p Params) (uint64, error) {
	if p.Head != nil {
		return *p.Head, nil
	}
	return a.chain.HeadHeight(ctx)
}

func (a *Analyzer) buildReport(
	chainID, head uint64,
	sampled int,
	elapsed time.Duration,
	p Params,
	baseFees, effectivePrices, tips []float64,
) *domain.FeeReport {
	baseP50 := domain.Median(baseFees)
	baseTarget := domain.Percentile(baseFees, p.TargetPercentile)

	tipP50 := domain.Median(tips)
	tipTarget := domain.Percentile(tips, p.TargetPercentile)

	// Pad the higher of median and target tip, then stack the target base
	// fee on top: maxFee >= baseFee + tip.
	recommendedTip := domain.Round3(math.Max(tipP50, tipTarget) * tipSafetyMargin)
	recommendedMaxFee := domain.Round3(baseTarget + recommendedTip)

	return &domain.FeeReport{
		ChainID:          chainID,
		Network:          chaindomain.NetworkName(chainID),
		Head:             head,
		SampledBlocks:    sampled,
		BlockWindow:      p.Window,
		Step:             p.Stride,
		TargetPercentile: p.TargetPercentile,
		TimingSec:        domain.Round2(elapsed.Seconds()),
		BaseFeeGwei: domain.BaseFeeQuantiles{
			P50:     domain.Round3(baseP50),
			PTarget: domain.Round3(baseTarget),
			Min:     domain.Round3(domain.Min(baseFees)),
			Max:     domain.Round3(domain.Max(baseFees)),
		},
		MedianEffectivePriceGwei: domain.Round3(domain.Median(effectivePrices)),
		MedianTipGwei: domain.TipQuantiles{
			P50:     domain.Round3(tipP50),
			PTarget: domain.Round3(tipTarget),
		},
		RecommendedForZK: domain.Recommendation{
			MaxPriorityFeeGwei: recommendedTip,
			MaxFeePerGasGwei:   recommendedMaxFee,
		},
	}
}

func validateParams(p Params) error {
	if p.Window == 0 {
		return apperror.Validation(apperror.CodeInvalidSampleWindow,
			"window must be greater than zero")
	}
	if p.Stride == 0 {
		return apperror.Validation(apperror.CodeInvalidSampleStride,
			"stride must be greater than zero")
	}
	return nil
}
