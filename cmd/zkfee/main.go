// Package main is the entry point for the ZK fee profiler.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	chainapp "github.com/musks-suburbs/zk-fee-profiler/business/chain/app"
	"github.com/musks-suburbs/zk-fee-profiler/business/chain/infra/ethereum"
	profileapp "github.com/musks-suburbs/zk-fee-profiler/business/profile/app"
	"github.com/musks-suburbs/zk-fee-profiler/business/profile/domain"
	"github.com/musks-suburbs/zk-fee-profiler/business/profile/infra"
	"github.com/musks-suburbs/zk-fee-profiler/internal/apm"
	"github.com/musks-suburbs/zk-fee-profiler/internal/config"
	"github.com/musks-suburbs/zk-fee-profiler/internal/health"
	"github.com/musks-suburbs/zk-fee-profiler/internal/logger"
	"github.com/musks-suburbs/zk-fee-profiler/internal/metrics"
	"github.com/musks-suburbs/zk-fee-profiler/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

type cliFlags struct {
	configPath  string
	rpcURL      string
	blocks      uint64
	step        uint64
	percentile  float64
	head        int64
	jsonOutput  bool
	watch       bool
	showVersion bool

	set map[string]bool
}

func parseFlags() cliFlags {
	var f cliFlags

	flag.StringVar(&f.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&f.rpcURL, "rpc", "", "RPC URL (default from RPC_URL env)")
	flag.Uint64Var(&f.blocks, "blocks", 0, "How many recent blocks to scan")
	flag.Uint64Var(&f.blocks, "b", 0, "Shorthand for -blocks")
	flag.Uint64Var(&f.step, "step", 0, "Sample every Nth block for speed")
	flag.Uint64Var(&f.step, "s", 0, "Shorthand for -step")
	flag.Float64Var(&f.percentile, "percentile", 0, "Target percentile (0.0-1.0) for fee suggestions")
	flag.Float64Var(&f.percentile, "p", 0, "Shorthand for -percentile")
	flag.Int64Var(&f.head, "head", -1, "Use this block number as head instead of latest")
	flag.BoolVar(&f.jsonOutput, "json", false, "Output JSON only (for scripts / dashboards)")
	flag.BoolVar(&f.watch, "watch", false, "Keep re-profiling in a terminal dashboard")
	flag.BoolVar(&f.showVersion, "version", false, "Show version information")
	flag.Parse()

	f.set = make(map[string]bool)
	flag.Visit(func(fl *flag.Flag) {
		f.set[fl.Name] = true
	})

	return f
}

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	f := parseFlags()

	if f.showVersion {
		fmt.Printf("zkfee %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !f.watch {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, f); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f cliFlags) error {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagOverrides(cfg, f)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log := newLogger(cfg, f)

	if !f.watch && !f.jsonOutput {
		log.Info(ctx, "starting fee profiler",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.OTLPProvider, log))

		if _, err := metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		); err != nil {
			return fmt.Errorf("failed to init metrics: %w", err)
		}

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go func() {
			if err := metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port))); err != nil {
				log.Warn(ctx, "prometheus metrics server stopped", "error", err)
			}
		}()
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	// Connect to the chain
	clientCfg := ethereum.DefaultClientConfig(cfg.Ethereum.RPCURL)
	clientCfg.RequestTimeout = cfg.Ethereum.RequestTimeout
	clientCfg.RateLimitRPM = cfg.Ethereum.RateLimitRPM
	clientCfg.BlockCacheTTL = cfg.Ethereum.BlockCacheTTL

	chainClient, err := ethereum.NewClient(clientCfg, log)
	if err != nil {
		return fmt.Errorf("failed to create chain client: %w", err)
	}
	defer chainClient.Close()

	if err := chainClient.Connect(ctx); err != nil {
		return err
	}

	analyzer, err := profileapp.NewAnalyzer(chainClient, log)
	if err != nil {
		return fmt.Errorf("failed to create analyzer: %w", err)
	}

	params := profileapp.Params{
		Window:           cfg.Profile.Blocks,
		Stride:           cfg.Profile.Step,
		TargetPercentile: cfg.Profile.TargetPercentile,
	}
	if f.head >= 0 {
		head := uint64(f.head)
		params.Head = &head
	}

	if f.watch {
		return runWatch(ctx, cfg, analyzer, chainClient, params)
	}
	return runOnce(ctx, analyzer, params, f.jsonOutput)
}

func newLogger(cfg *config.Config, f cliFlags) *logger.Logger {
	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	tracer := apm.NewTracer(cfg.App.Name)
	traceIDFn := func(ctx context.Context) string {
		if sc := tracer.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
			return sc.TraceID().String()
		}
		return ""
	}

	// In watch mode the terminal belongs to the TUI; in JSON mode stdout
	// belongs to the payload and logs would pollute piped output.
	if f.watch {
		return logger.New(io.Discard, logLevel, cfg.App.Name, traceIDFn)
	}
	return logger.New(os.Stderr, logLevel, cfg.App.Name, traceIDFn)
}

func applyFlagOverrides(cfg *config.Config, f cliFlags) {
	if f.set["rpc"] {
		cfg.Ethereum.RPCURL = f.rpcURL
	}
	if f.set["blocks"] || f.set["b"] {
		cfg.Profile.Blocks = f.blocks
	}
	if f.set["step"] || f.set["s"] {
		cfg.Profile.Step = f.step
	}
	if f.set["percentile"] || f.set["p"] {
		cfg.Profile.TargetPercentile = f.percentile
	}
}

// consoleProgress throttles sampling heartbeats for plain-text runs.
type consoleProgress struct {
	reporter *infra.ConsoleReporter
}

func (p consoleProgress) BlockSampled(height uint64, sampled, _ int) {
	if sampled%20 == 0 {
		p.reporter.Progress(height, sampled)
	}
}

// runOnce performs a single analysis and prints the report.
func runOnce(ctx context.Context, analyzer *profileapp.Analyzer, params profileapp.Params, jsonOutput bool) error {
	console := infra.NewConsoleReporter()
	if !jsonOutput {
		params.Progress = consoleProgress{reporter: console}
	}

	report, err := analyzer.Analyze(ctx, params)
	if err != nil {
		return err
	}

	if jsonOutput {
		return infra.NewJSONReporter().Report(report)
	}

	console.Report(report)
	return nil
}

// runWatch runs the Bubble Tea dashboard, re-profiling on an interval.
func runWatch(
	ctx context.Context,
	cfg *config.Config,
	analyzer *profileapp.Analyzer,
	chainClient chainapp.ChainClient,
	params profileapp.Params,
) error {
	healthServer := health.NewServer(8081, version)
	healthServer.RegisterCheck("chain", func(ctx context.Context) (bool, string) {
		if _, err := chainClient.HeadHeight(ctx); err != nil {
			return false, err.Error()
		}
		return true, ""
	})
	if err := healthServer.Start(); err == nil {
		defer healthServer.Stop(ctx)
	}

	params.Progress = ui.ProgressSink{}

	runFn := func() (*domain.FeeReport, error) {
		return analyzer.Analyze(ctx, params)
	}

	p := tea.NewProgram(ui.New(runFn, cfg.Profile.WatchInterval), tea.WithAltScreen())
	ui.Program = p

	// Quit the TUI when the outer context is cancelled (signal).
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	return err
}
