// Package infra contains output adapters for the profiling context.
package infra

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/musks-suburbs/zk-fee-profiler/business/profile/domain"
)

// ConsoleReporter renders a FeeReport as human-readable text.
type ConsoleReporter struct {
	out io.Writer
}

// NewConsoleReporter creates a ConsoleReporter writing to stdout.
func NewConsoleReporter() *ConsoleReporter {
	return &ConsoleReporter{
		out: os.Stdout,
	}
}

// NewConsoleReporterTo creates a ConsoleReporter writing to out.
func NewConsoleReporterTo(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{out: out}
}

// Report writes the full report.
func (r *ConsoleReporter) Report(report *domain.FeeReport) {
	bf := report.BaseFeeGwei
	tip := report.MedianTipGwei
	rec := report.RecommendedForZK

	fmt.Fprintln(r.out, "")
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "GAS FEE PROFILE - %s (chainId %d)\n", report.Network, report.ChainID)
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintf(r.out, "Head block:     #%d  window=%d  step=%d\n", report.Head, report.BlockWindow, report.Step)
	fmt.Fprintf(r.out, "Sampled blocks: %d in %gs\n", report.SampledBlocks, report.TimingSec)
	fmt.Fprintf(r.out, "Target pct:     %.1f%%\n", report.TargetPercentile*100)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "BASE FEE (Gwei)")
	fmt.Fprintf(r.out, "  p50:            %g\n", bf.P50)
	fmt.Fprintf(r.out, "  pTarget:        %g\n", bf.PTarget)
	fmt.Fprintf(r.out, "  min / max:      %g / %g\n", bf.Min, bf.Max)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "PRIORITY TIP (Gwei)")
	fmt.Fprintf(r.out, "  p50:            %g\n", tip.P50)
	fmt.Fprintf(r.out, "  pTarget:        %g\n", tip.PTarget)
	fmt.Fprintf(r.out, "  median eff.:    %g\n", report.MedianEffectivePriceGwei)
	fmt.Fprintln(r.out, "--------------------------------------------------------------------------------")
	fmt.Fprintln(r.out, "SUGGESTED EIP-1559 SETTINGS (soundness-critical txs)")
	fmt.Fprintf(r.out, "  maxPriorityFeePerGas ~ %g Gwei\n", rec.MaxPriorityFeeGwei)
	fmt.Fprintf(r.out, "  maxFeePerGas         ~ %g Gwei\n", rec.MaxFeePerGasGwei)
	fmt.Fprintln(r.out, "================================================================================")
	fmt.Fprintln(r.out, "Use these values as upper bounds in rollup or prover flows where deterministic")
	fmt.Fprintln(r.out, "gas assumptions impact soundness guarantees.")
}

// Progress prints a sampling heartbeat.
func (r *ConsoleReporter) Progress(height uint64, sampled int) {
	fmt.Fprintf(r.out, "[%s] at block %d (sampled %d)\n", time.Now().Format("15:04:05"), height, sampled)
}
