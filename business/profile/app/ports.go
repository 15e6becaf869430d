// Package app contains the fee extraction and aggregation services for the
// profiling context.
package app

// ProgressSink receives sampling progress during an analysis run. The console
// runner logs it; the watch-mode TUI renders it as a progress bar.
type ProgressSink interface {
	BlockSampled(height uint64, sampled, planned int)
}

// NopProgress discards progress updates.
type NopProgress struct{}

// BlockSampled implements ProgressSink.
func (NopProgress) BlockSampled(uint64, int, int) {}
