package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/musks-suburbs/zk-fee-profiler/business/profile/domain"
)

// Program is the running Bubble Tea program, set by the entry point so
// background goroutines can push messages into the UI loop.
var Program *tea.Program

// Send delivers a message to the running program, dropping it when no
// program is attached.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}

// ProgressMsg reports sampling progress for the current run.
type ProgressMsg struct {
	Height  uint64
	Sampled int
	Planned int
}

// ReportMsg carries a completed fee report.
type ReportMsg struct {
	Report *domain.FeeReport
}

// ErrorMsg carries a failed run.
type ErrorMsg struct {
	Error error
}

// refreshTickMsg drives the countdown between runs.
type refreshTickMsg struct{}

// ProgressSink adapts sampling progress into UI messages. It satisfies the
// profiling context's ProgressSink port.
type ProgressSink struct{}

// BlockSampled implements the port.
func (ProgressSink) BlockSampled(height uint64, sampled, planned int) {
	Send(ProgressMsg{Height: height, Sampled: sampled, Planned: planned})
}
