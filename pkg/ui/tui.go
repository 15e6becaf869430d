package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/musks-suburbs/zk-fee-profiler/business/profile/domain"
)

// RunFunc executes one profiling run and returns its report. The TUI invokes
// it off the UI goroutine; progress arrives separately via Send.
type RunFunc func() (*domain.FeeReport, error)

// Model is the watch-mode TUI model.
type Model struct {
	run      RunFunc
	interval time.Duration

	spinner  spinner.Model
	progress progress.Model

	report    *domain.FeeReport
	err       error
	sampling  bool
	sampled   int
	planned   int
	height    uint64
	refreshIn int
	width     int
}

// New creates the watch-mode model. interval is the pause between automatic
// re-profiles.
func New(run RunFunc, interval time.Duration) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	return Model{
		run:      run,
		interval: interval,
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient()),
		sampling: true,
		width:    80,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.startRun())
}

func (m Model) startRun() tea.Cmd {
	run := m.run
	return func() tea.Msg {
		report, err := run()
		if err != nil {
			return ErrorMsg{Error: err}
		}
		return ReportMsg{Report: report}
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return refreshTickMsg{}
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if !m.sampling {
				m.sampling = true
				m.sampled = 0
				m.err = nil
				return m, tea.Batch(m.spinner.Tick, m.startRun())
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 8
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case ProgressMsg:
		m.sampled = msg.Sampled
		m.planned = msg.Planned
		m.height = msg.Height
		return m, nil

	case ReportMsg:
		m.report = msg.Report
		m.err = nil
		m.sampling = false
		m.refreshIn = int(m.interval / time.Second)
		return m, refreshTick()

	case ErrorMsg:
		m.err = msg.Error
		m.sampling = false
		m.refreshIn = int(m.interval / time.Second)
		return m, refreshTick()

	case refreshTickMsg:
		if m.sampling {
			return m, nil
		}
		m.refreshIn--
		if m.refreshIn <= 0 {
			m.sampling = true
			m.sampled = 0
			m.err = nil
			return m, tea.Batch(m.spinner.Tick, m.startRun())
		}
		return m, refreshTick()
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("ZK FEE PROFILER"))
	b.WriteString("\n\n")

	switch {
	case m.sampling:
		b.WriteString(fmt.Sprintf("%s sampling blocks...\n\n", m.spinner.View()))
		if m.planned > 0 {
			ratio := float64(m.sampled) / float64(m.planned)
			b.WriteString("  " + m.progress.ViewAs(ratio) + "\n")
			b.WriteString(LabelStyle.Render(
				fmt.Sprintf("  block %d  (%d/%d)", m.height, m.sampled, m.planned)))
			b.WriteString("\n")
		}
	case m.err != nil:
		b.WriteString(ErrorStyle.Render("analysis failed") + "\n\n")
		b.WriteString("  " + m.err.Error() + "\n\n")
		b.WriteString(LabelStyle.Render(fmt.Sprintf("retrying in %ds", m.refreshIn)))
		b.WriteString("\n")
	case m.report != nil:
		b.WriteString(m.renderReport())
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render(fmt.Sprintf("next refresh in %ds", m.refreshIn)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("r: refresh now  -  q: quit"))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderReport() string {
	r := m.report
	bf := r.BaseFeeGwei
	tip := r.MedianTipGwei
	rec := r.RecommendedForZK

	row := func(label string, value string) string {
		return LabelStyle.Render(fmt.Sprintf("%-18s", label)) + ValueStyle.Render(value)
	}

	lines := []string{
		SectionStyle.Render(fmt.Sprintf("%s (chainId %d)", r.Network, r.ChainID)),
		row("head", fmt.Sprintf("#%d  window=%d  step=%d", r.Head, r.BlockWindow, r.Step)),
		row("sampled", fmt.Sprintf("%d blocks in %gs", r.SampledBlocks, r.TimingSec)),
		row("target pct", fmt.Sprintf("%.1f%%", r.TargetPercentile*100)),
		"",
		SectionStyle.Render("BASE FEE (Gwei)"),
		row("p50 / pTarget", fmt.Sprintf("%g / %g", bf.P50, bf.PTarget)),
		row("min / max", fmt.Sprintf("%g / %g", bf.Min, bf.Max)),
		"",
		SectionStyle.Render("TIP (Gwei)"),
		row("p50 / pTarget", fmt.Sprintf("%g / %g", tip.P50, tip.PTarget)),
		row("median eff.", fmt.Sprintf("%g", r.MedianEffectivePriceGwei)),
		"",
		SectionStyle.Render("SUGGESTED EIP-1559 SETTINGS"),
		row("maxPriorityFee", HighlightStyle.Render(fmt.Sprintf("%g Gwei", rec.MaxPriorityFeeGwei))),
		row("maxFeePerGas", HighlightStyle.Render(fmt.Sprintf("%g Gwei", rec.MaxFeePerGasGwei))),
	}

	return BoxStyle.Render(strings.Join(lines, "\n"))
}
