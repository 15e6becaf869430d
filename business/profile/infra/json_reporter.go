package infra

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/musks-suburbs/zk-fee-profiler/business/profile/domain"
)

// payloadMode tags JSON output so downstream consumers can route it.
const payloadMode = "zk_fee_profile"

// utcTimestampLayout matches the historical payload format.
const utcTimestampLayout = "2006-01-02 15:04:05"

// Payload is the JSON envelope around a FeeReport.
type Payload struct {
	Mode           string            `json:"mode"`
	GeneratedAtUTC string            `json:"generatedAtUtc"`
	Data           *domain.FeeReport `json:"data"`
}

// JSONReporter renders a FeeReport as an indented JSON payload for scripts
// and dashboards.
type JSONReporter struct {
	out io.Writer
	now func() time.Time
}

// NewJSONReporter creates a JSONReporter writing to stdout.
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{
		out: os.Stdout,
		now: time.Now,
	}
}

// NewJSONReporterTo creates a JSONReporter writing to out.
func NewJSONReporterTo(out io.Writer) *JSONReporter {
	return &JSONReporter{out: out, now: time.Now}
}

// Report writes the enveloped report.
func (r *JSONReporter) Report(report *domain.FeeReport) error {
	payload := Payload{
		Mode:           payloadMode,
		GeneratedAtUTC: r.now().UTC().Format(utcTimestampLayout),
		Data:           report,
	}

	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	_, err = fmt.Fprintln(r.out, string(encoded))
	return err
}
