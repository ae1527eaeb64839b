// Package report renders the records of a run as a text table, JSON or YAML.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
)

// Format selects the output encoding
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name. An empty name selects FormatText.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", model.Configurationf("unknown output format %q", name)
	}
}

// Report is everything written for one run
type Report struct {
	RunID       string               `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time            `json:"generated_at" yaml:"generated_at"`
	Summary     model.Summary        `json:"summary" yaml:"summary"`
	Records     []model.ResultRecord `json:"records" yaml:"records"`
}

// New builds a report over records
func New(runID string, records []model.ResultRecord) *Report {
	return &Report{
		RunID:       runID,
		GeneratedAt: time.Now(),
		Summary:     model.Summarize(records),
		Records:     records,
	}
}

// Write renders r to w in format
func Write(w io.Writer, format Format, r *Report) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return writeText(w, r)
	default:
		return model.Configurationf("unknown output format %q", format)
	}
}

const row = "|%-15v|%-20s|%-10v|%-15v|%-10v|%-75s\n"

func writeText(w io.Writer, r *Report) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\nRun: %s\n\n", r.GeneratedAt.Format("06/01/02 15:04:05"))
	fmt.Fprintf(&sb, row, "Connection", "StartTime", "TimedOut", "TimeElapsed(ms)", "ReplyCode", "URL")
	sb.WriteByte('\n')
	for i, rec := range r.Records {
		fmt.Fprintf(&sb, row, i, rec.StartedAt.Format("2006-01-02 15:04:05"), rec.TimedOut,
			rec.ElapsedMillis(), rec.StatusCode, rec.URL)
	}

	s := r.Summary
	fmt.Fprintf(&sb, "\nRequests: %d  Succeeded: %d  TimedOut: %d  Failed: %d\n",
		s.Count, s.Succeeded, s.TimedOut, s.Failed)
	if s.Count > 0 {
		fmt.Fprintf(&sb, "Elapsed(ms): min %d  avg %d  max %d  p50 %d  p95 %d  p99 %d\n",
			s.Min.Milliseconds(), s.Avg.Milliseconds(), s.Max.Milliseconds(),
			s.P50.Milliseconds(), s.P95.Milliseconds(), s.P99.Milliseconds())
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
