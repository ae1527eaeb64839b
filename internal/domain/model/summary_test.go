package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSummarize(t *testing.T) {
	records := []ResultRecord{
		{Elapsed: 4 * time.Millisecond, StatusCode: 200},
		{Elapsed: 1 * time.Millisecond, StatusCode: 200},
		{Elapsed: 3 * time.Millisecond, TimedOut: true, Failure: FailureTimeout},
		{Elapsed: 2 * time.Millisecond, Failure: FailureTransport},
	}

	got := Summarize(records)
	if got.Count != 4 || got.Succeeded != 2 || got.TimedOut != 1 || got.Failed != 1 {
		t.Errorf("counts = %+v", got)
	}
	if got.Min != time.Millisecond || got.Max != 4*time.Millisecond {
		t.Errorf("min/max = %v/%v", got.Min, got.Max)
	}
	if got.Avg != 2500*time.Microsecond {
		t.Errorf("avg = %v", got.Avg)
	}
	if got.P50 != 2500*time.Microsecond {
		t.Errorf("p50 = %v", got.P50)
	}
	if got.P99 < 3*time.Millisecond || got.P99 > got.Max {
		t.Errorf("p99 = %v out of range", got.P99)
	}
}

func TestSummarizeEdgeCases(t *testing.T) {
	if diff := cmp.Diff(Summary{}, Summarize(nil)); diff != "" {
		t.Errorf("empty summary (-want +got):\n%s", diff)
	}

	single := Summarize([]ResultRecord{{Elapsed: 7 * time.Millisecond}})
	for _, d := range []time.Duration{single.Min, single.Max, single.Avg, single.P50, single.P95, single.P99} {
		if d != 7*time.Millisecond {
			t.Errorf("single record summary = %+v", single)
			break
		}
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"nil", nil, FailureNone},
		{"timeout sentinel", fmt.Errorf("read: %w", ErrTimeout), FailureTimeout},
		{"deadline", fmt.Errorf("read: %w", os.ErrDeadlineExceeded), FailureTimeout},
		{"net timeout", timeoutError{}, FailureTimeout},
		{"protocol", Protocolf("bad magic 0x%04x", 0x1234), FailureProtocol},
		{"transport", fmt.Errorf("%w: connection refused", ErrTransport), FailureTransport},
		{"other", errors.New("boom"), FailureTransport},
		{"context", context.Canceled, FailureTransport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Errorf("Classify(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestMessagePayloadRoundTrip(t *testing.T) {
	msg, err := NewMessage(MessageTypeResult, "run-1", ResultRecord{Round: 2, URL: "http://a/", StatusCode: 200})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	if msg.Type != MessageTypeResult || msg.RunID != "run-1" || msg.Timestamp == 0 {
		t.Errorf("unexpected envelope: %+v", msg)
	}

	var got ResultRecord
	if err := msg.ParsePayload(&got); err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if got.Round != 2 || got.StatusCode != 200 || got.URL != "http://a/" {
		t.Errorf("payload = %+v", got)
	}

	empty, _ := NewMessage(MessageTypeRunStarted, "run-1", nil)
	if err := empty.ParsePayload(&got); err != nil {
		t.Errorf("nil payload: %v", err)
	}
}
