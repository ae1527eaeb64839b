package model

import "time"

// ResultRecord is the outcome of one round. Exactly one is produced per
// attempted round, failed rounds included.
type ResultRecord struct {
	// Round is the 1-based round number within its session
	Round int `json:"round" yaml:"round"`
	// URL is the resolved target URL
	URL string `json:"url" yaml:"url"`
	// StartedAt is the wall-clock time the round started
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	// Elapsed is the time from the first write to END_RESPONSE or failure
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
	// StatusCode is 0 when no SEND_HEADERS message was received
	StatusCode int `json:"status_code" yaml:"status_code"`
	// Reason is the reason phrase of the response
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
	// TimedOut is set when the round failed on a read timeout
	TimedOut bool `json:"timed_out" yaml:"timed_out"`
	// Failure classifies a failed round
	Failure FailureKind `json:"failure,omitempty" yaml:"failure,omitempty"`
	// Error is the failure text
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	// Headers is the raw response header block
	Headers string `json:"headers,omitempty" yaml:"headers,omitempty"`
	// BytesReceived is the size of the response body
	BytesReceived int `json:"bytes_received" yaml:"bytes_received"`
}

// Succeeded reports whether the round reached END_RESPONSE
func (r ResultRecord) Succeeded() bool {
	return r.Failure == FailureNone
}

// ElapsedMillis returns the elapsed time in milliseconds
func (r ResultRecord) ElapsedMillis() int64 {
	return r.Elapsed.Milliseconds()
}
