package model

import (
	"errors"
	"fmt"
	"net"
	"os"
)

var (
	// ErrConfiguration marks a request that can never be sent as configured
	ErrConfiguration = errors.New("configuration error")
	// ErrTransport marks a failed connect, write or an unexpected close
	ErrTransport = errors.New("transport error")
	// ErrTimeout marks a read that exceeded the configured read timeout
	ErrTimeout = errors.New("read timeout")
	// ErrProtocol marks an unreadable or unexpected AJP frame
	ErrProtocol = errors.New("protocol error")
)

// FailureKind classifies why a round did not complete
type FailureKind string

const (
	// FailureNone means the round reached END_RESPONSE
	FailureNone FailureKind = ""
	// FailureTransport covers connect, write and close errors
	FailureTransport FailureKind = "transport"
	// FailureTimeout covers read timeouts
	FailureTimeout FailureKind = "timeout"
	// FailureProtocol covers framing errors
	FailureProtocol FailureKind = "protocol"
)

// Configurationf returns an error wrapping ErrConfiguration
func Configurationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// Protocolf returns an error wrapping ErrProtocol
func Protocolf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrProtocol, fmt.Sprintf(format, args...))
}

// Classify maps a round error onto a FailureKind. Network timeouts are
// reported as FailureTimeout even when they were not wrapped in ErrTimeout.
func Classify(err error) FailureKind {
	if err == nil {
		return FailureNone
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, os.ErrDeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	if errors.Is(err, ErrProtocol) {
		return FailureProtocol
	}
	return FailureTransport
}
