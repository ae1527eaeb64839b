package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType defines the message types pushed to a result collector
type MessageType string

const (
	// MessageTypeRunStarted announces a run and its requests
	MessageTypeRunStarted MessageType = "run_started"
	// MessageTypeResult carries one result record
	MessageTypeResult MessageType = "result"
	// MessageTypeRunFinished carries the run summary
	MessageTypeRunFinished MessageType = "run_finished"
)

// Message represents the envelope of every published message
type Message struct {
	// Type is the message type
	Type MessageType `json:"type"`
	// Version is the protocol version
	Version string `json:"version"`
	// RunID identifies the run the message belongs to
	RunID string `json:"run_id"`
	// Timestamp is when the message was created (in milliseconds since epoch)
	Timestamp int64 `json:"timestamp"`
	// Payload contains the actual message data
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage creates a new message with specified type and payload
func NewMessage(msgType MessageType, runID string, payload interface{}) (*Message, error) {
	var payloadJSON json.RawMessage
	var err error

	if payload != nil {
		payloadJSON, err = json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to convert payload to JSON: %v", err)
		}
	}

	return &Message{
		Type:      msgType,
		Version:   "1.0.0",
		RunID:     runID,
		Timestamp: time.Now().UnixNano() / int64(time.Millisecond),
		Payload:   payloadJSON,
	}, nil
}

// ParsePayload parses message payload into the provided struct
func (m *Message) ParsePayload(v interface{}) error {
	if m.Payload == nil {
		return nil
	}
	return json.Unmarshal(m.Payload, v)
}

// RunStartedPayload is sent once before any result
type RunStartedPayload struct {
	// URLs lists the request targets of the run
	URLs []string `json:"urls"`
	// StartedAt is when the run started
	StartedAt time.Time `json:"started_at"`
}

// RunFinishedPayload is sent once after every worker completed
type RunFinishedPayload struct {
	// Summary aggregates the run's records
	Summary Summary `json:"summary"`
	// FinishedAt is when the join completed
	FinishedAt time.Time `json:"finished_at"`
}
