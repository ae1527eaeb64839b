package transport

import (
	"bytes"
	"context"
	"time"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
	"github.com/ajpbench/ajpbench-go-client/internal/domain/port"
	"github.com/ajpbench/ajpbench-go-client/internal/infrastructure/ajp13"
)

// State is the position of a Session in the request/response exchange
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateSending
	StateAwaitingMessage
	StateReadingBody
	StateReadingHeaders
	StateSendingBodyChunk
	StateDone
	StateFailed
)

var stateNames = [...]string{
	"idle", "connecting", "sending", "awaiting_message", "reading_body",
	"reading_headers", "sending_body_chunk", "done", "failed",
}

// String implements fmt.Stringer
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Response is what the last round received
type Response struct {
	StatusCode int
	Reason     string
	Headers    string
	Body       []byte
	Reuse      bool
}

// Session drives the rounds of one RequestSpec over its own Connection and
// appends one record per round to the sink.
type Session struct {
	spec   *model.RequestSpec
	conn   *Connection
	sink   port.StatisticsSink
	logger port.Logger

	state       State
	prepared    bool
	requestBody []byte
	sent        int
	inbuf       []byte
	body        bytes.Buffer
	headers     *ajp13.SendHeaders
	reuse       bool
}

// NewSession creates a Session. The session owns spec and conn; callers
// must not share either with another session.
func NewSession(spec *model.RequestSpec, conn *Connection, sink port.StatisticsSink, logger port.Logger) *Session {
	if logger == nil {
		logger = &DefaultLogger{}
	}
	return &Session{
		spec:   spec,
		conn:   conn,
		sink:   sink,
		logger: logger,
		inbuf:  make([]byte, ajp13.MaxPacketSize),
	}
}

// Prepare loads the request body and encodes the forward request once
// without touching the network, so that a request which could never be
// sent fails before any session starts.
func (s *Session) Prepare() error {
	s.spec.ResolveQuery()
	body, err := ajp13.RequestBody(s.spec)
	if err != nil {
		return err
	}
	// the real local identity is only known after connecting; use the
	// longest plausible one
	probe := ajp13.Local{Addr: "255.255.255.255", Name: hostname}
	if _, err := ajp13.EncodeForwardRequest(s.spec, probe, body); err != nil {
		return err
	}
	s.requestBody = body
	s.prepared = true
	return nil
}

// Run executes every round, then closes the connection. The returned error
// is non-nil only when the request could not be prepared; round failures
// are recorded, not returned.
func (s *Session) Run(ctx context.Context) error {
	if !s.prepared {
		if err := s.Prepare(); err != nil {
			return err
		}
	}
	defer s.conn.Close()

	for round := 1; round <= s.spec.Rounds; round++ {
		s.sink.Append(s.round(ctx, round))
	}
	return nil
}

// State returns the current state
func (s *Session) State() State {
	return s.state
}

// LastResponse returns a copy of what the most recent round received
func (s *Session) LastResponse() Response {
	resp := Response{Body: append([]byte(nil), s.body.Bytes()...), Reuse: s.reuse}
	if s.headers != nil {
		resp.StatusCode = s.headers.Status
		resp.Reason = s.headers.Reason
		resp.Headers = s.headers.Block()
	}
	return resp
}

func (s *Session) reset() {
	s.state = StateIdle
	s.sent = 0
	s.body.Reset()
	s.headers = nil
	s.reuse = false
}

func (s *Session) round(ctx context.Context, n int) model.ResultRecord {
	s.reset()
	s.spec.ResolveQuery()

	record := model.ResultRecord{Round: n, URL: s.spec.Key(), StartedAt: time.Now()}
	start, err := s.exchange(ctx)
	if start.IsZero() {
		start = record.StartedAt
	}
	record.Elapsed = time.Since(start)
	record.BytesReceived = s.body.Len()

	if err != nil {
		s.state = StateFailed
		s.conn.Discard()
		record.Failure = model.Classify(err)
		record.TimedOut = record.Failure == model.FailureTimeout
		record.Error = err.Error()
		s.logger.Warn("Round %d of %s failed: %v", n, record.URL, err)
		return record
	}

	if !s.reuse {
		s.conn.Discard()
	}
	if s.headers != nil {
		record.StatusCode = s.headers.Status
		record.Reason = s.headers.Reason
		record.Headers = s.headers.Block()
	}
	s.logger.Debug("Round %d of %s: %d in %s", n, record.URL, record.StatusCode, record.Elapsed)
	return record
}

// exchange sends the request and consumes messages until END_RESPONSE. It
// returns the time of the first write.
func (s *Session) exchange(ctx context.Context) (time.Time, error) {
	s.state = StateConnecting
	if _, err := s.conn.Obtain(ctx, s.spec.Endpoint()); err != nil {
		return time.Time{}, err
	}

	s.state = StateSending
	frame, err := ajp13.EncodeForwardRequest(s.spec, s.conn.Local(), s.requestBody)
	if err != nil {
		return time.Time{}, err
	}
	start := time.Now()
	if err := ajp13.WriteFrame(s.conn, frame); err != nil {
		return start, err
	}
	if s.spec.Method == model.MethodPost {
		if err := s.sendBodyChunk(ajp13.MaxBodyChunkSize); err != nil {
			return start, err
		}
	}

	for {
		s.state = StateAwaitingMessage
		payload, err := ajp13.ReadFrame(s.conn, s.inbuf)
		if err != nil {
			return start, err
		}
		s.inbuf = payload[:cap(payload)]

		msgType, err := ajp13.DecodeMessageType(payload)
		if err != nil {
			return start, err
		}
		switch msgType {
		case ajp13.TypeSendBodyChunk:
			s.state = StateReadingBody
			chunk, err := ajp13.DecodeBodyChunk(payload)
			if err != nil {
				return start, err
			}
			s.body.Write(chunk)
		case ajp13.TypeSendHeaders:
			s.state = StateReadingHeaders
			if s.headers, err = ajp13.DecodeHeadersMessage(payload); err != nil {
				return start, err
			}
		case ajp13.TypeGetBodyChunk:
			s.state = StateSendingBodyChunk
			requested, err := ajp13.DecodeGetBodyChunk(payload)
			if err != nil {
				return start, err
			}
			if err := s.sendBodyChunk(requested); err != nil {
				return start, err
			}
		case ajp13.TypeEndResponse:
			if s.reuse, err = ajp13.DecodeEndResponse(payload); err != nil {
				return start, err
			}
			s.state = StateDone
			return start, nil
		default:
			return start, model.Protocolf("unexpected %s message (%d)", msgType, byte(msgType))
		}
	}
}

// sendBodyChunk sends the next body bytes, at most requested of them. Once
// the body is exhausted every chunk is empty.
func (s *Session) sendBodyChunk(requested int) error {
	n := len(s.requestBody) - s.sent
	if requested < n {
		n = requested
	}
	if n > ajp13.MaxBodyChunkSize {
		n = ajp13.MaxBodyChunkSize
	}
	if n < 0 {
		n = 0
	}
	chunk := s.requestBody[s.sent : s.sent+n]
	s.sent += n

	frame, err := ajp13.EncodeBodyChunk(chunk)
	if err != nil {
		return err
	}
	return ajp13.WriteFrame(s.conn, frame)
}
