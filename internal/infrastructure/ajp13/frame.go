package ajp13

import (
	"errors"
	"fmt"
	"io"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
)

// ReadFrame reads one container frame from r and returns its payload. The
// payload is read into buf when it is large enough, so callers that reuse
// buf must copy what they keep.
func ReadFrame(r io.Reader, buf []byte) ([]byte, error) {
	var header [FrameHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, readError("frame header", err)
	}
	dir, n, err := DecodeFrameHeader(header[:])
	if err != nil {
		return nil, err
	}
	if dir != ToClient {
		return nil, model.Protocolf("received a client-to-server frame")
	}
	if n == 0 {
		return nil, model.Protocolf("empty frame payload")
	}

	if cap(buf) < n {
		buf = make([]byte, n)
	}
	payload := buf[:n]
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, readError("frame payload", err)
	}
	return payload, nil
}

// WriteFrame writes a complete frame to w
func WriteFrame(w io.Writer, frame []byte) error {
	if _, err := w.Write(frame); err != nil {
		if model.Classify(err) == model.FailureTimeout {
			return fmt.Errorf("%w: writing frame: %v", model.ErrTimeout, err)
		}
		return fmt.Errorf("%w: writing frame: %v", model.ErrTransport, err)
	}
	return nil
}

func readError(what string, err error) error {
	if model.Classify(err) == model.FailureTimeout {
		return fmt.Errorf("%w: reading %s: %v", model.ErrTimeout, what, err)
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return model.Protocolf("truncated %s: %v", what, err)
	}
	return fmt.Errorf("%w: reading %s: %v", model.ErrTransport, what, err)
}
