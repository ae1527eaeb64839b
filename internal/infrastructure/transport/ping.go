package transport

import (
	"context"
	"time"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
	"github.com/ajpbench/ajpbench-go-client/internal/infrastructure/ajp13"
)

// Ping sends a CPing over conn and waits for the CPong. The connection is
// discarded if the container answers with anything else.
func Ping(ctx context.Context, conn *Connection, endpoint model.Endpoint) (time.Duration, error) {
	if _, err := conn.Obtain(ctx, endpoint); err != nil {
		return 0, err
	}

	start := time.Now()
	if err := ajp13.WriteFrame(conn, ajp13.EncodeCPing()); err != nil {
		conn.Discard()
		return time.Since(start), err
	}
	payload, err := ajp13.ReadFrame(conn, nil)
	if err != nil {
		conn.Discard()
		return time.Since(start), err
	}
	elapsed := time.Since(start)

	msgType, err := ajp13.DecodeMessageType(payload)
	if err != nil {
		conn.Discard()
		return elapsed, err
	}
	if msgType != ajp13.TypeCPong {
		conn.Discard()
		return elapsed, model.Protocolf("expected CPONG, got %s (%d)", msgType, byte(msgType))
	}
	return elapsed, nil
}
