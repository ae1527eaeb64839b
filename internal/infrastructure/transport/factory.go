package transport

import (
	"context"
	"time"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
	"github.com/ajpbench/ajpbench-go-client/internal/domain/port"
)

// SessionFactory builds sessions that each own a fresh Connection
type SessionFactory struct {
	dialer      port.Dialer
	readTimeout time.Duration
	logger      port.Logger
}

// NewSessionFactory creates a SessionFactory. A nil dialer dials plain TCP.
func NewSessionFactory(dialer port.Dialer, readTimeout time.Duration, logger port.Logger) *SessionFactory {
	return &SessionFactory{
		dialer:      dialer,
		readTimeout: readTimeout,
		logger:      logger,
	}
}

// NewRunner implements port.RunnerFactory
func (f *SessionFactory) NewRunner(spec *model.RequestSpec, sink port.StatisticsSink) port.RequestRunner {
	return NewSession(spec, NewConnection(f.dialer, f.readTimeout, f.logger), sink, f.logger)
}

// Ping implements port.RunnerFactory
func (f *SessionFactory) Ping(ctx context.Context, endpoint model.Endpoint, count int) []model.ResultRecord {
	conn := NewConnection(f.dialer, f.readTimeout, f.logger)
	defer conn.Close()

	records := make([]model.ResultRecord, 0, count)
	for i := 1; i <= count; i++ {
		record := model.ResultRecord{Round: i, URL: "ajp://" + endpoint.Address(), StartedAt: time.Now()}
		elapsed, err := Ping(ctx, conn, endpoint)
		record.Elapsed = elapsed
		if err != nil {
			record.Failure = model.Classify(err)
			record.TimedOut = record.Failure == model.FailureTimeout
			record.Error = err.Error()
		}
		records = append(records, record)
	}
	return records
}

var _ port.RunnerFactory = (*SessionFactory)(nil)
