package port

import "github.com/ajpbench/ajpbench-go-client/internal/domain/model"

// StatisticsSink collects result records from concurrent sessions.
// All returns records in arrival order, which interleaves sessions.
type StatisticsSink interface {
	Append(record model.ResultRecord)
	All() []model.ResultRecord
	Len() int
}

// ResultObserver is notified of every record as it is appended
type ResultObserver interface {
	Observe(record model.ResultRecord)
}

// SessionObserver is told when request sessions start and finish. Result
// observers that also implement it get both notifications.
type SessionObserver interface {
	SessionStarted()
	SessionFinished()
}

// SinkFactory creates the sink of one run
type SinkFactory func(observers ...ResultObserver) StatisticsSink
