package storage

import (
	"sync"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
	"github.com/ajpbench/ajpbench-go-client/internal/domain/port"
)

// MemorySink keeps every appended record in arrival order and forwards
// each one to its observers.
type MemorySink struct {
	mu        sync.Mutex
	records   []model.ResultRecord
	observers []port.ResultObserver
}

// NewMemorySink creates a sink notifying observers on every append
func NewMemorySink(observers ...port.ResultObserver) *MemorySink {
	return &MemorySink{observers: observers}
}

// Append stores record. Observers run outside the lock, on the caller's
// goroutine.
func (s *MemorySink) Append(record model.ResultRecord) {
	s.mu.Lock()
	s.records = append(s.records, record)
	observers := s.observers
	s.mu.Unlock()

	for _, o := range observers {
		o.Observe(record)
	}
}

// All returns a copy of the records
func (s *MemorySink) All() []model.ResultRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.ResultRecord(nil), s.records...)
}

// Len returns the number of records
func (s *MemorySink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

var _ port.StatisticsSink = (*MemorySink)(nil)
