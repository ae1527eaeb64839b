package port

import "github.com/ajpbench/ajpbench-go-client/internal/domain/model"

// HistoryRepository persists finished runs and their records
type HistoryRepository interface {
	// SaveRun stores a run together with its records
	SaveRun(run *model.Run, records []model.ResultRecord) error

	// ListRuns returns the most recent runs, newest first
	ListRuns(limit int) ([]*model.Run, error)

	// GetResults returns the records of a run in append order
	GetResults(runID string) ([]model.ResultRecord, error)

	// Close releases the underlying storage
	Close() error
}
