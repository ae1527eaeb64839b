package model

import "time"

// Run is one orchestrated execution over a set of request specs
type Run struct {
	// ID is a random UUID
	ID string `json:"id" yaml:"id"`
	// StartedAt is when the workers were spawned
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	// FinishedAt is when the last worker completed
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
	// Requests is the number of request specs
	Requests int `json:"requests" yaml:"requests"`
	// Summary aggregates the run's records
	Summary Summary `json:"summary" yaml:"summary"`
}
