package port

import (
	"context"

	"github.com/ajpbench/ajpbench-go-client/internal/domain/model"
)

// RequestRunner executes every round of one request spec
type RequestRunner interface {
	// Prepare fails with model.ErrConfiguration when the request can never
	// be sent. It does not touch the network.
	Prepare() error

	// Run executes the rounds, appending exactly one record per round to
	// the runner's sink
	Run(ctx context.Context) error
}

// RunnerFactory creates runners, each with its own connection
type RunnerFactory interface {
	// NewRunner creates a runner for spec that appends to sink
	NewRunner(spec *model.RequestSpec, sink StatisticsSink) RequestRunner

	// Ping sends count CPing probes over one connection, one record each
	Ping(ctx context.Context, endpoint model.Endpoint, count int) []model.ResultRecord
}
