package coordinator

import (
	"context"

	"github.com/viant/grader/service/messaging"
	"github.com/viant/grader/service/worker"
)

// Spawner starts workers. Every started worker publishes exactly one report
// to reports when it exits.
type Spawner interface {
	// Start launches worker ordinal and returns its identity (pid or label).
	Start(ctx context.Context, ordinal int, reports messaging.Queue[worker.Report]) (string, error)
	// Wait blocks until every started worker has exited.
	Wait() error
}
