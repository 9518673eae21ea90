package coordinator

import (
	"context"
	"fmt"

	"github.com/viant/grader/service/messaging"
	"github.com/viant/grader/service/worker"
	"golang.org/x/sync/errgroup"
)

// Routine runs workers as goroutines of the current process.
type Routine struct {
	newWorker func(ordinal int) *worker.Worker
	group     errgroup.Group
}

// NewRoutine returns a goroutine spawner; newWorker builds worker ordinal.
func NewRoutine(newWorker func(ordinal int) *worker.Worker) *Routine {
	return &Routine{newWorker: newWorker}
}

func (r *Routine) Start(ctx context.Context, ordinal int, reports messaging.Queue[worker.Report]) (string, error) {
	identity := fmt.Sprintf("goroutine %d", ordinal)
	w := r.newWorker(ordinal)
	r.group.Go(func() error {
		report, _ := w.Run(ctx)
		report.Identity = identity
		return reports.Publish(context.WithoutCancel(ctx), report)
	})
	return identity, nil
}

func (r *Routine) Wait() error {
	return r.group.Wait()
}

var _ Spawner = (*Routine)(nil)
