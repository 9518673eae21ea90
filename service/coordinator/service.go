// Package coordinator spawns the worker pool, collects the exit report of
// every worker and cancels the remaining workers once one of them reports
// pool termination.
package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/viant/grader/progress"
	"github.com/viant/grader/service/messaging/memory"
	"github.com/viant/grader/service/worker"
)

// State tracks one worker as seen by the coordinator.
type State struct {
	Ordinal  int
	Identity string
	Status   worker.Status
	Report   *worker.Report
}

// StatusRunning marks a worker that has not reported yet.
const StatusRunning worker.Status = "running"

// Service coordinates one pool run.
type Service struct {
	spawner  Spawner
	logger   *slog.Logger
	reporter *progress.Reporter
	states   *xsync.MapOf[int, *State]
}

// New creates a coordinator using spawner.
func New(spawner Spawner, opts ...Option) *Service {
	ret := &Service{
		spawner: spawner,
		logger:  slog.Default(),
		states:  xsync.NewMapOf[int, *State](),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Run spawns workers and blocks until every started worker has exited.
func (s *Service) Run(ctx context.Context, workers int) (*Summary, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	config := memory.DefaultConfig()
	config.QueueBuffer = workers
	reports := memory.NewQueue[worker.Report](config)

	var startErr error
	started := 0
	for ordinal := 1; ordinal <= workers; ordinal++ {
		identity, err := s.spawner.Start(runCtx, ordinal, reports)
		if err != nil {
			startErr = err
			s.logger.Error("failed to start worker", "worker", ordinal, "error", err)
			cancel()
			break
		}
		started++
		s.states.Store(ordinal, &State{Ordinal: ordinal, Identity: identity, Status: StatusRunning})
		s.logger.Info("worker started", "worker", ordinal, "identity", identity)
	}

	consumeCtx := context.WithoutCancel(ctx)
	for received := 0; received < started; {
		message, err := reports.Consume(consumeCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to receive worker report: %w", err)
		}
		report := message.T()
		state, ok := s.states.Load(report.Worker)
		if !ok || state.Status != StatusRunning {
			s.logger.Warn("unexpected worker report", "worker", report.Worker, "status", report.Status)
			_ = message.Nack(fmt.Errorf("no running worker %d", report.Worker))
			continue
		}
		received++
		s.record(state, report)
		_ = message.Ack()
		if report.Status == worker.StatusTerminated {
			cancel()
		}
	}
	if err := s.spawner.Wait(); err != nil {
		s.logger.Warn("spawner wait", "error", err)
	}
	summary := s.Summary()
	summary.Rejected = reports.Dropped()
	if startErr != nil {
		return summary, startErr
	}
	return summary, nil
}

func (s *Service) record(state *State, report *worker.Report) {
	updated := *state
	updated.Status = report.Status
	updated.Report = report
	s.states.Store(report.Worker, &updated)

	logger := s.logger.With("worker", report.Worker, "identity", state.Identity, "status", report.Status)
	switch report.Status {
	case worker.StatusFailed:
		logger.Error("worker exited", "error", report.Error)
	default:
		logger.Info("worker exited", "exams", len(report.Exams))
	}
	s.reporter.Banner("TA #%d (%s) exited: %s", report.Worker, state.Identity, report.Status)
}

// States returns every tracked worker ordered by ordinal.
func (s *Service) States() []*State {
	var ret []*State
	s.states.Range(func(_ int, state *State) bool {
		ret = append(ret, state)
		return true
	})
	sort.Slice(ret, func(i, j int) bool { return ret[i].Ordinal < ret[j].Ordinal })
	return ret
}

// Summary aggregates the tracked states.
func (s *Service) Summary() *Summary {
	summary := &Summary{Workers: s.states.Size()}
	for _, state := range s.States() {
		switch state.Status {
		case worker.StatusDone:
			summary.Completed = append(summary.Completed, state.Ordinal)
		case worker.StatusTerminated:
			summary.Terminated = append(summary.Terminated, state.Ordinal)
		case worker.StatusFailed:
			summary.Failed = append(summary.Failed, state.Ordinal)
		}
		if state.Report != nil {
			summary.Reports = append(summary.Reports, state.Report)
			if state.Report.Corrected {
				summary.CorrectedBy = state.Ordinal
			}
		}
	}
	return summary
}
