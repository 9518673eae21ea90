// Package correction implements the rubric phase: exactly one worker walks
// the shared rubric under the gate, randomly advancing symbols, and flushes
// the result to the rubric store.
package correction

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/viant/grader/internal/clock"
	"github.com/viant/grader/model"
	"github.com/viant/grader/progress"
	"github.com/viant/grader/service/dao"
	"github.com/viant/grader/service/gate"
	"github.com/viant/grader/service/segment"
	"github.com/viant/grader/tracing"
)

// Service corrects the shared rubric on behalf of one worker.
type Service struct {
	worker   int
	gate     gate.Gate
	rubric   *segment.Rubric
	control  *segment.Control
	store    dao.RubricStore
	delay    clock.Delay
	rnd      *rand.Rand
	logger   *slog.Logger
	reporter *progress.Reporter
}

// Run takes the gate once. The first worker to get it walks the rubric and
// returns true; later workers see the marker and return false.
func (s *Service) Run(ctx context.Context) (corrected bool, err error) {
	ctx, span := tracing.StartSpan(ctx, "rubric.correct")
	span.WithInt("worker", s.worker)
	defer func() { tracing.EndSpan(span, err) }()

	if err = s.gate.Acquire(ctx); err != nil {
		return false, err
	}
	defer s.gate.Release()
	if s.control.Terminated() {
		return false, segment.ErrTerminated
	}
	if by := s.rubric.CorrectedBy(); by != 0 {
		s.logger.Debug("rubric already corrected", "worker", s.worker, "by", by)
		return false, nil
	}
	s.rubric.SetCorrectedBy(s.worker)
	s.reporter.Banner("TA #%d correcting rubric", s.worker)

	before := s.rubric.Entries()
	for i := range before {
		if err = clock.Sleep(ctx, s.delay.Pick(s.rnd)); err != nil {
			return false, err
		}
		entry := s.rubric.Entry(i)
		advanced := s.rnd.IntN(2) == 1
		if advanced {
			entry = entry.Advance()
			s.rubric.SetSymbol(i, entry.Symbol)
			progress.UpdateCtx(ctx, progress.Delta{SymbolsAdvanced: 1})
		}
		progress.UpdateCtx(ctx, progress.Delta{EntriesCorrected: 1})
		s.reporter.Detail("TA #%d exercise %d -> %c", s.worker, entry.ExerciseID, entry.Symbol)
	}
	after := s.rubric.Entries()
	if err = s.store.Save(ctx, after); err != nil {
		return false, fmt.Errorf("failed to save rubric: %w", err)
	}
	s.logDiff(before, after)
	return true, nil
}

func (s *Service) logDiff(before, after []model.RubricEntry) {
	diff, err := Diff(before, after)
	if err != nil {
		s.logger.Warn("failed to diff rubric", "error", err)
		return
	}
	if diff == "" {
		s.logger.Info("rubric corrected without changes", "worker", s.worker)
		return
	}
	s.logger.Info("rubric corrected", "worker", s.worker, "diff", diff)
}

// Diff returns a unified diff of two rubric snapshots, empty when equal.
func Diff(before, after []model.RubricEntry) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(render(before)),
		B:        difflib.SplitLines(render(after)),
		FromFile: "rubric",
		ToFile:   "rubric (corrected)",
		Context:  1,
	})
}

func render(entries []model.RubricEntry) string {
	var ret []byte
	for _, entry := range entries {
		ret = append(ret, entry.String()...)
		ret = append(ret, '\n')
	}
	return string(ret)
}

// New creates a rubric corrector for the worker ordinal.
func New(worker int, g gate.Gate, rubric *segment.Rubric, control *segment.Control, store dao.RubricStore, opts ...Option) *Service {
	ret := &Service{
		worker:  worker,
		gate:    g,
		rubric:  rubric,
		control: control,
		store:   store,
		rnd:     rand.New(rand.NewPCG(uint64(worker), 0x5eed)),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}
