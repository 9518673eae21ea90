// Package worker implements the control loop of one grading worker: attach
// to the shared segments, take part in the rubric phase, then mark every
// exam of the run in reverse order.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/viant/grader/internal/clock"
	"github.com/viant/grader/internal/shm"
	"github.com/viant/grader/progress"
	"github.com/viant/grader/service/correction"
	"github.com/viant/grader/service/dao"
	"github.com/viant/grader/service/gate"
	"github.com/viant/grader/service/marking"
	"github.com/viant/grader/service/segment"
)

// Names holds the shared segment names.
type Names struct {
	Rubric  string `yaml:"rubric" toml:"rubric"`
	Exam    string `yaml:"exam" toml:"exam"`
	Control string `yaml:"control" toml:"control"`
}

// DefaultNames returns the standard segment names.
func DefaultNames() Names {
	return Names{Rubric: segment.RubricName, Exam: segment.ExamName, Control: segment.ControlName}
}

// Deps are the shared resources a worker runs against.
type Deps struct {
	Factory shm.Factory
	Gate    gate.Gate
	Names   Names
	Rubrics dao.RubricStore
	Exams   dao.ExamStore
	ExamIDs []string
}

// Worker is one grading worker.
type Worker struct {
	ordinal         int
	identity        string
	deps            Deps
	thinkDelay      clock.Delay
	correctionDelay clock.Delay
	seed            uint64
	logger          *slog.Logger
	reporter        *progress.Reporter
	tracker         *progress.Progress
	finished        mapset.Set[string]
}

// New creates worker ordinal (1-based).
func New(ordinal int, deps Deps, opts ...Option) *Worker {
	ret := &Worker{
		ordinal:  ordinal,
		identity: "worker-" + strconv.Itoa(ordinal),
		deps:     deps,
		seed:     uint64(time.Now().UnixNano()),
		logger:   slog.Default(),
		tracker:  progress.New(""),
		finished: mapset.NewSet[string](),
	}
	for _, opt := range opts {
		opt(ret)
	}
	ret.logger = ret.logger.With("worker", ordinal, "identity", ret.identity)
	ret.tracker.OnChange(func(p progress.Progress) {
		ret.logger.Debug("progress",
			"entriesCorrected", p.EntriesCorrected,
			"examsLoaded", p.ExamsLoaded,
			"questionsMarked", p.QuestionsMarked,
			"questionsSkipped", p.QuestionsSkipped)
	})
	return ret
}

// Ordinal returns the worker number.
func (w *Worker) Ordinal() int { return w.ordinal }

// Run executes the worker and always returns its report; the error is nil
// when every exam was processed.
func (w *Worker) Run(ctx context.Context) (*Report, error) {
	report := &Report{Worker: w.ordinal, Identity: w.identity}
	err := w.run(progress.WithTracker(ctx, w.tracker), report)
	report.Exams = w.finished.ToSlice()
	snapshot := w.tracker.Snapshot()
	report.Counters = snapshot.Delta()
	report.Finish(err)
	switch report.Status {
	case StatusDone:
		w.logger.Info("worker finished", "exams", w.finished.Cardinality())
	case StatusTerminated:
		w.logger.Warn("worker terminated")
	default:
		w.logger.Error("worker failed", "error", err)
	}
	return report, err
}

func (w *Worker) run(ctx context.Context, report *Report) error {
	rubric, err := segment.AttachRubric(w.deps.Factory, w.deps.Names.Rubric)
	if err != nil {
		return err
	}
	defer rubric.Close()
	slot, err := segment.AttachExamSlot(w.deps.Factory, w.deps.Names.Exam)
	if err != nil {
		return err
	}
	defer slot.Close()
	control, err := segment.AttachControl(w.deps.Factory, w.deps.Names.Control)
	if err != nil {
		return err
	}
	defer control.Close()

	rnd := rand.New(rand.NewPCG(w.seed, uint64(w.ordinal)))
	corrector := correction.New(w.ordinal, w.deps.Gate, rubric, control, w.deps.Rubrics,
		correction.WithDelay(w.thinkDelay),
		correction.WithRand(rnd),
		correction.WithLogger(w.logger),
		correction.WithReporter(w.reporter))
	if report.Corrected, err = corrector.Run(ctx); err != nil {
		return fmt.Errorf("rubric phase: %w", err)
	}

	marker := marking.New(w.ordinal, w.deps.Gate, slot, control, w.deps.Exams,
		marking.WithDelay(w.correctionDelay),
		marking.WithRand(rnd),
		marking.WithLogger(w.logger),
		marking.WithReporter(w.reporter))
	for i := len(w.deps.ExamIDs) - 1; i >= 0; i-- {
		exam := marking.Exam{Ordinal: i + 1, ID: w.deps.ExamIDs[i]}
		if err = marker.Load(ctx, exam); err != nil {
			return err
		}
		if err = marker.Mark(ctx, exam); err != nil {
			return err
		}
		w.release(exam)
	}
	return nil
}

// release drops the shared resource named after the exam id. The slot keeps
// its own name, so this normally removes nothing.
func (w *Worker) release(exam marking.Exam) {
	w.finished.Add(exam.ID)
	if err := w.deps.Factory.Unlink(exam.ID); err != nil && !errors.Is(err, shm.ErrNotExist) {
		w.logger.Warn("failed to release exam", "exam", exam.ID, "error", err)
	}
}
