package marking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/viant/grader/internal/clock"
	"github.com/viant/grader/model"
	"github.com/viant/grader/progress"
	"github.com/viant/grader/service/dao"
	"github.com/viant/grader/service/gate"
	"github.com/viant/grader/service/segment"
	"github.com/viant/grader/tracing"
)

// Exam identifies one exam of the run.
type Exam struct {
	Ordinal int
	ID      string
}

// Marker runs the per-exam marking loop of one worker.
type Marker struct {
	worker   int
	gate     gate.Gate
	slot     *segment.ExamSlot
	control  *segment.Control
	store    dao.ExamStore
	delay    clock.Delay
	rnd      *rand.Rand
	logger   *slog.Logger
	reporter *progress.Reporter
}

// New creates a marker for the worker ordinal.
func New(worker int, g gate.Gate, slot *segment.ExamSlot, control *segment.Control, store dao.ExamStore, opts ...Option) *Marker {
	ret := &Marker{
		worker:  worker,
		gate:    g,
		slot:    slot,
		control: control,
		store:   store,
		rnd:     rand.New(rand.NewPCG(uint64(worker), uint64(worker)*31+7)),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Load brings exam into the shared slot under the gate.
func (m *Marker) Load(ctx context.Context, exam Exam) (err error) {
	ctx, span := tracing.StartSpan(ctx, "exam.load")
	span.WithAttributes(map[string]string{"exam": exam.ID}).WithInt("worker", m.worker)
	defer func() { tracing.EndSpan(span, err) }()
	return m.critical(ctx, func() error {
		if err := m.load(ctx, exam); err != nil {
			return err
		}
		progress.UpdateCtx(ctx, progress.Delta{ExamsLoaded: 1})
		m.reporter.Banner("TA #%d loaded exam %s (student %04d)", m.worker, exam.ID, m.slot.StudentID())
		return nil
	})
}

// Mark marks questions of exam until it is fully marked or the pool stops.
func (m *Marker) Mark(ctx context.Context, exam Exam) error {
	logger := m.logger.With("worker", m.worker, "exam", exam.ID)
	candidates := NewCandidates(model.QuestionCount)
	for {
		done, err := m.complete(ctx, exam)
		if err != nil {
			return err
		}
		if done {
			progress.UpdateCtx(ctx, progress.Delta{ExamsCompleted: 1})
			logger.Debug("exam fully marked")
			return nil
		}
		candidates.Reset()
		for candidates.Len() > 0 {
			q := candidates.Pick(m.rnd)
			if m.slot.IsMarked(q) {
				candidates.Remove(q)
				continue
			}
			marked, err := m.markQuestion(ctx, exam, q)
			if err != nil {
				return err
			}
			if !marked {
				progress.UpdateCtx(ctx, progress.Delta{QuestionsSkipped: 1})
				candidates.Remove(q)
				continue
			}
			logger.Info("question marked", "question", q+1)
			break
		}
	}
}

// markQuestion marks q under the gate; it returns false when q was already
// marked by another worker.
func (m *Marker) markQuestion(ctx context.Context, exam Exam, q int) (marked bool, err error) {
	ctx, span := tracing.StartSpan(ctx, "question.mark")
	span.WithAttributes(map[string]string{"exam": exam.ID}).WithInt("question", q+1).WithInt("worker", m.worker)
	defer func() { tracing.EndSpan(span, err) }()

	err = m.critical(ctx, func() error {
		if !m.slot.Holds(exam.Ordinal) {
			if err := m.load(ctx, exam); err != nil {
				return err
			}
		}
		if m.slot.IsSentinel() {
			return m.terminate(exam)
		}
		if m.slot.IsMarked(q) {
			return nil
		}
		if err := clock.Sleep(ctx, m.delay.Pick(m.rnd)); err != nil {
			return err
		}
		if err := m.slot.Mark(q); err != nil {
			if errors.Is(err, segment.ErrSentinel) {
				return m.terminate(exam)
			}
			return err
		}
		if err := m.store.SaveQuestion(ctx, exam.ID, q, true); err != nil {
			return fmt.Errorf("failed to persist exam %s question %d: %w", exam.ID, q+1, err)
		}
		marked = true
		progress.UpdateCtx(ctx, progress.Delta{QuestionsMarked: 1})
		m.reporter.Detail("TA #%d marked question %d of exam %s", m.worker, q+1, exam.ID)
		return nil
	})
	return marked, err
}

// complete confirms under the gate whether exam is fully marked, reloading
// it from the store when the slot holds another exam.
func (m *Marker) complete(ctx context.Context, exam Exam) (done bool, err error) {
	err = m.critical(ctx, func() error {
		if !m.slot.Holds(exam.Ordinal) {
			if err := m.load(ctx, exam); err != nil {
				return err
			}
		}
		done = m.slot.IsFullyMarked()
		return nil
	})
	return done, err
}

// critical runs fn holding the gate once the termination flag is clear.
func (m *Marker) critical(ctx context.Context, fn func() error) error {
	waitCtx, span := tracing.StartSpan(ctx, "gate.wait")
	err := m.gate.Acquire(waitCtx)
	tracing.EndSpan(span, err)
	if err != nil {
		return err
	}
	defer m.gate.Release()
	if m.control.Terminated() {
		return ErrTerminated
	}
	return fn()
}

func (m *Marker) load(ctx context.Context, exam Exam) error {
	if _, err := m.slot.Load(ctx, m.store, exam.Ordinal, exam.ID); err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	return nil
}

func (m *Marker) terminate(exam Exam) error {
	if m.control.Terminate(m.worker) {
		m.logger.Warn("sentinel student reached, stopping pool", "worker", m.worker, "exam", exam.ID)
		m.reporter.Banner("TA #%d found student %04d, terminating all TAs", m.worker, model.SentinelStudentID)
	}
	return ErrTerminated
}
