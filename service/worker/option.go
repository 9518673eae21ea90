package worker

import (
	"log/slog"

	"github.com/viant/grader/internal/clock"
	"github.com/viant/grader/progress"
)

// Option customises a Worker.
type Option func(*Worker)

// WithThinkDelay sets the rubric think time per entry.
func WithThinkDelay(delay clock.Delay) Option {
	return func(w *Worker) { w.thinkDelay = delay }
}

// WithCorrectionDelay sets the marking time per question.
func WithCorrectionDelay(delay clock.Delay) Option {
	return func(w *Worker) { w.correctionDelay = delay }
}

// WithSeed fixes the random source seed.
func WithSeed(seed uint64) Option {
	return func(w *Worker) { w.seed = seed }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) { w.logger = logger }
}

// WithReporter sets the banner reporter.
func WithReporter(reporter *progress.Reporter) Option {
	return func(w *Worker) { w.reporter = reporter }
}

// WithIdentity sets the label reported for the worker (pid or goroutine).
func WithIdentity(identity string) Option {
	return func(w *Worker) { w.identity = identity }
}
