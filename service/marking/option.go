package marking

import (
	"log/slog"
	"math/rand/v2"

	"github.com/viant/grader/internal/clock"
	"github.com/viant/grader/progress"
)

// Option customises a Marker.
type Option func(*Marker)

// WithDelay sets the simulated correction time per question.
func WithDelay(delay clock.Delay) Option {
	return func(m *Marker) { m.delay = delay }
}

// WithRand sets the random source used for question picks and delays.
func WithRand(rnd *rand.Rand) Option {
	return func(m *Marker) { m.rnd = rnd }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Marker) { m.logger = logger }
}

// WithReporter sets the banner reporter.
func WithReporter(reporter *progress.Reporter) Option {
	return func(m *Marker) { m.reporter = reporter }
}
