package correction

import (
	"log/slog"
	"math/rand/v2"

	"github.com/viant/grader/internal/clock"
	"github.com/viant/grader/progress"
)

// Option customises a Service.
type Option func(*Service)

// WithDelay sets the think time spent on every rubric entry.
func WithDelay(delay clock.Delay) Option {
	return func(s *Service) { s.delay = delay }
}

// WithRand sets the random source.
func WithRand(rnd *rand.Rand) Option {
	return func(s *Service) { s.rnd = rnd }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithReporter sets the banner reporter.
func WithReporter(reporter *progress.Reporter) Option {
	return func(s *Service) { s.reporter = reporter }
}
