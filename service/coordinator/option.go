package coordinator

import (
	"log/slog"

	"github.com/viant/grader/progress"
)

// Option customises the coordinator.
type Option func(*Service)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithReporter sets the banner reporter.
func WithReporter(reporter *progress.Reporter) Option {
	return func(s *Service) { s.reporter = reporter }
}
