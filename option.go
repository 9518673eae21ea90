package grader

import (
	"log/slog"

	"github.com/viant/grader/internal/shm"
	"github.com/viant/grader/progress"
	"github.com/viant/grader/service/coordinator"
	"github.com/viant/grader/service/dao"
	"github.com/viant/grader/tracing"
)

// Option customises the Service.
type Option func(s *Service)

// WithLogger sets the logger shared by the launcher and in-process workers.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithReporter sets the banner reporter.
func WithReporter(reporter *progress.Reporter) Option {
	return func(s *Service) { s.reporter = reporter }
}

// WithRubricStore replaces the file rubric store.
func WithRubricStore(store dao.RubricStore) Option {
	return func(s *Service) { s.rubrics = store }
}

// WithExamStore replaces the file exam store.
func WithExamStore(store dao.ExamStore) Option {
	return func(s *Service) { s.exams = store }
}

// WithFactory replaces the mmap region factory.
func WithFactory(factory shm.Factory) Option {
	return func(s *Service) { s.factory = factory }
}

// WithSpawner replaces the spawner chosen from the config.
func WithSpawner(spawner coordinator.Spawner) Option {
	return func(s *Service) { s.spawner = spawner }
}

// WithWorkerArgs sets arguments passed to worker processes before the worker
// command, typically logging flags.
func WithWorkerArgs(args ...string) Option {
	return func(s *Service) { s.workerArgs = args }
}

// WithRunID fixes the run identifier.
func WithRunID(runID string) Option {
	return func(s *Service) { s.runID = runID }
}

// WithTracing configures OpenTelemetry tracing. If outputFile is empty the
// stdout exporter is used; otherwise traces are written to the supplied file.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		if err := tracing.Init(serviceName, serviceVersion, outputFile); err != nil {
			s.logger.Warn("failed to init tracing", "error", err)
		}
	}
}
