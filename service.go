package grader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/viant/afs"
	"github.com/viant/grader/internal/idgen"
	"github.com/viant/grader/internal/shm"
	"github.com/viant/grader/progress"
	"github.com/viant/grader/service/coordinator"
	"github.com/viant/grader/service/dao"
	examfs "github.com/viant/grader/service/dao/exam/fs"
	rubricfs "github.com/viant/grader/service/dao/rubric/fs"
	gatefs "github.com/viant/grader/service/gate/fs"
	gmemory "github.com/viant/grader/service/gate/memory"
	"github.com/viant/grader/service/segment"
	"github.com/viant/grader/service/worker"
)

// ErrLoad is returned when the launcher cannot load the rubric or list exams.
var ErrLoad = errors.New("run input load failed")

// Service launches one grading run.
type Service struct {
	config     *Config
	runID      string
	dir        string
	ownDir     bool
	fs         afs.Service
	logger     *slog.Logger
	reporter   *progress.Reporter
	rubrics    dao.RubricStore
	exams      dao.ExamStore
	factory    shm.Factory
	spawner    coordinator.Spawner
	workerArgs []string
	tracker    *progress.Progress
}

// New creates a launcher for config.
func New(config *Config, options ...Option) (*Service, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	ret := &Service{config: config, fs: afs.New(), logger: slog.Default()}
	for _, option := range options {
		option(ret)
	}
	if ret.runID == "" {
		ret.runID = idgen.RunID()
	}
	ret.tracker = progress.New(ret.runID)
	ret.dir = config.ShmDir
	if ret.dir == "" {
		ret.dir = DefaultShmDir(ret.runID)
		ret.ownDir = true
	}
	var err error
	if ret.rubrics == nil {
		if ret.rubrics, err = rubricfs.New(config.Rubric); err != nil {
			return nil, err
		}
	}
	if ret.exams == nil {
		if ret.exams, err = examfs.New(config.Exams); err != nil {
			return nil, err
		}
	}
	if ret.factory == nil {
		ret.factory = shm.NewFiles(ret.dir)
	}
	return ret, nil
}

// DefaultShmDir returns /dev/shm/grader-<runID> when /dev/shm exists,
// otherwise a directory under the temp dir.
func DefaultShmDir(runID string) string {
	base := os.TempDir()
	if info, err := os.Stat("/dev/shm"); err == nil && info.IsDir() {
		base = "/dev/shm"
	}
	return filepath.Join(base, "grader-"+runID)
}

// RunID returns the run identifier.
func (s *Service) RunID() string { return s.runID }

// Dir returns the shared directory of the run.
func (s *Service) Dir() string { return s.dir }

// Progress returns the aggregated run counters.
func (s *Service) Progress() *progress.Progress { return s.tracker }

// Run creates and populates the shared segments, spawns the pool, waits for
// every worker and removes the segments. Worker failures are reported in the
// summary; only launcher failures are returned as errors.
func (s *Service) Run(ctx context.Context) (*coordinator.Summary, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", segment.ErrAllocation, err)
	}
	defer s.cleanup()
	names := s.config.Segments
	rubric, err := segment.CreateRubric(s.factory, names.Rubric)
	if err != nil {
		return nil, err
	}
	defer rubric.Close()
	slot, err := segment.CreateExamSlot(s.factory, names.Exam)
	if err != nil {
		return nil, err
	}
	defer slot.Close()
	control, err := segment.CreateControl(s.factory, names.Control)
	if err != nil {
		return nil, err
	}
	defer control.Close()

	entries, err := s.rubrics.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: rubric: %w", ErrLoad, err)
	}
	count := rubric.Populate(entries)
	ids, err := s.exams.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: exams: %w", ErrLoad, err)
	}
	s.logger.Info("run prepared", "run", s.runID, "dir", s.dir, "rubricEntries", count, "exams", len(ids), "workers", s.config.Workers)
	s.reporter.Banner("grading %d exams with %d TAs", len(ids), s.config.Workers)

	manifest := &Manifest{RunID: s.runID, Dir: s.dir, Config: s.config, Exams: ids}
	if err = manifest.Save(ctx, s.fs); err != nil {
		return nil, err
	}
	spawner, err := s.newSpawner(manifest)
	if err != nil {
		return nil, err
	}
	coord := coordinator.New(spawner, coordinator.WithLogger(s.logger), coordinator.WithReporter(s.reporter))
	summary, err := coord.Run(ctx, s.config.Workers)
	if summary != nil {
		summary.Totals(s.tracker)
		if control.Terminated() {
			s.logger.Warn("run terminated by sentinel", "worker", control.TerminatedBy())
		}
		s.reporter.Summary(s.tracker.Snapshot())
	}
	return summary, err
}

func (s *Service) newSpawner(manifest *Manifest) (coordinator.Spawner, error) {
	if s.spawner != nil {
		return s.spawner, nil
	}
	if s.config.InProcess {
		deps := worker.Deps{
			Factory: s.factory,
			Gate:    gmemory.New(),
			Names:   s.config.Segments,
			Rubrics: s.rubrics,
			Exams:   s.exams,
			ExamIDs: manifest.Exams,
		}
		return coordinator.NewRoutine(func(ordinal int) *worker.Worker {
			return worker.New(ordinal, deps, s.workerOptions(ordinal, "goroutine "+strconv.Itoa(ordinal))...)
		}), nil
	}
	spawner, err := coordinator.NewProcess(manifest.Path(), s.dir, s.logger)
	if err != nil {
		return nil, err
	}
	spawner.Args = s.workerArgs
	return spawner, nil
}

func (s *Service) workerOptions(ordinal int, identity string) []worker.Option {
	return []worker.Option{
		worker.WithIdentity(identity),
		worker.WithThinkDelay(s.config.ThinkDelay),
		worker.WithCorrectionDelay(s.config.CorrectionDelay),
		worker.WithLogger(s.logger),
		worker.WithReporter(s.reporter),
	}
}

func (s *Service) cleanup() {
	names := s.config.Segments
	for _, name := range []string{names.Rubric, names.Exam, names.Control} {
		if err := s.factory.Unlink(name); err != nil {
			s.logger.Warn("failed to unlink segment", "segment", name, "error", err)
		}
	}
	locations := []string{s.dir}
	if !s.ownDir {
		locations = []string{
			filepath.Join(s.dir, ManifestName),
			filepath.Join(s.dir, GateName),
			worker.ReportsDir(s.dir),
		}
	}
	for _, location := range locations {
		if err := os.RemoveAll(location); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to remove run file", "location", location, "error", err)
		}
	}
}

// RunWorker runs worker ordinal of the run described by the manifest at
// location and publishes its report to the worker's report queue.
func RunWorker(ctx context.Context, location string, ordinal int, options ...Option) (*worker.Report, error) {
	fs := afs.New()
	manifest, err := LoadManifest(ctx, fs, location)
	if err != nil {
		return nil, err
	}
	launcher := &Service{config: manifest.Config, runID: manifest.RunID, dir: manifest.Dir, fs: fs, logger: slog.Default()}
	for _, option := range options {
		option(launcher)
	}
	if launcher.rubrics == nil {
		if launcher.rubrics, err = rubricfs.New(manifest.Config.Rubric); err != nil {
			return nil, err
		}
	}
	if launcher.exams == nil {
		if launcher.exams, err = examfs.New(manifest.Config.Exams); err != nil {
			return nil, err
		}
	}
	if launcher.factory == nil {
		launcher.factory = shm.NewFiles(manifest.Dir)
	}
	g, err := gatefs.Open(manifest.GatePath())
	if err != nil {
		return nil, err
	}
	defer g.Close()

	deps := worker.Deps{
		Factory: launcher.factory,
		Gate:    g,
		Names:   manifest.Config.Segments,
		Rubrics: launcher.rubrics,
		Exams:   launcher.exams,
		ExamIDs: manifest.Exams,
	}
	identity := "pid " + strconv.Itoa(os.Getpid())
	report, runErr := worker.New(ordinal, deps, launcher.workerOptions(ordinal, identity)...).Run(ctx)
	queue, err := worker.ReportQueue(fs, manifest.Dir, ordinal)
	if err == nil {
		err = queue.Publish(context.WithoutCancel(ctx), report)
	}
	if err != nil {
		launcher.logger.Warn("failed to publish worker report", "error", err)
	}
	return report, runErr
}
