package coordinator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/viant/afs"
	"github.com/viant/grader/service/messaging"
	"github.com/viant/grader/service/worker"
	"golang.org/x/sync/errgroup"
)

// Process runs every worker as a child process re-executing Executable with
// the hidden worker command.
type Process struct {
	Executable string
	Manifest   string
	// ReportDir is the run directory holding the per-worker report queues.
	ReportDir string
	// Args are extra arguments placed before the worker command.
	Args      []string
	Stdout    io.Writer
	Stderr    io.Writer
	WaitDelay time.Duration
	fs        afs.Service
	logger    *slog.Logger
	group     errgroup.Group
}

// NewProcess returns a process spawner for the current executable.
func NewProcess(manifest, reportDir string, logger *slog.Logger) (*Process, error) {
	executable, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Process{
		Executable: executable,
		Manifest:   manifest,
		ReportDir:  reportDir,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
		WaitDelay:  5 * time.Second,
		fs:         afs.New(),
		logger:     logger,
	}, nil
}

// Command builds the child command of worker ordinal.
func (p *Process) Command(ctx context.Context, ordinal int) *exec.Cmd {
	args := append([]string{}, p.Args...)
	args = append(args, "worker", "--manifest", p.Manifest, "--ordinal", strconv.Itoa(ordinal))
	cmd := exec.CommandContext(ctx, p.Executable, args...)
	cmd.Stdout = p.Stdout
	cmd.Stderr = p.Stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = p.WaitDelay
	return cmd
}

func (p *Process) Start(ctx context.Context, ordinal int, reports messaging.Queue[worker.Report]) (string, error) {
	location := filepath.Join(worker.ReportsDir(p.ReportDir), strconv.Itoa(ordinal))
	if exists, _ := p.fs.Exists(ctx, location); exists {
		_ = p.fs.Delete(ctx, location)
	}
	cmd := p.Command(ctx, ordinal)
	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("failed to start worker %d: %w", ordinal, err)
	}
	identity := "pid " + strconv.Itoa(cmd.Process.Pid)
	p.group.Go(func() error {
		waitErr := cmd.Wait()
		report := p.report(context.WithoutCancel(ctx), ordinal, identity, waitErr, ctx.Err() != nil)
		return reports.Publish(context.WithoutCancel(ctx), report)
	})
	return identity, nil
}

// report prefers the report the child published to its queue and falls back
// to the exit status.
func (p *Process) report(ctx context.Context, ordinal int, identity string, waitErr error, cancelled bool) *worker.Report {
	if report := p.consume(ctx, ordinal); report != nil {
		report.Identity = identity
		return report
	}
	report := &worker.Report{Worker: ordinal, Identity: identity}
	code := exitCode(waitErr)
	report.Status = worker.StatusOfExit(code)
	if cancelled && report.Status == worker.StatusFailed {
		report.Status = worker.StatusTerminated
	}
	if report.Status == worker.StatusFailed {
		report.Error = fmt.Sprintf("exit code %d: %v", code, waitErr)
	}
	p.logger.Debug("worker report missing, using exit status", "worker", ordinal, "code", code)
	return report
}

// consume returns the first report of worker ordinal in its queue. Reports
// carrying another ordinal are nacked.
func (p *Process) consume(ctx context.Context, ordinal int) *worker.Report {
	queue, err := worker.ReportQueue(p.fs, p.ReportDir, ordinal)
	if err != nil {
		p.logger.Warn("failed to open report queue", "worker", ordinal, "error", err)
		return nil
	}
	for {
		message, err := queue.Consume(ctx)
		if err != nil {
			p.logger.Warn("failed to consume worker report", "worker", ordinal, "error", err)
			return nil
		}
		if message == nil {
			return nil
		}
		report := message.T()
		if report.Worker != ordinal {
			_ = message.Nack(fmt.Errorf("report of worker %d in queue of worker %d", report.Worker, ordinal))
			continue
		}
		if err = message.Ack(); err != nil {
			p.logger.Warn("failed to ack worker report", "worker", ordinal, "error", err)
		}
		return report
	}
}

func exitCode(err error) int {
	if err == nil {
		return worker.ExitDone
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return worker.ExitFailed
}

func (p *Process) Wait() error {
	return p.group.Wait()
}

var _ Spawner = (*Process)(nil)
