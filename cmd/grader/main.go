package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v3"
	"github.com/viant/grader"
	"github.com/viant/grader/internal/clock"
	"github.com/viant/grader/progress"
	"github.com/viant/grader/service/worker"
	"github.com/viant/grader/tracing"
)

const version = "0.1.0"

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newCommand().Run(ctx, os.Args)
	stop()
	if shutdownErr := tracing.Shutdown(context.Background()); shutdownErr != nil {
		slog.Warn("failed to flush traces", "error", shutdownErr)
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return worker.ExitDone
	}
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		if msg := coder.Error(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		return coder.ExitCode()
	}
	fmt.Fprintln(os.Stderr, err)
	return worker.ExitFailed
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:           "grader",
		Usage:          "grade exams with a pool of TAs sharing a rubric",
		Version:        version,
		DefaultCommand: "run",
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML or TOML run configuration", Sources: cli.EnvVars("GRADER_CONFIG")},
			&cli.StringFlag{Name: "rubric", Usage: "rubric file location", Sources: cli.EnvVars("GRADER_RUBRIC")},
			&cli.StringFlag{Name: "exams", Usage: "exam directory location", Sources: cli.EnvVars("GRADER_EXAMS")},
			&cli.StringFlag{Name: "shm-dir", Usage: "directory holding the shared segments", Sources: cli.EnvVars("GRADER_SHM_DIR")},
			&cli.StringFlag{Name: "think-delay", Usage: "per rubric entry delay as min-max/step", Sources: cli.EnvVars("GRADER_THINK_DELAY")},
			&cli.StringFlag{Name: "correction-delay", Usage: "per question delay as min-max/step", Sources: cli.EnvVars("GRADER_CORRECTION_DELAY")},
			&cli.BoolFlag{Name: "in-process", Usage: "run TAs as goroutines instead of processes", Sources: cli.EnvVars("GRADER_IN_PROCESS")},
			&cli.StringFlag{Name: "trace-file", Usage: "append OpenTelemetry spans to this file", Sources: cli.EnvVars("GRADER_TRACE_FILE")},
			&cli.StringFlag{Name: "log-level", Value: "info", Usage: "debug, info, warn or error", Sources: cli.EnvVars("GRADER_LOG_LEVEL")},
			&cli.BoolFlag{Name: "no-color", Usage: "disable colored output", Sources: cli.EnvVars("NO_COLOR", "GRADER_NO_COLOR")},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "do not print progress lines", Sources: cli.EnvVars("GRADER_QUIET")},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "grade every exam with the given number of TAs (at least 2)",
				ArgsUsage: "[workers]",
				Action:    runAction,
			},
			{
				Name:   "worker",
				Usage:  "run a single TA of a prepared run",
				Hidden: true,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "manifest", Usage: "run manifest location", Required: true},
					&cli.IntFlag{Name: "ordinal", Usage: "TA number", Required: true},
				},
				Action: workerAction,
			},
		},
	}
}

func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
		return ctx, cli.Exit(fmt.Sprintf("invalid log level %q", cmd.String("log-level")), worker.ExitFailed)
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    cmd.Bool("no-color"),
	})))
	return ctx, nil
}

// loggingArgs are the root flags forwarded to worker processes.
func loggingArgs(cmd *cli.Command) []string {
	args := []string{"--log-level", cmd.String("log-level")}
	if cmd.Bool("no-color") {
		args = append(args, "--no-color")
	}
	if cmd.Bool("quiet") {
		args = append(args, "--quiet")
	}
	if location := cmd.String("trace-file"); location != "" {
		args = append(args, "--trace-file", location)
	}
	return args
}

func loadConfig(cmd *cli.Command) (*grader.Config, error) {
	config := grader.DefaultConfig()
	if location := cmd.String("config"); location != "" {
		var err error
		if config, err = grader.LoadConfig(location); err != nil {
			return nil, err
		}
	}
	if value := cmd.String("rubric"); value != "" {
		config.Rubric = value
	}
	if value := cmd.String("exams"); value != "" {
		config.Exams = value
	}
	if value := cmd.String("shm-dir"); value != "" {
		config.ShmDir = value
	}
	if value := cmd.String("trace-file"); value != "" {
		config.TraceFile = value
	}
	for name, target := range map[string]*clock.Delay{
		"think-delay":      &config.ThinkDelay,
		"correction-delay": &config.CorrectionDelay,
	} {
		value := cmd.String(name)
		if value == "" {
			continue
		}
		delay, err := clock.ParseDelay(value)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", name, err)
		}
		*target = delay
	}
	if cmd.IsSet("in-process") {
		config.InProcess = cmd.Bool("in-process")
	}
	if cmd.Bool("quiet") {
		config.Progress = false
	}
	return config, nil
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	config, err := loadConfig(cmd)
	if err != nil {
		return cli.Exit(err, worker.ExitFailed)
	}
	if arg := cmd.Args().First(); arg != "" || config.Workers < grader.MinWorkers {
		config.Workers = grader.WorkerCount(arg)
	}
	options := []grader.Option{grader.WithWorkerArgs(loggingArgs(cmd)...)}
	if config.Progress {
		options = append(options, grader.WithReporter(progress.NewReporter(os.Stdout, cmd.Bool("no-color"))))
	}
	if config.TraceFile != "" {
		options = append(options, grader.WithTracing("grader", version, config.TraceFile))
	}
	srv, err := grader.New(config, options...)
	if err != nil {
		return cli.Exit(err, worker.ExitFailed)
	}
	summary, err := srv.Run(ctx)
	if err != nil {
		return cli.Exit(err, worker.ExitFailed)
	}
	slog.Info("run finished",
		"run", srv.RunID(),
		"completed", summary.Completed,
		"terminated", summary.Terminated,
		"failed", summary.Failed)
	return nil
}

func workerAction(ctx context.Context, cmd *cli.Command) error {
	var options []grader.Option
	if cmd.Bool("quiet") {
		options = append(options, grader.WithReporter(nil))
	} else {
		options = append(options, grader.WithReporter(progress.NewReporter(os.Stdout, cmd.Bool("no-color"))))
	}
	if location := cmd.String("trace-file"); location != "" {
		options = append(options, grader.WithTracing("grader-worker", version, location))
	}
	ordinal := int(cmd.Int("ordinal"))
	_, err := grader.RunWorker(ctx, cmd.String("manifest"), ordinal, options...)
	if code := worker.ExitCode(err); code != worker.ExitDone {
		msg := ""
		if code == worker.ExitFailed {
			msg = strings.TrimSpace(fmt.Sprintf("worker %d: %v", ordinal, err))
		}
		return cli.Exit(msg, code)
	}
	return nil
}
