package worker

import (
	"context"
	"errors"

	"github.com/viant/grader/service/marking"
	"github.com/viant/grader/service/segment"
)

var (
	// ErrTerminated is the control signal raised by the sentinel student.
	ErrTerminated = segment.ErrTerminated
	// ErrLoad is returned when an exam cannot be brought into the slot.
	ErrLoad = marking.ErrLoad
)

// Exit codes of a worker process.
const (
	ExitDone       = 0
	ExitFailed     = 1
	ExitTerminated = 3
)

// ExitCode maps a worker result to its process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitDone
	case errors.Is(err, ErrTerminated), errors.Is(err, context.Canceled):
		return ExitTerminated
	default:
		return ExitFailed
	}
}

// StatusOfExit maps a worker process exit code to its status.
func StatusOfExit(code int) Status {
	switch code {
	case ExitDone:
		return StatusDone
	case ExitTerminated:
		return StatusTerminated
	default:
		return StatusFailed
	}
}
