package worker

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"

	"github.com/viant/afs"
	"github.com/viant/grader/progress"
	mfs "github.com/viant/grader/service/messaging/fs"
)

// Status is the final state of a worker.
type Status string

const (
	StatusDone       Status = "done"
	StatusFailed     Status = "failed"
	StatusTerminated Status = "terminated"
)

// Report describes how a worker ended.
type Report struct {
	Worker    int            `json:"worker"`
	Identity  string         `json:"identity"`
	Status    Status         `json:"status"`
	Error     string         `json:"error,omitempty"`
	Corrected bool           `json:"corrected"`
	Exams     []string       `json:"exams,omitempty"`
	Counters  progress.Delta `json:"counters"`
}

// StatusOf maps a worker result to its status. A cancelled worker counts as
// terminated.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return StatusDone
	case errors.Is(err, ErrTerminated), errors.Is(err, context.Canceled):
		return StatusTerminated
	default:
		return StatusFailed
	}
}

// Finish sets the status and error of the report from err.
func (r *Report) Finish(err error) *Report {
	r.Status = StatusOf(err)
	if err != nil && r.Status == StatusFailed {
		r.Error = err.Error()
	}
	return r
}

// ReportsDir returns the directory holding the report queues of the run
// sharing dir.
func ReportsDir(dir string) string {
	return filepath.Join(dir, "reports")
}

// ReportQueue opens the report queue of worker ordinal. A worker process
// publishes its report there and the launcher consumes it.
func ReportQueue(fs afs.Service, dir string, ordinal int) (*mfs.Queue[Report], error) {
	return mfs.NewQueue[Report](fs, mfs.QueueConfig{BasePath: filepath.Join(ReportsDir(dir), strconv.Itoa(ordinal))})
}
