//go:build unix

package coordinator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/grader/service/worker"
)

const (
	helperEnv  = "GRADER_HELPER_PROCESS"
	helperExit = "GRADER_HELPER_EXIT"
)

// TestHelperProcess acts as a worker process when re-executed by the
// process spawner tests. GRADER_HELPER_EXIT lists one exit code per
// ordinal; an "r" prefix makes the worker publish its report first and an
// "x" prefix publishes a report under a foreign ordinal.
func TestHelperProcess(t *testing.T) {
	if os.Getenv(helperEnv) != "1" {
		t.Skip("helper process")
	}
	var ordinal int
	var dir string
	for i, arg := range os.Args {
		switch arg {
		case "--ordinal":
			ordinal, _ = strconv.Atoi(os.Args[i+1])
		case "--manifest":
			dir = os.Args[i+1]
		}
	}
	codes := strings.Split(os.Getenv(helperExit), ",")
	if ordinal < 1 || ordinal > len(codes) {
		os.Exit(worker.ExitFailed)
	}
	code := codes[ordinal-1]
	var report *worker.Report
	switch {
	case strings.HasPrefix(code, "r"):
		report = &worker.Report{Worker: ordinal, Status: worker.StatusDone, Exams: []string{"0001"}}
	case strings.HasPrefix(code, "x"):
		report = &worker.Report{Worker: ordinal + 100, Status: worker.StatusDone}
	}
	if report != nil {
		code = code[1:]
		queue, err := worker.ReportQueue(afs.New(), dir, ordinal)
		if err == nil {
			err = queue.Publish(context.Background(), report)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(worker.ExitFailed)
		}
	}
	exit, _ := strconv.Atoi(code)
	os.Exit(exit)
}

func newHelperSpawner(t *testing.T, codes string) *Process {
	t.Setenv(helperEnv, "1")
	t.Setenv(helperExit, codes)
	dir := t.TempDir()
	spawner, err := NewProcess(dir, dir, nil)
	require.NoError(t, err)
	spawner.Executable = os.Args[0]
	spawner.Args = []string{"-test.run=^TestHelperProcess$", "--"}
	return spawner
}

func TestProcess_Run(t *testing.T) {
	service := New(newHelperSpawner(t, "r0,1"))
	summary, err := service.Run(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, summary.Completed)
	assert.Equal(t, []int{2}, summary.Failed)
	assert.Empty(t, summary.Terminated)

	states := service.States()
	require.Len(t, states, 2)
	assert.Equal(t, []string{"0001"}, states[0].Report.Exams)
	for _, state := range states {
		assert.Contains(t, state.Identity, "pid ")
	}
	assert.Contains(t, states[1].Report.Error, "exit code 1")
}

func TestProcess_ForeignReport(t *testing.T) {
	spawner := newHelperSpawner(t, "x0,x1")
	summary, err := New(spawner).Run(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, summary.Completed)
	assert.Equal(t, []int{2}, summary.Failed)
	assert.Zero(t, summary.Rejected)

	for _, ordinal := range []string{"1", "2"} {
		failed, err := os.ReadDir(filepath.Join(worker.ReportsDir(spawner.ReportDir), ordinal, "failed"))
		require.NoError(t, err)
		assert.Len(t, failed, 1)
	}
}

func TestProcess_StaleReport(t *testing.T) {
	spawner := newHelperSpawner(t, "1")
	queue, err := worker.ReportQueue(afs.New(), spawner.ReportDir, 1)
	require.NoError(t, err)
	require.NoError(t, queue.Publish(context.Background(), &worker.Report{Worker: 1, Status: worker.StatusDone}))

	summary, err := New(spawner).Run(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, summary.Failed)
}

func TestProcess_Terminated(t *testing.T) {
	summary, err := New(newHelperSpawner(t, "3,3,3")).Run(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, summary.Terminated)
}

func TestProcess_Command(t *testing.T) {
	spawner := &Process{Executable: "/bin/grader", Manifest: "/dev/shm/grader-x/manifest.yaml"}
	cmd := spawner.Command(context.Background(), 4)
	assert.Equal(t, []string{"/bin/grader", "worker", "--manifest", "/dev/shm/grader-x/manifest.yaml", "--ordinal", "4"}, cmd.Args)
}
