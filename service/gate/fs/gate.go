//go:build unix

// Package fs provides a gate shared by processes through an advisory lock on
// a file.
package fs

import (
	"context"
	"fmt"
	"os"

	"github.com/viant/grader/service/gate"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sys/unix"
)

// Gate serialises processes with flock(2) and goroutines of the same
// process with a semaphore, since flock is held per open file.
type Gate struct {
	path string
	file *os.File
	sem  *semaphore.Weighted
}

// Open opens (creating when needed) the lock file at path.
func Open(path string) (*Gate, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o666)
	if err != nil {
		return nil, fmt.Errorf("failed to open gate %s: %w", path, err)
	}
	return &Gate{path: path, file: file, sem: semaphore.NewWeighted(1)}, nil
}

// Path returns the lock file location.
func (g *Gate) Path() string { return g.path }

// Acquire blocks until both the process-local and the file lock are held.
func (g *Gate) Acquire(ctx context.Context) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	locked := make(chan error, 1)
	go func() {
		locked <- flock(g.file, unix.LOCK_EX)
	}()
	select {
	case err := <-locked:
		if err != nil {
			g.sem.Release(1)
			return fmt.Errorf("failed to lock gate %s: %w", g.path, err)
		}
		return nil
	case <-ctx.Done():
		go func() {
			if err := <-locked; err == nil {
				_ = flock(g.file, unix.LOCK_UN)
			}
			g.sem.Release(1)
		}()
		return ctx.Err()
	}
}

// Release unlocks the file and the process-local semaphore.
func (g *Gate) Release() {
	_ = flock(g.file, unix.LOCK_UN)
	g.sem.Release(1)
}

// Close closes the lock file; the file itself is left in place.
func (g *Gate) Close() error {
	return g.file.Close()
}

func flock(file *os.File, how int) error {
	for {
		err := unix.Flock(int(file.Fd()), how)
		if err != unix.EINTR {
			return err
		}
	}
}

var _ gate.Gate = (*Gate)(nil)
