// Package memory provides a gate shared by goroutines of one process.
package memory

import (
	"context"

	"github.com/viant/grader/service/gate"
	"golang.org/x/sync/semaphore"
)

// Gate is an in-process binary semaphore.
type Gate struct {
	sem *semaphore.Weighted
}

// New returns an unlocked gate.
func New() *Gate {
	return &Gate{sem: semaphore.NewWeighted(1)}
}

// Acquire blocks until the gate is free or ctx is done.
func (g *Gate) Acquire(ctx context.Context) error {
	return g.sem.Acquire(ctx, 1)
}

// Release frees the gate.
func (g *Gate) Release() {
	g.sem.Release(1)
}

var _ gate.Gate = (*Gate)(nil)
