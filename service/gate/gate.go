// Package gate defines the single binary semaphore that serialises every
// critical section over the shared segments.
package gate

import "context"

// Gate is a non-reentrant binary semaphore, initially unlocked.
type Gate interface {
	// Acquire blocks until the gate is free or ctx is done.
	Acquire(ctx context.Context) error
	// Release frees the gate and wakes one blocked acquirer.
	Release()
}

// With runs fn while holding g.
func With(ctx context.Context, g Gate, fn func() error) error {
	if err := g.Acquire(ctx); err != nil {
		return err
	}
	defer g.Release()
	return fn()
}
