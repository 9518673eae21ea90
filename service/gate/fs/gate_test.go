//go:build unix

package fs

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/grader/service/gate"
)

func TestGate_ExclusiveAcrossHandles(t *testing.T) {
	location := filepath.Join(t.TempDir(), "gate.lock")
	var gates []*Gate
	for i := 0; i < 3; i++ {
		g, err := Open(location)
		require.NoError(t, err)
		defer g.Close()
		gates = append(gates, g)
	}

	ctx := context.Background()
	var inside, maxInside int
	var mux sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func(g *Gate) {
			defer wg.Done()
			assert.NoError(t, gate.With(ctx, g, func() error {
				mux.Lock()
				inside++
				maxInside = max(maxInside, inside)
				mux.Unlock()
				time.Sleep(time.Millisecond)
				mux.Lock()
				inside--
				mux.Unlock()
				return nil
			}))
		}(gates[i%len(gates)])
	}
	wg.Wait()
	assert.Equal(t, 1, maxInside)
}

func TestGate_CancelWhileLockedElsewhere(t *testing.T) {
	location := filepath.Join(t.TempDir(), "gate.lock")
	holder, err := Open(location)
	require.NoError(t, err)
	defer holder.Close()
	waiter, err := Open(location)
	require.NoError(t, err)
	defer waiter.Close()

	require.NoError(t, holder.Acquire(context.Background()))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, waiter.Acquire(ctx), context.DeadlineExceeded)
	holder.Release()

	acquired, cancelAcquire := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelAcquire()
	require.NoError(t, waiter.Acquire(acquired))
	waiter.Release()
	assert.Equal(t, location, waiter.Path())
}
