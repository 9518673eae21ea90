package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/grader/service/gate"
)

func TestGate_Exclusive(t *testing.T) {
	g := New()
	ctx := context.Background()
	var inside, maxInside int
	var mux sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
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
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxInside)
}

func TestGate_Cancel(t *testing.T) {
	g := New()
	require.NoError(t, g.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, g.Acquire(ctx), context.DeadlineExceeded)

	g.Release()
	ctx, cancel = context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, g.Acquire(ctx))
	g.Release()
}
