package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type report struct {
	Worker int
	Status string
}

func TestQueue(t *testing.T) {
	queue := NewQueue[report](DefaultConfig())
	ctx := context.Background()

	require.NoError(t, queue.Publish(ctx, &report{Worker: 1, Status: "done"}))
	assert.Equal(t, 1, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, message.ID())
	assert.Equal(t, &report{Worker: 1, Status: "done"}, message.T())
	assert.NoError(t, message.Ack())
	assert.Error(t, message.Ack())
	assert.Error(t, message.Nack(nil))
}

func TestQueueNack(t *testing.T) {
	queue := NewQueue[report](DefaultConfig())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, queue.Publish(ctx, &report{Worker: 2}))
	require.NoError(t, queue.Publish(ctx, &report{Worker: 3}))
	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	require.NoError(t, message.Nack(errors.New("unknown worker")))
	assert.Error(t, message.Ack())
	assert.Equal(t, 1, queue.Dropped())

	message, err = queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, message.T().Worker)
	assert.NoError(t, message.Ack())
	assert.Equal(t, 0, queue.Size())
	assert.Equal(t, 1, queue.Dropped())
}

func TestQueueConcurrency(t *testing.T) {
	queue := NewQueue[report](DefaultConfig())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	producers := 8
	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			assert.NoError(t, queue.Publish(ctx, &report{Worker: worker, Status: fmt.Sprintf("w%d", worker)}))
		}(i + 1)
	}
	seen := map[int]bool{}
	for i := 0; i < producers; i++ {
		message, err := queue.Consume(ctx)
		require.NoError(t, err)
		seen[message.T().Worker] = true
		assert.NoError(t, message.Ack())
	}
	wg.Wait()
	assert.Len(t, seen, producers)
}

func TestQueueContextCancellation(t *testing.T) {
	queue := NewQueue[report](DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, queue.Publish(ctx, &report{}))

	timeout, cancelTimeout := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancelTimeout()
	_, err := queue.Consume(timeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
