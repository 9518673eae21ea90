// Package fs implements a queue whose messages are JSON files, so that
// separate processes sharing a directory can exchange payloads.
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/grader/service/messaging"
)

// State is the directory a message file currently lives in.
type State string

const (
	StatePending    State = "pending"
	StateProcessing State = "processing"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

const suffix = ".json"

// Message is a queued payload stored as one JSON file.
type Message[T any] struct {
	Key       string    `json:"id"`
	Data      T         `json:"data"`
	State     State     `json:"state"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	name      string
	queue     *Queue[T]
	processed bool
	mu        sync.Mutex
}

// ID returns the message identifier.
func (m *Message[T]) ID() string { return m.Key }

// T returns the message payload.
func (m *Message[T]) T() *T { return &m.Data }

// Ack moves the message to the completed directory.
func (m *Message[T]) Ack() error {
	return m.settle(StateCompleted, nil)
}

// Nack moves the message to the failed directory. Failed messages are kept
// for inspection and never redelivered.
func (m *Message[T]) Nack(err error) error {
	return m.settle(StateFailed, err)
}

func (m *Message[T]) settle(state State, cause error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.Key)
	}
	m.processed = true
	m.State = state
	if cause != nil {
		m.Error = cause.Error()
	}
	m.UpdatedAt = time.Now()
	return m.queue.transfer(context.Background(), m, StateProcessing)
}

// QueueConfig holds the filesystem queue settings.
type QueueConfig struct {
	// BasePath is the queue root; every state gets a subdirectory.
	BasePath string
}

// Queue is a messaging.Queue backed by a directory tree.
type Queue[T any] struct {
	fs     afs.Service
	config QueueConfig
	mu     sync.Mutex
}

// NewQueue creates the state directories under config.BasePath.
func NewQueue[T any](fs afs.Service, config QueueConfig) (*Queue[T], error) {
	if config.BasePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	q := &Queue[T]{fs: fs, config: config}
	ctx := context.Background()
	for _, state := range []State{StatePending, StateProcessing, StateCompleted, StateFailed} {
		dir := q.dir(state)
		if exists, _ := fs.Exists(ctx, dir); exists {
			continue
		}
		if err := fs.Create(ctx, dir, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return q, nil
}

// Publish writes t to the pending directory. The file only gets its final
// name once fully written.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := time.Now()
	message := &Message[T]{Key: uuid.New().String(), Data: *t, State: StatePending, CreatedAt: now, UpdatedAt: now}
	message.name = fmt.Sprintf("%020d-%s%s", now.UnixNano(), message.Key, suffix)
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	target := path.Join(q.dir(StatePending), message.name)
	staging := target + ".tmp"
	if err = q.fs.Upload(ctx, staging, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write message %s: %w", message.Key, err)
	}
	if err = q.fs.Move(ctx, staging, target); err != nil {
		return fmt.Errorf("failed to publish message %s: %w", message.Key, err)
	}
	return nil
}

// Consume moves the oldest pending message to the processing directory and
// returns it. It returns a nil message when nothing is pending.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	objects, err := q.fs.List(ctx, q.dir(StatePending))
	if err != nil {
		return nil, fmt.Errorf("failed to list pending messages: %w", err)
	}
	var names []string
	for _, object := range objects {
		if !object.IsDir() && strings.HasSuffix(object.Name(), suffix) {
			names = append(names, object.Name())
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)
	name := names[0]
	source := path.Join(q.dir(StatePending), name)
	message, err := q.read(ctx, source)
	if err != nil {
		_ = q.fs.Move(ctx, source, path.Join(q.dir(StateFailed), "invalid-"+name))
		return nil, err
	}
	message.name = name
	message.queue = q
	message.State = StateProcessing
	message.UpdatedAt = time.Now()
	if err = q.write(ctx, message); err != nil {
		return nil, err
	}
	if err = q.fs.Delete(ctx, source); err != nil {
		return nil, fmt.Errorf("failed to delete pending message %s: %w", name, err)
	}
	return message, nil
}

// transfer writes m into its current state directory and removes it from
// the from directory.
func (q *Queue[T]) transfer(ctx context.Context, m *Message[T], from State) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if err := q.write(ctx, m); err != nil {
		return err
	}
	source := path.Join(q.dir(from), m.name)
	if exists, _ := q.fs.Exists(ctx, source); exists {
		if err := q.fs.Delete(ctx, source); err != nil {
			return fmt.Errorf("failed to delete %s message %s: %w", from, m.name, err)
		}
	}
	return nil
}

func (q *Queue[T]) write(ctx context.Context, m *Message[T]) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal message %s: %w", m.Key, err)
	}
	location := path.Join(q.dir(m.State), m.name)
	if err = q.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write message to %s: %w", m.State, err)
	}
	return nil
}

func (q *Queue[T]) read(ctx context.Context, location string) (*Message[T], error) {
	data, err := q.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", location, err)
	}
	message := &Message[T]{}
	if err = json.Unmarshal(data, message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", location, err)
	}
	return message, nil
}

func (q *Queue[T]) dir(state State) string {
	return path.Join(q.config.BasePath, string(state))
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
