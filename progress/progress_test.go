package progress

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress_Update(t *testing.T) {
	tracker := New("run")
	var mux sync.Mutex
	var calls, highest int
	tracker.OnChange(func(p Progress) {
		mux.Lock()
		defer mux.Unlock()
		calls++
		highest = max(highest, p.QuestionsMarked)
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Update(Delta{QuestionsMarked: 1})
		}()
	}
	wg.Wait()
	tracker.Update(Delta{ExamsLoaded: 2, QuestionsSkipped: 3})

	snapshot := tracker.Snapshot()
	assert.Equal(t, 10, snapshot.QuestionsMarked)
	assert.Equal(t, 2, snapshot.ExamsLoaded)
	assert.Equal(t, 3, snapshot.QuestionsSkipped)
	mux.Lock()
	defer mux.Unlock()
	assert.Equal(t, 11, calls)
	assert.Equal(t, 10, highest)
}

func TestProgress_Context(t *testing.T) {
	total := New("run")
	ctx := WithTracker(context.Background(), total)
	UpdateCtx(ctx, Delta{QuestionsMarked: 5, EntriesCorrected: 3})
	UpdateCtx(context.Background(), Delta{QuestionsMarked: 5})
	tracker, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Same(t, total, tracker)
	snapshot := total.Snapshot()
	assert.Equal(t, Delta{QuestionsMarked: 5, EntriesCorrected: 3}, snapshot.Delta())

	var nilTracker *Progress
	nilTracker.Update(Delta{QuestionsMarked: 1})
	assert.Equal(t, Progress{}, nilTracker.Snapshot())
}

func TestReporter(t *testing.T) {
	buf := &bytes.Buffer{}
	reporter := NewReporter(buf, true)
	reporter.Banner("TA #%d correcting rubric", 1)
	reporter.Summary(Progress{RunID: "abc", QuestionsMarked: 10})
	assert.Contains(t, buf.String(), "TA #1 correcting rubric\n")
	assert.Contains(t, buf.String(), "run abc finished")
	assert.Contains(t, buf.String(), "questions marked: 10, skipped: 0")

	var nilReporter *Reporter
	assert.NotPanics(t, func() { nilReporter.Banner("x") })
}
