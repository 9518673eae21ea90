package marking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/grader/internal/clock"
	"github.com/viant/grader/internal/shm"
	"github.com/viant/grader/model"
	"github.com/viant/grader/progress"
	"github.com/viant/grader/service/dao"
	"github.com/viant/grader/service/dao/exam/memory"
	gmemory "github.com/viant/grader/service/gate/memory"
	"github.com/viant/grader/service/segment"
)

type pool struct {
	gate    *gmemory.Gate
	slot    *segment.ExamSlot
	control *segment.Control
	store   *memory.Service
}

func newPool(t *testing.T, records ...*model.ExamRecord) *pool {
	factory := shm.NewMemory()
	slot, err := segment.CreateExamSlot(factory, segment.ExamName)
	require.NoError(t, err)
	control, err := segment.CreateControl(factory, segment.ControlName)
	require.NoError(t, err)
	return &pool{gate: gmemory.New(), slot: slot, control: control, store: memory.New(records...)}
}

func (p *pool) marker(worker int, opts ...Option) *Marker {
	return New(worker, p.gate, p.slot, p.control, p.store, opts...)
}

func (p *pool) questionWrites(examID string) map[int]int {
	ret := map[int]int{}
	for _, write := range p.store.Writes() {
		if write.ExamID == examID {
			ret[write.Question]++
		}
	}
	return ret
}

func exactlyOnce() map[int]int {
	return map[int]int{0: 1, 1: 1, 2: 1, 3: 1, 4: 1}
}

func TestMarker_SingleWorker(t *testing.T) {
	testCases := []struct {
		description string
		record      *model.ExamRecord
		expect      map[int]int
	}{
		{
			description: "blank exam",
			record:      &model.ExamRecord{ID: "0001", StudentID: 1},
			expect:      exactlyOnce(),
		},
		{
			description: "partially marked exam",
			record:      &model.ExamRecord{ID: "0001", StudentID: 1, Questions: [5]bool{true, false, true, false, false}},
			expect:      map[int]int{1: 1, 3: 1, 4: 1},
		},
		{
			description: "fully marked exam",
			record:      &model.ExamRecord{ID: "0001", StudentID: 1, Questions: [5]bool{true, true, true, true, true}},
			expect:      map[int]int{},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			p := newPool(t, testCase.record)
			tracker := progress.New("test")
			marker := p.marker(1)
			exam := Exam{Ordinal: 1, ID: testCase.record.ID}
			ctx := progress.WithTracker(context.Background(), tracker)

			require.NoError(t, marker.Load(ctx, exam))
			require.NoError(t, marker.Mark(ctx, exam))

			assert.Equal(t, testCase.expect, p.questionWrites(exam.ID))
			persisted, err := p.store.Load(ctx, exam.ID)
			require.NoError(t, err)
			assert.True(t, persisted.IsFullyMarked())
			assert.True(t, p.slot.IsFullyMarked())
			snapshot := tracker.Snapshot()
			assert.Equal(t, len(testCase.expect), snapshot.QuestionsMarked)
			assert.Equal(t, 1, snapshot.ExamsCompleted)
		})
	}
}

func TestMarker_RacingWorkersSameExam(t *testing.T) {
	p := newPool(t, &model.ExamRecord{ID: "0001", StudentID: 1})
	exam := Exam{Ordinal: 1, ID: "0001"}
	ctx := context.Background()
	delay := clock.Delay{Max: time.Millisecond}

	var wg sync.WaitGroup
	for worker := 1; worker <= 4; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			marker := p.marker(worker, WithDelay(delay))
			assert.NoError(t, marker.Load(ctx, exam))
			assert.NoError(t, marker.Mark(ctx, exam))
		}(worker)
	}
	wg.Wait()
	assert.Equal(t, exactlyOnce(), p.questionWrites(exam.ID))
}

func TestMarker_WorkersShareSlotAcrossExams(t *testing.T) {
	ids := []string{"0001", "0002", "0003"}
	var records []*model.ExamRecord
	for i, id := range ids {
		records = append(records, &model.ExamRecord{ID: id, StudentID: i + 1})
	}
	p := newPool(t, records...)
	ctx := context.Background()
	delay := clock.Delay{Max: time.Millisecond}

	var wg sync.WaitGroup
	for worker := 1; worker <= 3; worker++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			marker := p.marker(worker, WithDelay(delay))
			for i := len(ids) - 1; i >= 0; i-- {
				idx := (i + worker) % len(ids)
				exam := Exam{Ordinal: idx + 1, ID: ids[idx]}
				assert.NoError(t, marker.Load(ctx, exam))
				assert.NoError(t, marker.Mark(ctx, exam))
			}
		}(worker)
	}
	wg.Wait()
	for _, id := range ids {
		assert.Equal(t, exactlyOnce(), p.questionWrites(id), id)
		persisted, err := p.store.Load(ctx, id)
		require.NoError(t, err)
		assert.True(t, persisted.IsFullyMarked(), id)
	}
}

func TestMarker_Sentinel(t *testing.T) {
	p := newPool(t,
		&model.ExamRecord{ID: "0001", StudentID: 1},
		&model.ExamRecord{ID: "9999", StudentID: model.SentinelStudentID},
	)
	ctx := context.Background()
	sentinel := Exam{Ordinal: 2, ID: "9999"}
	regular := Exam{Ordinal: 1, ID: "0001"}

	first := p.marker(1)
	require.NoError(t, first.Load(ctx, sentinel))
	assert.ErrorIs(t, first.Mark(ctx, sentinel), ErrTerminated)
	assert.True(t, p.control.Terminated())
	assert.Equal(t, 1, p.control.TerminatedBy())

	second := p.marker(2)
	assert.ErrorIs(t, second.Load(ctx, regular), ErrTerminated)
	assert.ErrorIs(t, second.Mark(ctx, regular), ErrTerminated)
	assert.Empty(t, p.store.Writes())
}

func TestMarker_LoadFailure(t *testing.T) {
	p := newPool(t)
	p.store.Corrupt("bad")
	marker := p.marker(1)
	ctx := context.Background()

	err := marker.Load(ctx, Exam{Ordinal: 1, ID: "bad"})
	assert.ErrorIs(t, err, ErrLoad)
	assert.ErrorIs(t, err, dao.ErrMalformed)

	err = marker.Load(ctx, Exam{Ordinal: 2, ID: "missing"})
	assert.ErrorIs(t, err, ErrLoad)
	assert.ErrorIs(t, err, dao.ErrNotFound)
	assert.Equal(t, 0, p.slot.Ordinal())
}

func TestMarker_Cancel(t *testing.T) {
	p := newPool(t, &model.ExamRecord{ID: "0001", StudentID: 1})
	marker := p.marker(1, WithDelay(clock.Delay{Min: time.Minute, Max: time.Minute}))
	exam := Exam{Ordinal: 1, ID: "0001"}
	require.NoError(t, marker.Load(context.Background(), exam))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, marker.Mark(ctx, exam), context.DeadlineExceeded)
	assert.Empty(t, p.store.Writes())
	released, done := context.WithTimeout(context.Background(), time.Second)
	defer done()
	require.NoError(t, p.gate.Acquire(released))
	p.gate.Release()
}
