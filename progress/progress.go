// Package progress provides a lightweight tracker that keeps aggregated
// grading counters (rubric entries corrected, exams loaded, questions
// marked, …) for a single worker or a whole run. Every component that
// receives the run context can update the counters via UpdateCtx.

package progress

import (
	"context"
	"sync"
	"time"
)

// Delta represents an incremental counter change emitted by the rubric
// corrector or the marking loop.
type Delta struct {
	EntriesCorrected int
	SymbolsAdvanced  int
	ExamsLoaded      int
	ExamsCompleted   int
	QuestionsMarked  int
	QuestionsSkipped int
}

// Progress keeps aggregated counters. It is safe for concurrent use.
type Progress struct {
	RunID     string
	StartedAt time.Time

	EntriesCorrected int
	SymbolsAdvanced  int
	ExamsLoaded      int
	ExamsCompleted   int
	QuestionsMarked  int
	QuestionsSkipped int

	sync.Mutex
	onChange func(Progress)
}

// New creates a tracker for runID.
func New(runID string) *Progress {
	return &Progress{RunID: runID, StartedAt: time.Now()}
}

// Update applies the supplied delta to the tracker. If an onChange callback
// has been registered it is invoked with a copy of the updated tracker
// outside the critical section.
func (p *Progress) Update(d Delta) {
	if p == nil {
		return
	}

	p.Lock()
	p.EntriesCorrected += d.EntriesCorrected
	p.SymbolsAdvanced += d.SymbolsAdvanced
	p.ExamsLoaded += d.ExamsLoaded
	p.ExamsCompleted += d.ExamsCompleted
	p.QuestionsMarked += d.QuestionsMarked
	p.QuestionsSkipped += d.QuestionsSkipped
	snapshot := p.copyLocked()
	cb := p.onChange
	p.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Delta returns the counters of p as a delta.
func (p *Progress) Delta() Delta {
	return Delta{
		EntriesCorrected: p.EntriesCorrected,
		SymbolsAdvanced:  p.SymbolsAdvanced,
		ExamsLoaded:      p.ExamsLoaded,
		ExamsCompleted:   p.ExamsCompleted,
		QuestionsMarked:  p.QuestionsMarked,
		QuestionsSkipped: p.QuestionsSkipped,
	}
}

// Snapshot returns a copy of the tracker suitable for read-only inspection.
func (p *Progress) Snapshot() Progress {
	if p == nil {
		return Progress{}
	}
	p.Lock()
	defer p.Unlock()
	return p.copyLocked()
}

func (p *Progress) copyLocked() Progress {
	return Progress{
		RunID:            p.RunID,
		StartedAt:        p.StartedAt,
		EntriesCorrected: p.EntriesCorrected,
		SymbolsAdvanced:  p.SymbolsAdvanced,
		ExamsLoaded:      p.ExamsLoaded,
		ExamsCompleted:   p.ExamsCompleted,
		QuestionsMarked:  p.QuestionsMarked,
		QuestionsSkipped: p.QuestionsSkipped,
	}
}

// OnChange registers a callback that is invoked after every Update. Passing
// nil disables the callback.
func (p *Progress) OnChange(cb func(Progress)) {
	if p == nil {
		return
	}
	p.Lock()
	p.onChange = cb
	p.Unlock()
}

// ----------------------------------------------------------------------------
// Context helpers
// ----------------------------------------------------------------------------

type trackerKeyT struct{}

var trackerKey trackerKeyT

// WithTracker embeds tracker in a derived context.
func WithTracker(ctx context.Context, tracker *Progress) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, trackerKey, tracker)
}

// FromContext extracts the Progress tracker from ctx.
func FromContext(ctx context.Context) (*Progress, bool) {
	if ctx == nil {
		return nil, false
	}
	tr, ok := ctx.Value(trackerKey).(*Progress)
	return tr, ok
}

// UpdateCtx looks up the tracker in ctx (if any) and applies the delta.
func UpdateCtx(ctx context.Context, d Delta) {
	if tr, ok := FromContext(ctx); ok {
		tr.Update(d)
	}
}
