package progress

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Reporter prints phase banners. A nil Reporter prints nothing.
type Reporter struct {
	w      io.Writer
	header *color.Color
	detail *color.Color
	mux    sync.Mutex
}

// NewReporter returns a reporter writing to w; colour is disabled when
// noColor is set.
func NewReporter(w io.Writer, noColor bool) *Reporter {
	header := color.New(color.FgRed, color.Bold)
	detail := color.New(color.FgCyan)
	if noColor {
		header.DisableColor()
		detail.DisableColor()
	} else {
		header.EnableColor()
		detail.EnableColor()
	}
	return &Reporter{w: w, header: header, detail: detail}
}

// Banner prints a highlighted line.
func (r *Reporter) Banner(format string, args ...interface{}) {
	if r == nil {
		return
	}
	r.print(r.header, format, args...)
}

// Detail prints a secondary line.
func (r *Reporter) Detail(format string, args ...interface{}) {
	if r == nil {
		return
	}
	r.print(r.detail, format, args...)
}

// Summary prints the counters of p.
func (r *Reporter) Summary(p Progress) {
	if r == nil {
		return
	}
	r.Banner("run %s finished", p.RunID)
	r.Detail("rubric entries corrected: %d (advanced %d)", p.EntriesCorrected, p.SymbolsAdvanced)
	r.Detail("exams loaded: %d, completed: %d", p.ExamsLoaded, p.ExamsCompleted)
	r.Detail("questions marked: %d, skipped: %d", p.QuestionsMarked, p.QuestionsSkipped)
}

func (r *Reporter) print(c *color.Color, format string, args ...interface{}) {
	if r.w == nil {
		return
	}
	r.mux.Lock()
	defer r.mux.Unlock()
	_, _ = c.Fprintln(r.w, fmt.Sprintf(format, args...))
}
