package coordinator

import (
	"github.com/viant/grader/progress"
	"github.com/viant/grader/service/worker"
)

// Summary is the outcome of a pool run.
type Summary struct {
	Workers     int
	Completed   []int
	Failed      []int
	Terminated  []int
	CorrectedBy int
	Reports     []*worker.Report
	// Rejected counts reports from workers that were not running.
	Rejected int
}

// Totals adds up the counters of every report into tracker.
func (s *Summary) Totals(tracker *progress.Progress) {
	for _, report := range s.Reports {
		tracker.Update(report.Counters)
	}
}
