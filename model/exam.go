package model

import (
	"fmt"
	"strings"
)

const (
	// QuestionCount is the fixed number of questions on every exam.
	QuestionCount = 5

	// SentinelStudentID marks an exam that stops the whole pool when a
	// worker is about to mark it.
	SentinelStudentID = 9999
)

// ExamRecord is the marking state of one exam.
type ExamRecord struct {
	ID        string              `json:"id,omitempty" yaml:"id,omitempty"`
	StudentID int                 `json:"studentId" yaml:"studentId"`
	Questions [QuestionCount]bool `json:"questions" yaml:"questions"`
	Loaded    bool                `json:"loaded" yaml:"loaded"`
}

// IsSentinel reports whether the record carries the termination student id.
func (r *ExamRecord) IsSentinel() bool {
	return r != nil && r.StudentID == SentinelStudentID
}

// IsFullyMarked reports whether every question is marked.
func (r *ExamRecord) IsFullyMarked() bool {
	if r == nil {
		return false
	}
	for _, marked := range r.Questions {
		if !marked {
			return false
		}
	}
	return true
}

// Marked returns the number of marked questions.
func (r *ExamRecord) Marked() int {
	count := 0
	for _, marked := range r.Questions {
		if marked {
			count++
		}
	}
	return count
}

// Clone returns a copy of the record.
func (r *ExamRecord) Clone() *ExamRecord {
	if r == nil {
		return nil
	}
	ret := *r
	return &ret
}

func (r *ExamRecord) String() string {
	if r == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%04d [", r.StudentID)
	for i, marked := range r.Questions {
		if i > 0 {
			b.WriteByte(' ')
		}
		if marked {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	b.WriteByte(']')
	return b.String()
}

// ValidQuestion reports whether q is a valid question index.
func ValidQuestion(q int) bool {
	return q >= 0 && q < QuestionCount
}
