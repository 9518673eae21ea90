package segment

import "errors"

var (
	// ErrAllocation is returned when a segment cannot be created, sized or mapped.
	ErrAllocation = errors.New("segment: allocation failed")
	// ErrAttach is returned when an existing segment cannot be mapped or is of another kind.
	ErrAttach = errors.New("segment: attach failed")
	// ErrSentinel is returned by ExamSlot.Mark when the slot holds the sentinel student.
	ErrSentinel = errors.New("segment: sentinel student")
	// ErrQuestion is returned for a question index outside the exam.
	ErrQuestion = errors.New("segment: invalid question")
	// ErrTerminated reports that the control segment carries the termination flag.
	ErrTerminated = errors.New("pool terminated")
)
