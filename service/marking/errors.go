package marking

import (
	"errors"

	"github.com/viant/grader/service/segment"
)

var (
	// ErrTerminated reports that the pool was told to stop.
	ErrTerminated = segment.ErrTerminated
	// ErrLoad reports that an exam could not be loaded into the slot.
	ErrLoad = errors.New("exam load failed")
)
