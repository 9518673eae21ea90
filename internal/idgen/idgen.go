package idgen

import "github.com/google/uuid"

// NewFunc returns a new globally unique identifier as string. It is a
// variable so tests can stub it.
var NewFunc = func() string { return uuid.New().String() }

// New returns a new globally unique identifier.
func New() string { return NewFunc() }

// RunID returns a short identifier suitable for directory and segment names.
func RunID() string {
	id := New()
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
