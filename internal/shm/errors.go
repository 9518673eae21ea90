package shm

import "errors"

// ErrNotExist is returned when attaching a region that was never created or
// has been unlinked.
var ErrNotExist = errors.New("shm: region does not exist")
