package dao

import "errors"

// Common, reusable DAO errors. Callers detect them with errors.Is.

var (
	// ErrNotFound is returned when the requested record does not exist in the
	// underlying storage.
	ErrNotFound = errors.New("dao: not found")

	// ErrInvalidID indicates that the supplied exam id is empty.
	ErrInvalidID = errors.New("dao: invalid id")

	// ErrMalformed is returned when a persisted record cannot be decoded.
	ErrMalformed = errors.New("dao: malformed record")
)
