package services

import (
	"errors"
)

// Failure kinds surfaced by the service layer. Handlers match these with
// errors.Is and map them to HTTP statuses; raw driver errors never cross
// the handler boundary.
var (
	// ErrValidation marks malformed input. Nothing was written.
	ErrValidation = errors.New("invalid input")

	// ErrNotFound marks a referenced user-owned entity that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a duplicate name or item collision surfaced from
	// the store's unique constraints.
	ErrConflict = errors.New("conflict")

	// ErrCapacityExceeded marks the per-collection item ceiling.
	ErrCapacityExceeded = errors.New("collection is at capacity")

	// ErrNameExhausted marks a failed 100-attempt name probe.
	ErrNameExhausted = errors.New("name allocation exhausted")
)
