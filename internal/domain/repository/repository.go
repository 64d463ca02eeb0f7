package repository

import "errors"

// Store-level errors shared by all repositories. Services translate
// these into their own domain errors before they reach handlers.
var (
	// ErrNotFound is returned when the requested row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write loses to a uniqueness or
	// compare-and-set guard (e.g. a second conversion of the same lead).
	ErrConflict = errors.New("conflict")
)
