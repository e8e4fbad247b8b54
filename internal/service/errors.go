package service

import "errors"

// Domain error kinds. Services wrap these with fmt.Errorf("...: %w", ...) so
// controllers can map them to status codes with errors.Is while keeping the
// descriptive message.
var (
	// ErrNotFound covers missing entities and, for surveys, the inactive
	// case: resolver and recorder deliberately do not distinguish a survey
	// that never existed from one that was deactivated.
	ErrNotFound = errors.New("not found")
	// ErrValidation covers references that exist but hang off the wrong
	// parent, and structurally invalid input.
	ErrValidation = errors.New("validation failed")
	// ErrForbidden covers missing authoring capability or ownership.
	ErrForbidden = errors.New("forbidden")
	// ErrConflict surfaces storage-level uniqueness violations that the
	// upsert paths should have made impossible.
	ErrConflict = errors.New("conflict")
)
