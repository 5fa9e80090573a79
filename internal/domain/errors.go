package domain

import "errors"

// Sentinel errors for the core error taxonomy. Call sites wrap them with
// fmt.Errorf("%w: ...") so callers can branch with errors.Is.
var (
	// ErrValidation marks invalid constructor or mutation arguments.
	ErrValidation = errors.New("validation failed")

	// ErrCycle marks an attempted self-reference or circular category attachment.
	ErrCycle = errors.New("category cycle")

	// ErrConflict marks a category deletion blocked by existing references.
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks a lookup by ID with no matching entity.
	ErrNotFound = errors.New("not found")
)
