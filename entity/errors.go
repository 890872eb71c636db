package entity

import "errors"

// Error taxonomy surfaced to callers. Wrap with fmt.Errorf("...: %w")
// and match with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrCategoryFrozen    = errors.New("category is frozen")
	ErrVersionConflict   = errors.New("version number conflict")
	ErrStorageFailure    = errors.New("object storage failure")
	ErrInvalidTransition = errors.New("invalid approval transition")
)
