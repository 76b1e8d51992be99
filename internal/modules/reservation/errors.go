package reservation

import "errors"

var (
	ErrValidation        = errors.New("validation error")
	ErrConflict          = errors.New("reservation conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("reservation not found")
)
