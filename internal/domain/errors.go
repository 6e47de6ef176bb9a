package domain

import "errors"

var (
	// ErrNotFound is returned when a referenced record does not exist
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput is returned when user supplied data fails validation
	ErrInvalidInput = errors.New("invalid input")
)
