package services

import "errors"

var (
	// ErrNotFound means a referenced learner, path, module or activity does
	// not exist in the content hierarchy.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput means the request was rejected before any data-store
	// call (missing identifier, unknown status, negative delta).
	ErrInvalidInput = errors.New("invalid input")
)
