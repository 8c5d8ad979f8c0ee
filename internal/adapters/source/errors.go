package source

import "errors"

// Sentinel kinds for input errors.
var (
	ErrNotFound   = errors.New("input not found")
	ErrSchema     = errors.New("required column missing")
	ErrEmptyInput = errors.New("input is empty")
	ErrMalformed  = errors.New("malformed input")
)
