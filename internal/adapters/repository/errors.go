package repository

import "errors"

// Sentinel kinds for tally errors.
var (
	ErrInvalidLimit = errors.New("invalid top-n limit")
)
