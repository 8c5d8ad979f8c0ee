package ranking

import "errors"

// Sentinel kinds for ranking errors.
var (
	ErrInvalidTopN = errors.New("top_n must be at least 1")
	ErrEmptyInput  = errors.New("no usable watch records")
)
