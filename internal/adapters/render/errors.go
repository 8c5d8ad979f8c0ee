package render

import "errors"

// Sentinel kinds for rendering errors.
var (
	ErrFigureClosed = errors.New("figure already released")
	ErrWrite        = errors.New("chart write failed")
)
