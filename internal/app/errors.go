package app

import (
	"errors"
	"fmt"

	"github.com/okian/watchrank/internal/adapters/source"
	"github.com/okian/watchrank/internal/domain/ranking"
)

// Sentinel kinds for run failures. A *RunError matches exactly one of
// them with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrSchema     = errors.New("schema")
	ErrEmptyInput = errors.New("empty input")
	ErrUnexpected = errors.New("unexpected")
)

// Kind classifies a run failure.
type Kind int

// Failure kinds.
const (
	KindNone Kind = iota
	KindNotFound
	KindSchema
	KindEmptyInput
	KindUnexpected
)

// String returns the metric label for k.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindNotFound:
		return "not_found"
	case KindSchema:
		return "schema"
	case KindEmptyInput:
		return "empty_input"
	default:
		return "unexpected"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindNotFound:
		return ErrNotFound
	case KindSchema:
		return ErrSchema
	case KindEmptyInput:
		return ErrEmptyInput
	case KindNone:
		return nil
	default:
		return ErrUnexpected
	}
}

// RunError reports a failed run together with its kind and input.
type RunError struct {
	Kind   Kind
	Source string
	Err    error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Kind, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// Is matches the sentinel of the error's kind.
func (e *RunError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// Classify maps any error to a failure kind.
func Classify(err error) Kind {
	var re *RunError
	switch {
	case err == nil:
		return KindNone
	case errors.As(err, &re):
		return re.Kind
	case errors.Is(err, source.ErrNotFound):
		return KindNotFound
	case errors.Is(err, source.ErrSchema):
		return KindSchema
	case errors.Is(err, source.ErrEmptyInput), errors.Is(err, ranking.ErrEmptyInput):
		return KindEmptyInput
	default:
		return KindUnexpected
	}
}

// Describe turns err into the message shown to the user.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	name := "input"
	var re *RunError
	if errors.As(err, &re) {
		name = re.Source
		err = re.Err
	}
	switch Classify(err) {
	case KindNotFound:
		return fmt.Sprintf("error: file not found, check the path: %s", name)
	case KindSchema:
		return fmt.Sprintf("error: %v; check the header row of %s", err, name)
	case KindEmptyInput:
		return fmt.Sprintf("no chart: %s has no watch records", name)
	default:
		return fmt.Sprintf("unexpected error: %v", err)
	}
}

func newRunError(src string, err error) error {
	return &RunError{Kind: Classify(err), Source: src, Err: err}
}
