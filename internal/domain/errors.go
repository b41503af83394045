package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for input that cannot be turned into tables.
var (
	ErrMissingFile    = errors.New("input file not found")
	ErrMalformedRow   = errors.New("malformed row")
	ErrEmptyAlignment = errors.New("alignment contains no pairs")
	ErrUnknownFormat  = errors.New("unknown input format")
)

// InputKind classifies construction-time input failures.
type InputKind string

const (
	InputMissingFile   InputKind = "missing_file"
	InputMalformedRow  InputKind = "malformed_row"
	InputEmpty         InputKind = "empty_input"
	InputUnknownFormat InputKind = "unknown_format"
)

// InputError is raised by loaders. The scoring core never produces one:
// data gaps there are outcomes, not errors.
type InputError struct {
	Kind InputKind
	Path string
	Line int
	Err  error
}

func (e *InputError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s:%d: %v", e.Kind, e.Path, e.Line, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// IsInputError reports whether err stems from a loader.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
