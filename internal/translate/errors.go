package translate

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when the text to translate is empty after
	// normalisation.
	ErrEmptyInput = errors.New("translate: empty input")

	// ErrRecognizer is returned when a gesture or speech recognizer fails or
	// yields an unusable result.
	ErrRecognizer = errors.New("translate: recognizer failed")
)

// ValidationError reports a malformed request. Field names the offending
// request field using its JSON name.
type ValidationError struct {
	Field  string
	Reason string

	// Err is an optional underlying cause such as [ErrEmptyInput].
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("translate: invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func recognizerErr(kind string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRecognizer, kind, err)
}
