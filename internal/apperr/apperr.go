// Package apperr defines the error taxonomy shared by the reconstruction
// pipeline and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by who can correct it
type Kind string

const (
	KindValidation    Kind = "validation"    // Bad or missing input, user-correctable
	KindConfiguration Kind = "configuration" // Missing credential, operator-correctable
	KindUpstream      Kind = "upstream"      // Generative or search service failure
	KindParse         Kind = "parse"         // Service returned unusable structured data
)

// Error is a classified pipeline error. Message is safe to show to users;
// Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Raw     string // Raw service response, set for KindParse
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a KindValidation error
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// Configuration returns a KindConfiguration error
func Configuration(message string) *Error {
	return &Error{Kind: KindConfiguration, Message: message}
}

// Upstream wraps a failed call to an external service
func Upstream(message string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: message, Err: err}
}

// Parse reports a response that could not be interpreted. raw is kept
// unmodified for diagnostics.
func Parse(message, raw string, err error) *Error {
	return &Error{Kind: KindParse, Message: message, Raw: raw, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if none
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// As extracts the first *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
