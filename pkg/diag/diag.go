// Package diag defines the structured diagnostics the CLI emits on fatal
// conditions: a machine-readable kind, a human message, and an actionable
// hint. Every fatal path produces exactly one of these before the process
// terminates.
package diag

import "errors"

// Kind classifies a fatal diagnostic.
type Kind string

const (
	// KindConfig covers unusable storage roots, output paths and settings.
	KindConfig Kind = "config"
	// KindAuth covers missing, unreadable or empty token sources.
	KindAuth Kind = "auth"
	// KindRemote covers non-success responses from the document listing API.
	KindRemote Kind = "remote"
	// KindNotFound covers identifiers that resolve to no stored meeting.
	KindNotFound Kind = "not_found"
)

// Error is a fatal diagnostic with a kind and a human hint.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"error"`
	Hint    string `json:"hint,omitempty"`

	// Err is the underlying cause, if any.
	Err error `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a diagnostic without an underlying cause.
func New(kind Kind, message, hint string) *Error {
	return &Error{Kind: kind, Message: message, Hint: hint}
}

// Wrap creates a diagnostic around an underlying error.
func Wrap(kind Kind, err error, message, hint string) *Error {
	return &Error{Kind: kind, Message: message, Hint: hint, Err: err}
}

// From extracts a diagnostic from an error chain.
func From(err error) (*Error, bool) {
	var d *Error
	if errors.As(err, &d) {
		return d, true
	}
	return nil, false
}
