package tui

import (
	syncerrors "github.com/mrz1836/syncgit/internal/errors"
)

// ActionableError wraps an error with an actionable suggestion.
//
//	err := NewActionableError("no access token found", "export GITHUB_TOKEN=...")
//	output.Error(err)
//	// ✗ no access token found
//	//   ▸ Try: export GITHUB_TOKEN=...
type ActionableError struct {
	// Message is the primary error message.
	Message string

	// Suggestion should start with a verb.
	Suggestion string

	// Context is appended to the message in parentheses when present.
	Context string

	cause error
}

// NewActionableError creates a new ActionableError with message and suggestion.
func NewActionableError(msg, suggestion string) *ActionableError {
	return &ActionableError{
		Message:    msg,
		Suggestion: suggestion,
	}
}

// FromError builds an ActionableError from the operator-facing tables in
// internal/errors. The original error becomes the context and stays
// reachable through Unwrap.
func FromError(err error) *ActionableError {
	if err == nil {
		return nil
	}
	msg, action := syncerrors.Actionable(err)
	ae := &ActionableError{
		Message:    msg,
		Suggestion: action,
		cause:      err,
	}
	if detail := err.Error(); detail != msg {
		ae.Context = detail
	}
	return ae
}

// Error implements the error interface.
func (e *ActionableError) Error() string {
	if e.Context != "" {
		return e.Message + " (" + e.Context + ")"
	}
	return e.Message
}

// Unwrap returns the error this one was built from, if any.
func (e *ActionableError) Unwrap() error {
	return e.cause
}

// WithContext adds context to the error and returns it for chaining.
func (e *ActionableError) WithContext(ctx string) *ActionableError {
	e.Context = ctx
	return e
}
