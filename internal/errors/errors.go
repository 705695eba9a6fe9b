// Package errors provides centralized error handling for syncgit.
//
// This package defines sentinel errors used for programmatic error categorization
// throughout the application. All error types can be checked using errors.Is().
//
// IMPORTANT: This package MUST NOT import any other internal packages.
// Only standard library imports are allowed.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for error categorization.
// All errors use lowercase descriptions per Go conventions.
var (
	// ErrNoChanges indicates the pathspec has nothing to stage or the staged
	// diff turned out empty.
	ErrNoChanges = errors.New("no changes to commit")

	// ErrNoCommitMessage indicates an empty or whitespace-only commit message.
	ErrNoCommitMessage = errors.New("no commit message provided")

	// ErrCommandFailed indicates that an external git command exited unsuccessfully
	// or could not be started.
	ErrCommandFailed = errors.New("command failed")

	// ErrNoToken indicates that none of the configured token environment
	// variables held a value.
	ErrNoToken = errors.New("no access token found")

	// ErrNoInternet indicates the connectivity probe could not reach its target.
	ErrNoInternet = errors.New("no internet connection")

	// ErrOther is the catch-all category for failures without a dedicated sentinel.
	ErrOther = errors.New("unexpected error")

	// ErrOperationCanceled indicates the operator stopped the workflow at an
	// interactive gate.
	ErrOperationCanceled = errors.New("operation canceled by user")

	// ErrPreflightBlocked indicates unresolved conflicts, an in-progress merge,
	// or declined stash confirmation.
	ErrPreflightBlocked = errors.New("repository is not in a state that can be synchronized")

	// ErrRepositoryBusy indicates another syncgit session holds the
	// repository's session lock.
	ErrRepositoryBusy = errors.New("another syncgit session is running in this repository")

	// ErrNotGitRepo indicates no ancestor directory contains git metadata.
	ErrNotGitRepo = errors.New("not a git repository")

	// ErrNoRemote indicates the configured remote does not exist.
	ErrNoRemote = errors.New("no remote configured")

	// ErrInvalidPathspec indicates a pathspec that is absolute or escapes the repository.
	ErrInvalidPathspec = errors.New("invalid pathspec")

	// ErrBadCredential indicates the hosting API rejected the token (HTTP 401).
	ErrBadCredential = errors.New("access token rejected")

	// ErrInsufficientScope indicates the token lacks a required scope (HTTP 403).
	ErrInsufficientScope = errors.New("access token has insufficient scope")

	// ErrRepoNameConflict indicates a hosted repository with the same name already exists.
	ErrRepoNameConflict = errors.New("repository already exists")

	// ErrInvalidRepoName indicates a repository name outside the allowed character set.
	ErrInvalidRepoName = errors.New("invalid repository name")

	// ErrHostingAPI indicates any other hosting API failure.
	ErrHostingAPI = errors.New("hosting api request failed")

	// ErrConfigNil indicates that a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrConfigInvalidAuth indicates an invalid auth configuration value.
	ErrConfigInvalidAuth = errors.New("invalid auth configuration")

	// ErrConfigInvalidNetwork indicates an invalid network configuration value.
	ErrConfigInvalidNetwork = errors.New("invalid network configuration")

	// ErrConfigInvalidHosting indicates an invalid hosting configuration value.
	ErrConfigInvalidHosting = errors.New("invalid hosting configuration")

	// ErrConfigInvalidSync indicates an invalid sync configuration value.
	ErrConfigInvalidSync = errors.New("invalid sync configuration")

	// ErrConfigInvalidScan indicates an invalid scan configuration value.
	ErrConfigInvalidScan = errors.New("invalid scan configuration")

	// ErrInvalidOutputFormat indicates an invalid output format was specified.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrNotDirectory indicates a path argument that is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrEmptyValue indicates that a required value was empty.
	ErrEmptyValue = errors.New("value cannot be empty")

	// ErrMenuCanceled indicates the user canceled an interactive menu (q/Esc).
	ErrMenuCanceled = errors.New("menu canceled")

	// ErrJSONErrorOutput indicates that an error has already been output as JSON.
	// This ensures a non-zero exit code while preventing duplicate error messages.
	ErrJSONErrorOutput = errors.New("error output as JSON")
)

// CommandError describes a failed external invocation. It always unwraps to
// ErrCommandFailed so callers can match it with errors.Is.
type CommandError struct {
	// Command is the command line that was run, e.g. "git push".
	Command string
	// Stderr is the trimmed error output captured from the process.
	Stderr string
	// ExitCode is the process exit status, or -1 if the process never ran.
	ExitCode int
	// Cause is the underlying start/wait error, if any.
	Cause error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	var b strings.Builder
	b.WriteString(e.Command)
	b.WriteString(" failed")
	if e.ExitCode >= 0 {
		fmt.Fprintf(&b, " (exit %d)", e.ExitCode)
	}
	if e.Stderr != "" {
		b.WriteString(": ")
		b.WriteString(e.Stderr)
	} else if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes ErrCommandFailed and the underlying cause.
func (e *CommandError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrCommandFailed, e.Cause}
	}
	return []error{ErrCommandFailed}
}

// ExitCode2Error wraps an error to indicate exit code 2 should be used.
type ExitCode2Error struct {
	Err error
}

// NewExitCode2Error wraps an error to indicate exit code 2.
func NewExitCode2Error(err error) *ExitCode2Error {
	return &ExitCode2Error{Err: err}
}

// Error implements the error interface.
func (e *ExitCode2Error) Error() string {
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ExitCode2Error) Unwrap() error {
	return e.Err
}

// IsExitCode2Error checks if an error should result in exit code 2.
func IsExitCode2Error(err error) bool {
	var e *ExitCode2Error
	return errors.As(err, &e)
}

// IsCancellation reports whether err represents an operator choosing to stop,
// as opposed to something breaking.
func IsCancellation(err error) bool {
	return errors.Is(err, ErrOperationCanceled) || errors.Is(err, ErrMenuCanceled)
}
