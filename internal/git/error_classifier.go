package git

import (
	"errors"
	"strings"

	syncerrors "github.com/mrz1836/syncgit/internal/errors"
)

// ErrorType represents the classification of a failed git invocation.
type ErrorType int

const (
	// ErrorTypeUnknown indicates the error could not be classified.
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeAuth indicates the remote rejected or never received credentials.
	ErrorTypeAuth
	// ErrorTypeNetwork indicates the remote could not be reached.
	ErrorTypeNetwork
	// ErrorTypeNonFastForward indicates the remote has commits the local branch lacks.
	ErrorTypeNonFastForward
	// ErrorTypeRejected indicates a server-side hook or branch protection refused the push.
	ErrorTypeRejected
	// ErrorTypeNotFound indicates the remote repository does not exist.
	ErrorTypeNotFound
)

// String returns a human-readable name for the error type.
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeUnknown:
		return "unknown"
	case ErrorTypeAuth:
		return "authentication"
	case ErrorTypeNetwork:
		return "network"
	case ErrorTypeNonFastForward:
		return "non_fast_forward"
	case ErrorTypeRejected:
		return "rejected"
	case ErrorTypeNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Hint returns a one-line suggestion for the operator, or "" if none applies.
func (e ErrorType) Hint() string {
	switch e {
	case ErrorTypeAuth:
		return "Check that the access token is valid and can write to this repository."
	case ErrorTypeNetwork:
		return "The remote could not be reached. Check your connection."
	case ErrorTypeNonFastForward:
		return "The remote has commits you don't have. Pull, resolve, then push."
	case ErrorTypeRejected:
		return "The remote refused the push (protected branch or server hook)."
	case ErrorTypeNotFound:
		return "The remote repository was not found. Check the remote URL."
	case ErrorTypeUnknown:
		return ""
	default:
		return ""
	}
}

// PatternMatcher checks if a string contains any of a list of patterns.
type PatternMatcher struct {
	patterns []string
}

// NewPatternMatcher creates a new PatternMatcher with the given lowercase patterns.
func NewPatternMatcher(patterns ...string) *PatternMatcher {
	return &PatternMatcher{patterns: patterns}
}

// MatchesLower checks if an already-lowercased string matches any pattern.
func (m *PatternMatcher) MatchesLower(lower string) bool {
	for _, pattern := range m.patterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

//nolint:gochecknoglobals // Package-level immutable pattern matchers
var (
	authPatterns = NewPatternMatcher(
		"authentication failed",
		"could not read username",
		"could not read password",
		"invalid username or password",
		"permission denied",
		"access denied",
		"terminal prompts disabled",
		"bad credentials",
		"403",
	)

	networkPatterns = NewPatternMatcher(
		"could not resolve host",
		"connection refused",
		"network is unreachable",
		"connection timed out",
		"operation timed out",
		"no route to host",
		"failed to connect",
		"connection reset",
	)

	nonFastForwardPatterns = NewPatternMatcher(
		"non-fast-forward",
		"fetch first",
		"tip of your current branch is behind",
		"rejected because the remote contains work",
	)

	rejectedPatterns = NewPatternMatcher(
		"protected branch",
		"pre-receive hook declined",
		"remote rejected",
	)

	notFoundPatterns = NewPatternMatcher(
		"repository not found",
		"does not appear to be a git repository",
		"not found",
	)
)

// ClassifyStderr determines the error type from git's error output.
//
// Classification priority (first match wins): auth, network,
// non-fast-forward, rejected, not found.
func ClassifyStderr(stderr string) ErrorType {
	lower := strings.ToLower(stderr)
	switch {
	case authPatterns.MatchesLower(lower):
		return ErrorTypeAuth
	case networkPatterns.MatchesLower(lower):
		return ErrorTypeNetwork
	case nonFastForwardPatterns.MatchesLower(lower):
		return ErrorTypeNonFastForward
	case rejectedPatterns.MatchesLower(lower):
		return ErrorTypeRejected
	case notFoundPatterns.MatchesLower(lower):
		return ErrorTypeNotFound
	default:
		return ErrorTypeUnknown
	}
}

// Classify determines the error type of err. Only *CommandError values
// carry stderr; anything else is ErrorTypeUnknown.
func Classify(err error) ErrorType {
	var cmdErr *syncerrors.CommandError
	if !errors.As(err, &cmdErr) {
		return ErrorTypeUnknown
	}
	return ClassifyStderr(cmdErr.Stderr)
}
