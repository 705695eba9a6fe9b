// Package auth locates the access token and wires it into git without ever
// placing it in an argument vector or on disk.
package auth

import (
	"os"
	"strings"

	syncerrors "github.com/mrz1836/syncgit/internal/errors"
	"github.com/mrz1836/syncgit/internal/logging"
)

// TokenSource yields the access token used for authenticated operations.
type TokenSource interface {
	// Token returns the token and the name of the variable it came from.
	// Returns ErrNoToken when no token is available.
	Token() (token, source string, err error)
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// EnvTokenSource reads the token from an ordered list of environment
// variables. The first non-empty value wins.
type EnvTokenSource struct {
	vars   []string
	lookup LookupFunc
}

// EnvOption configures an EnvTokenSource.
type EnvOption func(*EnvTokenSource)

// WithLookup replaces os.LookupEnv, for tests.
func WithLookup(fn LookupFunc) EnvOption {
	return func(s *EnvTokenSource) {
		s.lookup = fn
	}
}

// NewEnvTokenSource creates a source over vars.
func NewEnvTokenSource(vars []string, opts ...EnvOption) *EnvTokenSource {
	s := &EnvTokenSource{vars: vars, lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Token implements TokenSource. A found token is registered with the log
// redactor before it is returned.
func (s *EnvTokenSource) Token() (token, source string, err error) {
	for _, name := range s.vars {
		value, ok := s.lookup(name)
		if !ok {
			continue
		}
		if value = strings.TrimSpace(value); value != "" {
			logging.RegisterSecret(value)
			return value, name, nil
		}
	}
	return "", "", syncerrors.Wrapf(syncerrors.ErrNoToken, "checked %s", strings.Join(s.vars, ", "))
}

// StaticTokenSource always returns the same token. An empty token behaves
// like a missing one.
type StaticTokenSource string

// Token implements TokenSource.
func (s StaticTokenSource) Token() (token, source string, err error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", "", syncerrors.ErrNoToken
	}
	return string(s), "static", nil
}
