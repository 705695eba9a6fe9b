package tui

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	syncerrors "github.com/mrz1836/syncgit/internal/errors"
)

func TestActionableError(t *testing.T) {
	err := NewActionableError("remote missing", "Run: git remote add origin <url>")
	assert.Equal(t, "remote missing", err.Error())

	err.WithContext("origin")
	assert.Equal(t, "remote missing (origin)", err.Error())
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	wrapped := syncerrors.Wrap(syncerrors.ErrPreflightBlocked, "a merge is in progress")
	ae := FromError(wrapped)

	msg, action := syncerrors.Actionable(syncerrors.ErrPreflightBlocked)
	assert.Equal(t, msg, ae.Message)
	assert.Equal(t, action, ae.Suggestion)
	assert.Equal(t, wrapped.Error(), ae.Context)
	assert.True(t, errors.Is(ae, syncerrors.ErrPreflightBlocked), "the original chain stays reachable")
}

func TestFromError_UnknownErrorHasNoDuplicateContext(t *testing.T) {
	ae := FromError(errors.New("boom")) //nolint:err113 // test-only error
	assert.Equal(t, "boom", ae.Message)
	assert.Empty(t, ae.Context)
	assert.Equal(t, "boom", ae.Error())
}
