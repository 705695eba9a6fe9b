package git

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncerrors "github.com/mrz1836/syncgit/internal/errors"
	"github.com/mrz1836/syncgit/internal/testutil"
)

func TestFindRoot(t *testing.T) {
	t.Run("from nested directory", func(t *testing.T) {
		repo := testutil.NewRepo(t)
		nested := filepath.Join(repo, "a", "b", "c")
		require.NoError(t, os.MkdirAll(nested, 0o750))

		root, err := FindRoot(nested)
		require.NoError(t, err)
		assert.Equal(t, resolvePath(repo), root)
	})

	t.Run("git file counts as metadata", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".git"), []byte("gitdir: /elsewhere\n"), 0o600))
		sub := filepath.Join(dir, "pkg")
		require.NoError(t, os.MkdirAll(sub, 0o750))

		root, err := FindRoot(sub)
		require.NoError(t, err)
		assert.Equal(t, resolvePath(dir), root)
	})

	t.Run("outside any repository", func(t *testing.T) {
		dir := t.TempDir()
		if _, err := FindRoot(dir); err == nil {
			t.Skip("temporary directory is itself inside a git repository")
		}

		_, err := FindRoot(dir)
		require.ErrorIs(t, err, syncerrors.ErrNotGitRepo)
	})
}

func TestParseRepoName(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/owner/project.git", "project"},
		{"https://github.com/owner/project", "project"},
		{"https://github.com/owner/project/", "project"},
		{"git@github.com:owner/project.git", "project"},
		{"ssh://git@host:2222/team/project.git", "project"},
		{"host:project.git", "project"},
		{"/srv/git/project.git", "project"},
		{"  ", ""},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.url, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseRepoName(tc.url))
		})
	}
}

func TestDeriveName(t *testing.T) {
	ctx := context.Background()

	t.Run("from remote url", func(t *testing.T) {
		runner := newScriptedRunner(map[string]CommandOutcome{
			"config --get remote.origin.url": okOut("git@github.com:me/widgets.git\n"),
		})
		assert.Equal(t, "widgets", DeriveName(ctx, runner, "origin"))
	})

	t.Run("falls back to directory name", func(t *testing.T) {
		runner := newScriptedRunner(map[string]CommandOutcome{
			"config --get remote.origin.url": failOut(1, ""),
		})
		runner.dir = "/home/me/gadgets"
		assert.Equal(t, "gadgets", DeriveName(ctx, runner, "origin"))
	})

	t.Run("falls back to unknown", func(t *testing.T) {
		runner := newScriptedRunner(map[string]CommandOutcome{
			"config --get remote.origin.url": failOut(1, ""),
		})
		runner.dir = "/"
		assert.Equal(t, "unknown", DeriveName(ctx, runner, "origin"))
	})
}

func TestGitDir(t *testing.T) {
	ctx := context.Background()

	t.Run("relative to the working tree", func(t *testing.T) {
		runner := newScriptedRunner(map[string]CommandOutcome{
			"rev-parse --git-dir": okOut(".git\n"),
		})
		runner.dir = filepath.Join("/", "work", "notes")
		dir, err := GitDir(ctx, runner)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/", "work", "notes", ".git"), dir)
	})

	t.Run("absolute for linked worktrees", func(t *testing.T) {
		abs := filepath.Join(t.TempDir(), "main", ".git", "worktrees", "feature")
		runner := newScriptedRunner(map[string]CommandOutcome{
			"rev-parse --git-dir": okOut(abs + "\n"),
		})
		dir, err := GitDir(ctx, runner)
		require.NoError(t, err)
		assert.Equal(t, abs, dir)
	})

	t.Run("failure", func(t *testing.T) {
		runner := newScriptedRunner(map[string]CommandOutcome{
			"rev-parse --git-dir": failOut(128, "fatal: not a git repository"),
		})
		_, err := GitDir(ctx, runner)
		require.ErrorIs(t, err, syncerrors.ErrCommandFailed)
	})

	t.Run("git could not start", func(t *testing.T) {
		runner := newScriptedRunner(nil)
		runner.RunFunc = func(context.Context, []string, ...string) (CommandOutcome, error) {
			return CommandOutcome{}, testutil.ErrMockCommand
		}
		_, err := GitDir(ctx, runner)
		require.ErrorIs(t, err, testutil.ErrMockCommand)
	})
}
