package git

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	syncerrors "github.com/mrz1836/syncgit/internal/errors"
	"github.com/mrz1836/syncgit/internal/testutil"
)

func TestClient_StagedDiffEmpty(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		outcome   CommandOutcome
		wantEmpty bool
		wantErr   bool
	}{
		{"exit 0 means empty", okOut(""), true, false},
		{"exit 1 means changes", failOut(1, ""), false, false},
		{"other exit is a failure", failOut(128, "fatal: bad revision"), false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			runner := newScriptedRunner(map[string]CommandOutcome{
				"diff --cached --quiet -- src": tc.outcome,
			})

			empty, err := NewClient(runner, "origin").StagedDiffEmpty(ctx, "src")
			assert.Equal(t, tc.wantEmpty, empty)
			if tc.wantErr {
				require.ErrorIs(t, err, syncerrors.ErrCommandFailed)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestClient_ArgumentShapes(t *testing.T) {
	ctx := context.Background()
	runner := newScriptedRunner(nil)
	runner.RunFunc = func(context.Context, []string, ...string) (CommandOutcome, error) {
		return okOut(""), nil
	}
	c := NewClient(runner, "upstream")

	require.NoError(t, c.Add(ctx, "src"))
	require.NoError(t, c.Commit(ctx, "fix: handle \"quotes\" && $(stuff)", "src"))
	require.NoError(t, c.Push(ctx, "main", true, []string{"K=V"}))
	require.NoError(t, c.Push(ctx, "main", false, nil))
	require.NoError(t, c.Fetch(ctx, nil))
	require.NoError(t, c.SetUpstreamTo(ctx, "main"))
	require.NoError(t, c.ConfigReplaceAll(ctx, "credential.https://github.com.helper", "!helper"))

	assert.Equal(t, []string{
		"add -- src",
		"commit -m fix: handle \"quotes\" && $(stuff) -- src",
		"push --set-upstream upstream main",
		"push upstream main",
		"fetch upstream",
		"branch --set-upstream-to=upstream/main main",
		"config --local --replace-all credential.https://github.com.helper !helper",
	}, runner.calls)
	assert.Equal(t, []string{"K=V"}, runner.envs[2], "env only on the invocation it was given to")
	assert.Nil(t, runner.envs[3])
}

func TestClient_Incoming(t *testing.T) {
	ctx := context.Background()
	runner := newScriptedRunner(map[string]CommandOutcome{
		"log --oneline -n 5 main..main@{u}": okOut("abc1234 fix typo\ndef5678 add notes\n"),
	})

	incoming, err := NewClient(runner, "origin").Incoming(ctx, "main", 5)
	require.NoError(t, err)
	assert.Equal(t, "abc1234 fix typo\ndef5678 add notes", incoming)
}

func TestClient_ConfigReplaceAllRejectsEmptyKey(t *testing.T) {
	c := NewClient(newScriptedRunner(nil), "")
	assert.Equal(t, "origin", c.Remote())
	require.ErrorIs(t, c.ConfigReplaceAll(context.Background(), " ", "v"), syncerrors.ErrEmptyValue)
}

func TestPullArgs(t *testing.T) {
	assert.Equal(t, []string{"pull", "--rebase", "--autostash"}, PullArgs("rebase"))
	assert.Equal(t, []string{"pull", "--no-rebase", "--no-edit"}, PullArgs("merge"))
	assert.Equal(t, []string{"pull", "--ff-only"}, PullArgs("ff-only"))
	assert.Equal(t, []string{"pull", "--rebase", "--autostash"}, PullArgs(""))
}

func TestClient_RemoteManagement(t *testing.T) {
	repo := testutil.NewRepo(t)
	c := NewClient(NewExecRunner(repo), "origin")
	ctx := context.Background()

	_, ok := c.RemoteURL(ctx)
	assert.False(t, ok)

	require.NoError(t, c.PointRemoteAt(ctx, "https://example.com/a.git"))
	url, ok := c.RemoteURL(ctx)
	require.True(t, ok)
	assert.Equal(t, "https://example.com/a.git", url)

	require.NoError(t, c.PointRemoteAt(ctx, "https://example.com/b.git"))
	url, _ = c.RemoteURL(ctx)
	assert.Equal(t, "https://example.com/b.git", url)

	// Replacing twice leaves a single value.
	require.NoError(t, c.ConfigReplaceAll(ctx, "credential.https://example.com.helper", "first"))
	require.NoError(t, c.ConfigReplaceAll(ctx, "credential.https://example.com.helper", "second"))
	all := testutil.Git(t, repo, "config", "--local", "--get-all", "credential.https://example.com.helper")
	assert.Equal(t, "second", all)

	value, ok := c.ConfigGet(ctx, "credential.https://example.com.helper")
	assert.True(t, ok)
	assert.Equal(t, "second", value)
}

func TestClient_CommitIsScopedToPathspec(t *testing.T) {
	repo := testutil.NewRepo(t)
	testutil.WriteFile(t, repo, "src/a.go", "package a\n")
	testutil.WriteFile(t, repo, "docs/readme.md", "docs\n")
	testutil.Git(t, repo, "add", "--", "docs")

	c := NewClient(NewExecRunner(repo), "origin")
	ctx := context.Background()

	require.NoError(t, c.Add(ctx, "src"))
	empty, err := c.StagedDiffEmpty(ctx, "src")
	require.NoError(t, err)
	assert.False(t, empty)

	stat, err := c.StagedStat(ctx, "src")
	require.NoError(t, err)
	assert.Contains(t, stat, "src/a.go")
	assert.NotContains(t, stat, "docs")

	require.NoError(t, c.Commit(ctx, "add src", "src"))

	files := testutil.Git(t, repo, "show", "--name-only", "--format=", "HEAD")
	assert.Equal(t, "src/a.go", files)

	// Something staged outside the pathspec is still staged, not committed.
	staged := testutil.Git(t, repo, "diff", "--cached", "--name-only")
	assert.Equal(t, "docs/readme.md", staged)
}
