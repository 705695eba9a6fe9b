package workflow

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/syncgit/internal/auth"
	syncerrors "github.com/mrz1836/syncgit/internal/errors"
	"github.com/mrz1836/syncgit/internal/git"
	"github.com/mrz1836/syncgit/internal/hosting"
	"github.com/mrz1836/syncgit/internal/network"
	"github.com/mrz1836/syncgit/internal/testutil"
)

const nonFastForward = " ! [rejected]        main -> main (non-fast-forward)\nerror: failed to push some refs"

func newPublisher(h *harness) *Publisher {
	return NewPublisher(h.svc, h.client(), h.runner.Dir())
}

func TestPublishExisting_DeclineSkipsEverything(t *testing.T) {
	h := newHarness(t, t.TempDir())
	scriptRepo(h.runner, 3, 0)
	h.svc.Tokens = auth.StaticTokenSource("")
	h.prompter.Confirms = []bool{false}

	res, err := newPublisher(h).PublishExisting(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, PublishSkipped, res.Status)
	assert.False(t, h.runner.called("push"))
	assert.Contains(t, h.out.text(), "3 local commit(s)")
}

func TestPublishExisting_NoTokenNeverPushes(t *testing.T) {
	h := newHarness(t, t.TempDir())
	scriptRepo(h.runner, 3, 0)
	h.svc.Tokens = auth.StaticTokenSource("")
	h.prompter.Confirms = []bool{true}

	_, err := newPublisher(h).PublishExisting(context.Background(), 3)
	require.ErrorIs(t, err, syncerrors.ErrNoToken)
	assert.False(t, h.runner.called("push"))
	assert.Zero(t, h.creds.calls)
}

func TestPublishExisting_OfflineNeverPushes(t *testing.T) {
	h := newHarness(t, t.TempDir())
	scriptRepo(h.runner, 1, 0)
	h.svc.Prober = network.StaticProber{Err: syncerrors.ErrNoInternet}
	h.prompter.Confirms = []bool{true}

	_, err := newPublisher(h).PublishExisting(context.Background(), 1)
	require.ErrorIs(t, err, syncerrors.ErrNoInternet)
	assert.False(t, h.runner.called("push"))
}

func TestPublish_PushesWithCredentials(t *testing.T) {
	h := newHarness(t, t.TempDir())
	scriptRepo(h.runner, 1, 0).on("push origin main", ok(""))

	res, err := newPublisher(h).Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PublishResult{Status: PublishPushed, Remote: "origin", Branch: "main"}, res)
	assert.Equal(t, auth.Env(testToken), h.runner.envs["push origin main"])
	assert.Equal(t, []string{testToken}, h.creds.tokens)
}

func TestPublish_SetsUpstreamWhenMissing(t *testing.T) {
	h := newHarness(t, t.TempDir())
	scriptRepo(h.runner, 0, 0).
		on("rev-parse --abbrev-ref --symbolic-full-name @{u}", failed(128, "fatal: no upstream configured")).
		on("push --set-upstream origin main", ok(""))

	res, err := newPublisher(h).Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PublishPushed, res.Status)
}

func TestPublish_RecoveryLadderRetries(t *testing.T) {
	h := newHarness(t, t.TempDir())
	scriptRepo(h.runner, 1, 0).
		on("push origin main", failed(1, nonFastForward), ok("")).
		on("fetch origin", ok("")).
		on("branch --set-upstream-to=origin/main main", ok(""))
	h.prompter.Confirms = []bool{true}

	res, err := newPublisher(h).Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PublishPushed, res.Status)
	assert.Equal(t, []string{
		"push origin main",
		"fetch origin",
		"branch --set-upstream-to=origin/main main",
		"push origin main",
	}, filterCalls(h.runner, "push", "fetch", "branch"))
	assert.Equal(t, []string{"Retry the push?"}, h.prompter.Asked)
}

func TestPublish_RecoveryLadderGivesUp(t *testing.T) {
	h := newHarness(t, t.TempDir())
	scriptRepo(h.runner, 1, 0).
		on("push origin main", failed(1, nonFastForward)).
		on("fetch origin", failed(128, "fatal: unable to access")).
		on("branch --set-upstream-to=origin/main main", ok(""))
	h.prompter.Confirms = []bool{true}

	res, err := newPublisher(h).Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PublishFailed, res.Status)
	assert.Equal(t, 2, h.runner.count("push"))
	assert.Contains(t, res.Manual, "git push --set-upstream origin main")
	assert.Contains(t, h.out.text(), "markdown: ## Finish publishing by hand")
}

func TestPublish_DeclinedRetryPushesOnce(t *testing.T) {
	h := newHarness(t, t.TempDir())
	scriptRepo(h.runner, 1, 0).on("push origin main", failed(1, nonFastForward))
	h.prompter.Confirms = []bool{false}

	res, err := newPublisher(h).Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PublishFailed, res.Status)
	assert.Equal(t, 1, h.runner.count("push"))
}

func TestPublish_DetachedHead(t *testing.T) {
	h := newHarness(t, t.TempDir())
	scriptRepo(h.runner, 0, 0).on("symbolic-ref --quiet --short HEAD", failed(128, ""))

	_, err := newPublisher(h).Publish(context.Background())
	require.ErrorIs(t, err, syncerrors.ErrOther)
	assert.False(t, h.runner.called("push"))
}

func TestCreateRemoteAndPublish_Declined(t *testing.T) {
	h := newHarness(t, t.TempDir())
	h.prompter.Confirms = []bool{false}

	res, err := newPublisher(h).Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PublishDeferred, res.Status)
	assert.Empty(t, h.host.requests)
	assert.False(t, h.runner.called("push"))
}

func TestCreateRemoteAndPublish_Creates(t *testing.T) {
	root := filepath.Join(t.TempDir(), "notes")
	h := newHarness(t, root)
	h.runner.
		on("symbolic-ref --quiet --short HEAD", ok("main\n")).
		on("remote add origin https://github.com/octo/notes.git", ok("")).
		on("push --set-upstream origin main", ok(""))
	h.host.repo = &hosting.Repo{
		Name:     "notes",
		Owner:    "octo",
		HTMLURL:  "https://github.com/octo/notes",
		CloneURL: "https://github.com/octo/notes.git",
	}
	h.prompter.Lines = []string{"", "  my notes "}
	h.prompter.Confirms = []bool{true, true}

	res, err := newPublisher(h).Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PublishPushed, res.Status)
	assert.Equal(t, "https://github.com/octo/notes", res.URL)
	assert.Equal(t, []hosting.CreateRequest{{Name: "notes", Description: "my notes", Private: true}}, h.host.requests)
	assert.True(t, h.runner.called("remote add origin https://github.com/octo/notes.git"))
	assert.FileExists(t, filepath.Join(root, ".gitignore"))
}

func TestCreateRemoteAndPublish_AdoptsExisting(t *testing.T) {
	root := filepath.Join(t.TempDir(), "notes")
	h := newHarness(t, root)
	h.runner.
		on("symbolic-ref --quiet --short HEAD", ok("main\n")).
		on("remote add origin https://github.com/octo/notes.git", ok("")).
		on("push --set-upstream origin main", ok(""))
	h.host.createErr = syncerrors.Wrap(syncerrors.ErrRepoNameConflict, "create repository notes")
	h.host.user = "octo"
	h.prompter.Lines = []string{"", ""}
	h.prompter.Confirms = []bool{true, false, true}

	res, err := newPublisher(h).Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PublishPushed, res.Status)
	assert.Equal(t, "https://github.com/octo/notes", res.URL)
	assert.Equal(t, 1, h.host.userCalls)
	assert.True(t, h.runner.called("remote add origin https://github.com/octo/notes.git"))
	assert.True(t, h.runner.called("push --set-upstream origin main"))
	assert.False(t, h.host.requests[0].Private)
}

func TestCreateRemoteAndPublish_DeclinedAdoption(t *testing.T) {
	h := newHarness(t, filepath.Join(t.TempDir(), "notes"))
	h.host.createErr = syncerrors.ErrRepoNameConflict
	h.prompter.Lines = []string{"", ""}
	h.prompter.Confirms = []bool{true, true, false}

	res, err := newPublisher(h).Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PublishDeferred, res.Status)
	assert.Zero(t, h.host.userCalls)
	assert.False(t, h.runner.called("remote add"))
}

func TestCreateRemoteAndPublish_InvalidName(t *testing.T) {
	h := newHarness(t, t.TempDir())
	h.prompter.Lines = []string{"not a name"}
	h.prompter.Confirms = []bool{true}

	_, err := newPublisher(h).Publish(context.Background())
	require.ErrorIs(t, err, syncerrors.ErrInvalidRepoName)
	assert.Empty(t, h.host.requests)
}

func TestCreateRemoteAndPublish_NoToken(t *testing.T) {
	h := newHarness(t, t.TempDir())
	h.svc.Tokens = auth.StaticTokenSource("")
	h.prompter.Confirms = []bool{true}

	_, err := newPublisher(h).Publish(context.Background())
	require.ErrorIs(t, err, syncerrors.ErrNoToken)
	assert.Empty(t, h.host.requests)
	assert.NotContains(t, strings.Join(h.prompter.Asked, "\n"), "Repository name")
}

func TestCreateRemoteAndPublish_HostingFailure(t *testing.T) {
	h := newHarness(t, t.TempDir())
	h.host.createErr = syncerrors.Wrap(syncerrors.ErrBadCredential, "create repository")
	h.prompter.Lines = []string{"notes", ""}
	h.prompter.Confirms = []bool{true, true}

	_, err := newPublisher(h).Publish(context.Background())
	require.ErrorIs(t, err, syncerrors.ErrBadCredential)
	assert.False(t, h.runner.called("remote add"))
}

func TestPublish_ContextCanceled(t *testing.T) {
	h := newHarness(t, t.TempDir())
	scriptRepo(h.runner, 1, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newPublisher(h).PublishExisting(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, h.runner.called("push"))
}

func TestManualPushSteps(t *testing.T) {
	md := ManualPushSteps("origin", "main", git.ErrorTypeAuth)
	assert.Contains(t, md, git.ErrorTypeAuth.Hint())
	assert.Contains(t, md, "git fetch origin\n")
	assert.Contains(t, md, "git pull --rebase origin main\n")
}

func TestEnsureIgnoreFile(t *testing.T) {
	root := t.TempDir()

	written, err := EnsureIgnoreFile(root, []string{".DS_Store", "  ", "node_modules/"})
	require.NoError(t, err)
	assert.True(t, written)

	data, err := os.ReadFile(filepath.Join(root, ".gitignore")) //nolint:gosec // test path
	require.NoError(t, err)
	assert.Equal(t, ignoreHeader+".DS_Store\nnode_modules/\n", string(data))

	testutil.WriteFile(t, root, ".gitignore", "mine\n")
	written, err = EnsureIgnoreFile(root, []string{"other"})
	require.NoError(t, err)
	assert.False(t, written)

	data, err = os.ReadFile(filepath.Join(root, ".gitignore")) //nolint:gosec // test path
	require.NoError(t, err)
	assert.Equal(t, "mine\n", string(data))
}

// filterCalls returns the recorded calls starting with any of the prefixes.
func filterCalls(r *fakeRunner, prefixes ...string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, c := range r.calls {
		for _, p := range prefixes {
			if strings.HasPrefix(c, p) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
