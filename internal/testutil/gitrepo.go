package testutil

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// RequireGit skips the test when no git executable is on PATH.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git executable not available")
	}
}

// Git runs git in dir and returns trimmed stdout, failing the test on error.
func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.CommandContext(context.Background(), "git", args...) //#nosec G204 -- test fixture
	cmd.Dir = dir
	cmd.Env = isolatedEnv()
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %s: %s", strings.Join(args, " "), out)
	return strings.TrimSpace(string(out))
}

// NewRepo creates a temporary git repository with a committer identity and
// a single initial commit on branch main. Returns the repository path.
func NewRepo(t *testing.T) string {
	t.Helper()
	RequireGit(t)

	dir := t.TempDir()
	Git(t, dir, "init", "--initial-branch=main")
	Git(t, dir, "config", "user.email", "test@syncgit.local")
	Git(t, dir, "config", "user.name", "syncgit Test")
	Git(t, dir, "config", "commit.gpgsign", "false")
	WriteFile(t, dir, "README.md", "# test\n")
	Git(t, dir, "add", "-A")
	Git(t, dir, "commit", "-m", "initial commit")
	return dir
}

// NewRepoWithRemote creates a repository (as NewRepo) plus a bare remote
// named origin, with main pushed and tracking origin/main.
// Returns the working repository and the bare remote paths.
func NewRepoWithRemote(t *testing.T) (repo, remote string) {
	t.Helper()
	repo = NewRepo(t)
	remote = filepath.Join(t.TempDir(), "remote.git")
	Git(t, repo, "init", "--bare", "--initial-branch=main", remote)
	Git(t, repo, "remote", "add", "origin", remote)
	Git(t, repo, "push", "--set-upstream", "origin", "main")
	return repo, remote
}

// Clone clones remote into a fresh temporary directory with a committer identity.
func Clone(t *testing.T, remote string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "clone")
	Git(t, filepath.Dir(dir), "clone", remote, dir)
	Git(t, dir, "config", "user.email", "other@syncgit.local")
	Git(t, dir, "config", "user.name", "syncgit Other")
	Git(t, dir, "config", "commit.gpgsign", "false")
	return dir
}

// WriteFile creates name (and any parent directories) under dir.
func WriteFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// CommitAll stages everything in dir and commits it with msg.
func CommitAll(t *testing.T, dir, msg string) {
	t.Helper()
	Git(t, dir, "add", "-A")
	Git(t, dir, "commit", "-m", msg)
}

// isolatedEnv keeps the developer's global git config out of fixtures.
func isolatedEnv() []string {
	env := os.Environ()
	return append(env,
		"GIT_CONFIG_GLOBAL="+os.DevNull,
		"GIT_CONFIG_NOSYSTEM=1",
		"GIT_TERMINAL_PROMPT=0",
	)
}
