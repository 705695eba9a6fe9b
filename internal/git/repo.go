package git

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrz1836/syncgit/internal/constants"
	syncerrors "github.com/mrz1836/syncgit/internal/errors"
)

// Repository identifies the working tree syncgit operates on.
// It is immutable after discovery.
type Repository struct {
	// Root is the first ancestor of the starting directory containing .git.
	Root string
	// Name is a display-only label.
	Name string
}

// FindRoot walks startDir and each of its ancestors until it finds one
// containing a .git entry. The entry may be a directory or a file, so
// linked worktrees and submodules are recognized. Returns ErrNotGitRepo
// when the filesystem root is reached.
func FindRoot(startDir string) (string, error) {
	dir := resolvePath(startDir)
	for {
		if _, err := os.Stat(filepath.Join(dir, constants.GitDir)); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", syncerrors.Wrapf(syncerrors.ErrNotGitRepo, "no %s found above %s", constants.GitDir, startDir)
		}
		dir = parent
	}
}

// IsRepoRoot reports whether dir itself contains a .git entry.
func IsRepoRoot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, constants.GitDir))
	return err == nil
}

// GitDir resolves the metadata directory of the repository r runs in. For
// linked worktrees it lives outside the working tree.
func GitDir(ctx context.Context, r CommandRunner) (string, error) {
	out, err := run(ctx, r, "rev-parse", "--git-dir")
	if err != nil {
		return "", err
	}
	dir := out.Out()
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(r.Dir(), dir)
	}
	return dir, nil
}

// DeriveName returns a display name for the repository: the final path
// segment of the remote URL without a trailing ".git", else the root
// directory's basename, else "unknown".
func DeriveName(ctx context.Context, r CommandRunner, remote string) string {
	if out, err := run(ctx, r, "config", "--get", "remote."+remote+".url"); err == nil {
		if name := ParseRepoName(out.Out()); name != "" {
			return name
		}
	}
	if base := filepath.Base(r.Dir()); base != "" && base != "." && base != string(filepath.Separator) {
		return base
	}
	return constants.UnknownRepoName
}

// ParseRepoName extracts the repository name from a remote URL. It handles
// https, ssh and scp-like (host:owner/repo) forms. Returns "" when nothing
// usable remains.
func ParseRepoName(remoteURL string) string {
	s := strings.TrimSpace(remoteURL)
	s = strings.TrimRight(s, "/")
	s = strings.TrimSuffix(s, ".git")
	if i := strings.LastIndexAny(s, "/:"); i >= 0 {
		s = s[i+1:]
	}
	return s
}
