package git

import (
	"path/filepath"
	"strings"

	"github.com/mrz1836/syncgit/internal/constants"
	syncerrors "github.com/mrz1836/syncgit/internal/errors"
)

// pathspecCleaner strips line breaks so a crafted directory name cannot
// smuggle extra lines into git's argument or output parsing.
//
//nolint:gochecknoglobals // immutable replacer
var pathspecCleaner = strings.NewReplacer(`\`, "/", "\r", "", "\n", "")

// NormalizePathspec applies syncgit's textual rules to a pathspec:
// backslashes become forward slashes, CR/LF are removed, and embedded
// "/.git/" segments are rewritten to "/GIT_ESCAPED/" so the metadata
// directory can never be addressed. An empty result means the root.
func NormalizePathspec(p string) string {
	p = pathspecCleaner.Replace(p)
	p = strings.ReplaceAll(p, "/.git/", "/GIT_ESCAPED/")
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return constants.RootPathspec
	}
	return p
}

// ValidatePathspec rejects absolute pathspecs, pathspecs that escape the
// repository root, pathspecs that point into the git metadata directory and
// pathspecs starting with ':' (git's magic prefix, as in ":(top)").
func ValidatePathspec(p string) error {
	if p == constants.RootPathspec {
		return nil
	}
	if filepath.IsAbs(p) || strings.HasPrefix(p, "/") || (len(p) > 1 && p[1] == ':') {
		return syncerrors.Wrapf(syncerrors.ErrInvalidPathspec, "absolute pathspec %q", p)
	}
	if strings.HasPrefix(p, ":") {
		return syncerrors.Wrapf(syncerrors.ErrInvalidPathspec, "pathspec %q starts with pathspec magic", p)
	}
	for _, segment := range strings.Split(p, "/") {
		switch segment {
		case "..":
			return syncerrors.Wrapf(syncerrors.ErrInvalidPathspec, "pathspec %q escapes the repository", p)
		case constants.GitDir:
			return syncerrors.Wrapf(syncerrors.ErrInvalidPathspec, "pathspec %q points into git metadata", p)
		}
	}
	return nil
}

// ComputePathspec returns the pathspec addressing cwd within the repository
// at root: "." when cwd is the root, otherwise the slash-separated relative
// path. Symlinks are resolved on both sides so /tmp vs /private/tmp style
// aliases compare equal.
func ComputePathspec(root, cwd string) (string, error) {
	root = resolvePath(root)
	cwd = resolvePath(cwd)

	rel, err := filepath.Rel(root, cwd)
	if err != nil {
		return "", syncerrors.Wrapf(syncerrors.ErrInvalidPathspec, "%s is not inside %s", cwd, root)
	}

	p := NormalizePathspec(filepath.ToSlash(rel))
	if err := ValidatePathspec(p); err != nil {
		return "", err
	}
	return p, nil
}

// resolvePath returns an absolute, symlink-free form of p when possible.
func resolvePath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if resolved, err := filepath.EvalSymlinks(p); err == nil {
		p = resolved
	}
	return p
}
