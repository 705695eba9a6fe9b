package workflow

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrz1836/syncgit/internal/constants"
	syncerrors "github.com/mrz1836/syncgit/internal/errors"
)

// ignoreHeader opens every generated ignore file.
const ignoreHeader = "# Generated by syncgit. Edit freely; syncgit never overwrites this file.\n"

// EnsureIgnoreFile writes .gitignore with patterns at root when no such file
// exists. An existing file is never touched. Reports whether it wrote one.
func EnsureIgnoreFile(root string, patterns []string) (bool, error) {
	path := filepath.Join(root, constants.IgnoreFileName)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644) //#nosec G302 G304 -- .gitignore is meant to be world-readable
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, syncerrors.Wrapf(err, "failed to create %s", path)
	}

	var b strings.Builder
	b.WriteString(ignoreHeader)
	for _, p := range patterns {
		if p = strings.TrimSpace(p); p != "" {
			b.WriteString(p)
			b.WriteByte('\n')
		}
	}

	if _, err := f.WriteString(b.String()); err != nil {
		_ = f.Close()
		return false, syncerrors.Wrapf(err, "failed to write %s", path)
	}
	if err := f.Close(); err != nil {
		return false, syncerrors.Wrapf(err, "failed to close %s", path)
	}
	return true, nil
}
