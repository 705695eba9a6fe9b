package flock

import (
	"errors"
	"fmt"
	"os"
)

// ErrLocked is returned by Acquire when another holder has the lock.
var ErrLocked = errors.New("file is locked")

// Lock is an acquired exclusive lock. The zero value is not usable.
type Lock struct {
	file *os.File
}

// Acquire opens path, creating it if needed, and takes an exclusive lock
// without blocking.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) //#nosec G304 -- path is built by the caller
	if err != nil {
		return nil, fmt.Errorf("open lock file %s: %w", path, err)
	}
	if err := Exclusive(f.Fd()); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrLocked, path, err)
	}
	return &Lock{file: f}, nil
}

// Path returns the lock file's path.
func (l *Lock) Path() string {
	return l.file.Name()
}

// Release drops the lock and closes the file. The file stays on disk.
func (l *Lock) Release() error {
	unlockErr := Unlock(l.file.Fd())
	closeErr := l.file.Close()
	return errors.Join(unlockErr, closeErr)
}
