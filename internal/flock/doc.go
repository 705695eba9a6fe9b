// Package flock provides cross-platform exclusive file locks.
//
// syncgit holds one while a session runs in a repository so that a second
// session started in the same repository fails fast instead of interleaving
// git commands with the first.
//
//	lock, err := flock.Acquire(filepath.Join(gitDir, "syncgit.lock"))
//	if errors.Is(err, flock.ErrLocked) {
//	    // another process holds it
//	}
//	defer lock.Release()
package flock
