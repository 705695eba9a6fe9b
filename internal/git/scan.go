package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"
)

// ChildRepo describes a repository found directly below a scanned directory.
type ChildRepo struct {
	Name   string
	Path   string
	Branch string
	// Detached is true when HEAD is not on a branch.
	Detached    bool
	Dirty       bool
	HasUpstream bool
	Divergence  Divergence
	// Err is set when the repository could not be inspected.
	Err error
}

// Flags returns short state labels: "dirty", "ahead N", "behind N",
// "no upstream" or "in sync".
func (c ChildRepo) Flags() []string {
	if c.Err != nil {
		return []string{"error"}
	}
	var flags []string
	if c.Dirty {
		flags = append(flags, "dirty")
	}
	if c.Divergence.Ahead > 0 {
		flags = append(flags, fmt.Sprintf("ahead %d", c.Divergence.Ahead))
	}
	if c.Divergence.Behind > 0 {
		flags = append(flags, fmt.Sprintf("behind %d", c.Divergence.Behind))
	}
	if !c.HasUpstream {
		flags = append(flags, "no upstream")
	}
	if len(flags) == 0 {
		flags = append(flags, "in sync")
	}
	return flags
}

// RunnerFactory builds a CommandRunner bound to a directory.
type RunnerFactory func(dir string) CommandRunner

// ScanChildren inspects every immediate subdirectory of dir that contains a
// .git entry. At most concurrency repositories are inspected at once.
// The scan only reads. Results are sorted by name; a repository that cannot
// be inspected is still listed with Err set.
func ScanChildren(ctx context.Context, dir string, concurrency int, newRunner RunnerFactory) ([]ChildRepo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var candidates []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if IsRepoRoot(filepath.Join(dir, e.Name())) {
			candidates = append(candidates, e.Name())
		}
	}

	results := make([]ChildRepo, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, name := range candidates {
		g.Go(func() error {
			results[i] = inspectChild(gctx, name, filepath.Join(dir, name), newRunner)
			// Per-repository failures are reported in the result, only
			// cancellation stops the scan.
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })
	return results, nil
}

func inspectChild(ctx context.Context, name, path string, newRunner RunnerFactory) ChildRepo {
	runner := newRunner(path)
	child := ChildRepo{Name: name, Path: path}

	tracker := NewDivergenceTracker(runner)
	if branch, ok := tracker.Branch(ctx); ok {
		child.Branch = branch
	} else {
		child.Detached = true
		child.Branch = "HEAD"
	}

	dirty, err := NewChangeDetector(runner).HasAnyChanges(ctx)
	if err != nil {
		child.Err = err
		return child
	}
	child.Dirty = dirty

	_, child.HasUpstream = tracker.Upstream(ctx)
	child.Divergence = tracker.Count(ctx)
	return child
}
