package git

import (
	"context"
	"strconv"
	"strings"
)

// Divergence counts commits between the local branch and its upstream.
// It is (0,0) when there is no upstream.
type Divergence struct {
	Ahead  uint
	Behind uint
}

// InSync reports whether there is nothing to push or pull.
func (d Divergence) InSync() bool {
	return d.Ahead == 0 && d.Behind == 0
}

// DivergenceTracker measures ahead/behind against the upstream. Nothing is
// cached; every query runs git again.
type DivergenceTracker struct {
	runner CommandRunner
}

// NewDivergenceTracker creates a tracker bound to runner.
func NewDivergenceTracker(runner CommandRunner) *DivergenceTracker {
	return &DivergenceTracker{runner: runner}
}

// Branch returns the checked-out branch name. ok is false on a detached HEAD.
// An unborn branch (no commits yet) still reports its name.
func (t *DivergenceTracker) Branch(ctx context.Context) (name string, ok bool) {
	out, err := run(ctx, t.runner, "symbolic-ref", "--quiet", "--short", "HEAD")
	if err != nil || out.Out() == "" {
		return "", false
	}
	return out.Out(), true
}

// Upstream returns the upstream ref (e.g. "origin/main"). ok is false when
// the branch has none.
func (t *DivergenceTracker) Upstream(ctx context.Context) (ref string, ok bool) {
	out, err := run(ctx, t.runner, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}")
	if err != nil || out.Out() == "" {
		return "", false
	}
	return out.Out(), true
}

// Count returns how far the current branch is ahead of and behind its
// upstream. Any failure along the way (no upstream, detached HEAD,
// unparseable output) yields (0,0).
func (t *DivergenceTracker) Count(ctx context.Context) Divergence {
	branch, ok := t.Branch(ctx)
	if !ok {
		return Divergence{}
	}
	if _, ok := t.Upstream(ctx); !ok {
		return Divergence{}
	}
	out, err := run(ctx, t.runner, "rev-list", "--left-right", "--count", branch+"..."+branch+"@{u}")
	if err != nil {
		return Divergence{}
	}
	d, _ := ParseLeftRightCount(out.Out())
	return d
}

// ParseLeftRightCount parses "rev-list --left-right --count" output: two
// whitespace-separated counts, left (ahead) then right (behind).
func ParseLeftRightCount(s string) (Divergence, bool) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return Divergence{}, false
	}
	ahead, err := strconv.ParseUint(fields[0], 10, 0)
	if err != nil {
		return Divergence{}, false
	}
	behind, err := strconv.ParseUint(fields[1], 10, 0)
	if err != nil {
		return Divergence{}, false
	}
	return Divergence{Ahead: uint(ahead), Behind: uint(behind)}, true
}
