package git

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrz1836/syncgit/internal/constants"
)

// VerdictKind classifies a preflight result.
type VerdictKind int

const (
	// VerdictOK means the repository can be synchronized.
	VerdictOK VerdictKind = iota
	// VerdictBlocked means synchronization must not proceed.
	VerdictBlocked
	// VerdictNeedsConfirmation means the operator must approve before proceeding.
	VerdictNeedsConfirmation
)

// String returns a human-readable name for the verdict kind.
func (k VerdictKind) String() string {
	switch k {
	case VerdictOK:
		return "ok"
	case VerdictBlocked:
		return "blocked"
	case VerdictNeedsConfirmation:
		return "needs_confirmation"
	default:
		return "unknown"
	}
}

// Verdict is the result of a preflight check.
type Verdict struct {
	Kind   VerdictKind
	Reason string
	// Details lists the offending paths or stash entries.
	Details []string
}

// PreflightGuard refuses to start on repositories in an unsafe state.
type PreflightGuard struct {
	runner CommandRunner
}

// NewPreflightGuard creates a guard bound to runner.
func NewPreflightGuard(runner CommandRunner) *PreflightGuard {
	return &PreflightGuard{runner: runner}
}

// Check inspects, in order: unmerged paths, an in-progress merge or rebase,
// and the stash list. The first problem found decides the verdict.
func (g *PreflightGuard) Check(ctx context.Context) (Verdict, error) {
	out, err := run(ctx, g.runner, "diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return Verdict{}, err
	}
	if conflicted := nonEmptyLines(out.Out()); len(conflicted) > 0 {
		return Verdict{
			Kind:    VerdictBlocked,
			Reason:  fmt.Sprintf("%d file(s) have unresolved conflicts", len(conflicted)),
			Details: conflicted,
		}, nil
	}

	gitDir, err := GitDir(ctx, g.runner)
	if err != nil {
		return Verdict{}, err
	}
	if exists(filepath.Join(gitDir, constants.MergeHeadFile)) {
		return Verdict{Kind: VerdictBlocked, Reason: "a merge is in progress"}, nil
	}
	if exists(filepath.Join(gitDir, "rebase-merge")) || exists(filepath.Join(gitDir, "rebase-apply")) {
		return Verdict{Kind: VerdictBlocked, Reason: "a rebase is in progress"}, nil
	}

	out, err = run(ctx, g.runner, "stash", "list")
	if err != nil {
		return Verdict{}, err
	}
	if stashes := nonEmptyLines(out.Out()); len(stashes) > 0 {
		return Verdict{
			Kind:    VerdictNeedsConfirmation,
			Reason:  fmt.Sprintf("the stash holds %d entries", len(stashes)),
			Details: stashes,
		}, nil
	}

	return Verdict{Kind: VerdictOK}, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimRight(line, "\r"); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
