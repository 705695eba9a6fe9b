package git

import (
	"context"
	"sort"
	"strconv"
	"strings"

	"github.com/mrz1836/syncgit/internal/constants"
)

// RootGroupLabel is how the group of files directly at the pathspec root is displayed.
const RootGroupLabel = "(root)"

// ChangeSet summarizes pending changes for a pathspec.
type ChangeSet struct {
	Unstaged  bool
	Staged    bool
	Untracked bool
}

// Any reports whether any kind of change is pending.
func (c ChangeSet) Any() bool {
	return c.Unstaged || c.Staged || c.Untracked
}

// StatusEntry is one porcelain v1 status line.
type StatusEntry struct {
	// Code is the two-character XY status, e.g. " M", "A ", "??".
	Code string
	// Path is relative to the repository root. For renames it is the new path.
	Path string
	// Line is the raw status line as git printed it.
	Line string
}

// StatusGroup collects entries sharing a top-level folder under the pathspec.
type StatusGroup struct {
	// Key is the first path segment below the pathspec, or "." for files
	// directly at the pathspec root.
	Key     string
	Entries []StatusEntry
}

// Label returns the display name of the group.
func (g StatusGroup) Label() string {
	if g.Key == constants.RootPathspec {
		return RootGroupLabel
	}
	return g.Key
}

// ChangeDetector discovers pending changes scoped to a pathspec.
type ChangeDetector struct {
	runner CommandRunner
}

// NewChangeDetector creates a detector bound to runner.
func NewChangeDetector(runner CommandRunner) *ChangeDetector {
	return &ChangeDetector{runner: runner}
}

// Status returns the porcelain v1 entries within pathspec.
func (d *ChangeDetector) Status(ctx context.Context, pathspec string) ([]StatusEntry, error) {
	out, err := run(ctx, d.runner, "status", "--porcelain=v1", "--", pathspec)
	if err != nil {
		return nil, err
	}
	return ParsePorcelain(string(out.Stdout)), nil
}

// Detect classifies the pending changes within pathspec.
func (d *ChangeDetector) Detect(ctx context.Context, pathspec string) (ChangeSet, error) {
	entries, err := d.Status(ctx, pathspec)
	if err != nil {
		return ChangeSet{}, err
	}
	var cs ChangeSet
	for _, e := range entries {
		if e.Code == "??" {
			cs.Untracked = true
			continue
		}
		if e.Code[0] != ' ' {
			cs.Staged = true
		}
		if e.Code[1] != ' ' {
			cs.Unstaged = true
		}
	}
	return cs, nil
}

// HasChanges reports whether anything is pending within pathspec.
func (d *ChangeDetector) HasChanges(ctx context.Context, pathspec string) (bool, error) {
	cs, err := d.Detect(ctx, pathspec)
	if err != nil {
		return false, err
	}
	return cs.Any(), nil
}

// HasAnyChanges reports whether anything is pending anywhere in the repository.
func (d *ChangeDetector) HasAnyChanges(ctx context.Context) (bool, error) {
	return d.HasChanges(ctx, constants.RootPathspec)
}

// PendingFolders returns the sorted, de-duplicated top-level folders of the
// repository that hold pending changes. Files at the repository root are
// reported as RootGroupLabel.
func (d *ChangeDetector) PendingFolders(ctx context.Context) ([]string, error) {
	entries, err := d.Status(ctx, constants.RootPathspec)
	if err != nil {
		return nil, err
	}
	groups := GroupEntries(entries, constants.RootPathspec)
	folders := make([]string, 0, len(groups))
	for _, g := range groups {
		folders = append(folders, g.Label())
	}
	return folders, nil
}

// GroupedStatus returns the entries within pathspec grouped by first
// segment below the pathspec. The same repository state always produces
// the same groups in the same order.
func (d *ChangeDetector) GroupedStatus(ctx context.Context, pathspec string) ([]StatusGroup, error) {
	entries, err := d.Status(ctx, pathspec)
	if err != nil {
		return nil, err
	}
	return GroupEntries(entries, pathspec), nil
}

// ParsePorcelain parses "git status --porcelain=v1" output. Lines that are
// too short to carry a code and a path are skipped.
func ParsePorcelain(out string) []StatusEntry {
	var entries []StatusEntry
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if len(line) < 4 || line[2] != ' ' {
			continue
		}
		path := line[3:]
		if i := strings.Index(path, " -> "); i >= 0 {
			path = path[i+len(" -> "):]
		}
		entries = append(entries, StatusEntry{
			Code: line[:2],
			Path: unquotePath(path),
			Line: line,
		})
	}
	return entries
}

// GroupEntries groups entries by their first path segment below pathspec.
// Groups are sorted by key; entries keep their input order within a group.
func GroupEntries(entries []StatusEntry, pathspec string) []StatusGroup {
	prefix := ""
	if pathspec != constants.RootPathspec && pathspec != "" {
		prefix = strings.TrimSuffix(pathspec, "/") + "/"
	}

	index := make(map[string]int)
	var groups []StatusGroup
	for _, e := range entries {
		// Untracked directories keep their trailing slash, which makes them
		// group under their own name.
		rel := strings.TrimPrefix(e.Path, prefix)
		key := constants.RootPathspec
		if i := strings.IndexByte(rel, '/'); i >= 0 {
			key = rel[:i]
		}
		pos, ok := index[key]
		if !ok {
			pos = len(groups)
			index[key] = pos
			groups = append(groups, StatusGroup{Key: key})
		}
		groups[pos].Entries = append(groups[pos].Entries, e)
	}

	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

// unquotePath undoes git's C-style quoting of unusual file names.
func unquotePath(p string) string {
	if len(p) >= 2 && p[0] == '"' && p[len(p)-1] == '"' {
		if s, err := strconv.Unquote(p); err == nil {
			return s
		}
	}
	return p
}
