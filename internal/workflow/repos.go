package workflow

import (
	"strings"

	"github.com/mrz1836/syncgit/internal/git"
	"github.com/mrz1836/syncgit/internal/tui"
)

// ChildSummary is the reportable form of a scanned child repository.
type ChildSummary struct {
	Name   string   `json:"name"`
	Path   string   `json:"path"`
	Branch string   `json:"branch,omitempty"`
	Flags  []string `json:"flags"`
	Error  string   `json:"error,omitempty"`
}

// SummarizeChildren converts scan results for reporting.
func SummarizeChildren(children []git.ChildRepo) []ChildSummary {
	out := make([]ChildSummary, 0, len(children))
	for _, c := range children {
		s := ChildSummary{
			Name:   c.Name,
			Path:   c.Path,
			Branch: c.Branch,
			Flags:  c.Flags(),
		}
		if c.Detached && c.Err == nil {
			s.Branch = "(detached)"
		}
		if c.Err != nil {
			s.Error = c.Err.Error()
		}
		out = append(out, s)
	}
	return out
}

// RenderChildren prints one row per child repository.
func RenderChildren(out tui.Output, children []git.ChildRepo) {
	rows := make([][]string, 0, len(children))
	for _, s := range SummarizeChildren(children) {
		flags := make([]string, 0, len(s.Flags))
		for _, f := range s.Flags {
			flags = append(flags, tui.Title(f))
		}
		rows = append(rows, []string{s.Name, s.Branch, strings.Join(flags, ", ")})
	}
	out.Table([]string{"REPOSITORY", "BRANCH", "STATE"}, rows)
}
