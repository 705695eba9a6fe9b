package workflow

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mrz1836/syncgit/internal/git"
)

func TestSummarizeChildren(t *testing.T) {
	children := []git.ChildRepo{
		{Name: "api", Path: "/w/api", Branch: "main", Dirty: true, HasUpstream: true, Divergence: git.Divergence{Ahead: 2}},
		{Name: "docs", Path: "/w/docs", Branch: "HEAD", Detached: true, HasUpstream: true},
		{Name: "broken", Path: "/w/broken", Branch: "HEAD", Detached: true, Err: errors.New("git status failed")},
	}

	got := SummarizeChildren(children)
	assert.Len(t, got, 3)
	assert.Equal(t, "main", got[0].Branch)
	assert.Equal(t, children[0].Flags(), got[0].Flags)
	assert.Equal(t, "(detached)", got[1].Branch)
	assert.Equal(t, "HEAD", got[2].Branch)
	assert.Equal(t, "git status failed", got[2].Error)
}

type tableOutput struct {
	captureOutput

	headers []string
	rows    [][]string
}

func (o *tableOutput) Table(headers []string, rows [][]string) {
	o.headers, o.rows = headers, rows
}

func TestRenderChildren(t *testing.T) {
	out := &tableOutput{}
	RenderChildren(out, []git.ChildRepo{
		{Name: "api", Branch: "main", Dirty: true, HasUpstream: true},
	})

	assert.Equal(t, []string{"REPOSITORY", "BRANCH", "STATE"}, out.headers)
	assert.Equal(t, [][]string{{"api", "main", "Dirty"}}, out.rows)
}
