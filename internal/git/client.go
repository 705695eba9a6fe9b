package git

import (
	"context"
	"strconv"
	"strings"

	"github.com/mrz1836/syncgit/internal/constants"
	syncerrors "github.com/mrz1836/syncgit/internal/errors"
)

// Client exposes the individual git operations syncgit's workflows are
// built from. Every method maps to exactly one git invocation.
type Client struct {
	runner CommandRunner
	remote string
}

// NewClient creates a client that publishes to remote.
func NewClient(runner CommandRunner, remote string) *Client {
	if remote == "" {
		remote = constants.DefaultRemote
	}
	return &Client{runner: runner, remote: remote}
}

// Runner returns the underlying command runner.
func (c *Client) Runner() CommandRunner {
	return c.runner
}

// Remote returns the configured remote name.
func (c *Client) Remote() string {
	return c.remote
}

// ShortStatus returns "git status -sb" output for display.
func (c *Client) ShortStatus(ctx context.Context) (string, error) {
	out, err := run(ctx, c.runner, "status", "-sb")
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out.Stdout), "\n"), nil
}

// Add stages everything within pathspec and nothing else.
func (c *Client) Add(ctx context.Context, pathspec string) error {
	_, err := run(ctx, c.runner, "add", "--", pathspec)
	return err
}

// StagedDiffEmpty reports whether the index matches HEAD within pathspec.
// git exits 0 for an empty diff and 1 for a non-empty one; any other
// outcome is a command failure.
func (c *Client) StagedDiffEmpty(ctx context.Context, pathspec string) (bool, error) {
	args := []string{"diff", "--cached", "--quiet", "--", pathspec}
	out, err := c.runner.Run(ctx, nil, args...)
	if err != nil {
		return false, err
	}
	switch {
	case out.Success:
		return true, nil
	case out.ExitCode == 1:
		return false, nil
	default:
		return false, out.Err(args)
	}
}

// StagedStat returns the diffstat of staged changes within pathspec.
func (c *Client) StagedStat(ctx context.Context, pathspec string) (string, error) {
	out, err := run(ctx, c.runner, "diff", "--cached", "--stat", "--", pathspec)
	if err != nil {
		return "", err
	}
	return out.Out(), nil
}

// Commit records the staged changes within pathspec. The message is passed
// as a single literal argument.
func (c *Client) Commit(ctx context.Context, message, pathspec string) error {
	_, err := run(ctx, c.runner, "commit", "-m", message, "--", pathspec)
	return err
}

// PullArgs returns the pull invocation for a strategy. Unknown strategies
// fall back to rebase.
func PullArgs(strategy string) []string {
	switch strategy {
	case constants.PullMerge:
		return []string{"pull", "--no-rebase", "--no-edit"}
	case constants.PullFastForwardOnly:
		return []string{"pull", "--ff-only"}
	default:
		return []string{"pull", "--rebase", "--autostash"}
	}
}

// Incoming lists up to limit one-line summaries of the commits branch's
// upstream has that branch does not.
func (c *Client) Incoming(ctx context.Context, branch string, limit int) (string, error) {
	out, err := run(ctx, c.runner, "log", "--oneline", "-n", strconv.Itoa(limit), branch+".."+branch+"@{u}")
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(out.Stdout), "\n"), nil
}

// Pull reconciles the current branch with its upstream using strategy.
// env carries credentials when the remote needs them.
func (c *Client) Pull(ctx context.Context, strategy string, env []string) error {
	_, err := runEnv(ctx, c.runner, env, PullArgs(strategy)...)
	return err
}

// Fetch downloads refs from the configured remote.
func (c *Client) Fetch(ctx context.Context, env []string) error {
	_, err := runEnv(ctx, c.runner, env, "fetch", c.remote)
	return err
}

// Push publishes branch to the configured remote. With setUpstream the
// remote branch becomes the upstream.
func (c *Client) Push(ctx context.Context, branch string, setUpstream bool, env []string) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "--set-upstream")
	}
	args = append(args, c.remote, branch)
	_, err := runEnv(ctx, c.runner, env, args...)
	return err
}

// SetUpstreamTo points branch at <remote>/<branch>.
func (c *Client) SetUpstreamTo(ctx context.Context, branch string) error {
	_, err := run(ctx, c.runner, "branch", "--set-upstream-to="+c.remote+"/"+branch, branch)
	return err
}

// RemoteURL returns the URL of the configured remote. ok is false when the
// remote does not exist.
func (c *Client) RemoteURL(ctx context.Context) (url string, ok bool) {
	out, err := run(ctx, c.runner, "remote", "get-url", c.remote)
	if err != nil || out.Out() == "" {
		return "", false
	}
	return out.Out(), true
}

// AddRemote creates the configured remote pointing at url.
func (c *Client) AddRemote(ctx context.Context, url string) error {
	_, err := run(ctx, c.runner, "remote", "add", c.remote, url)
	return err
}

// SetRemoteURL repoints the configured remote at url.
func (c *Client) SetRemoteURL(ctx context.Context, url string) error {
	_, err := run(ctx, c.runner, "remote", "set-url", c.remote, url)
	return err
}

// PointRemoteAt adds the remote, or repoints it when it already exists.
func (c *Client) PointRemoteAt(ctx context.Context, url string) error {
	if _, ok := c.RemoteURL(ctx); ok {
		return c.SetRemoteURL(ctx, url)
	}
	return c.AddRemote(ctx, url)
}

// ConfigGet returns a repository-local config value. ok is false when unset.
func (c *Client) ConfigGet(ctx context.Context, key string) (value string, ok bool) {
	out, err := run(ctx, c.runner, "config", "--local", "--get", key)
	if err != nil {
		return "", false
	}
	return out.Out(), true
}

// ConfigReplaceAll sets key to value in the repository config, replacing
// every existing value. Safe to repeat.
func (c *Client) ConfigReplaceAll(ctx context.Context, key, value string) error {
	if strings.TrimSpace(key) == "" {
		return syncerrors.Wrap(syncerrors.ErrEmptyValue, "config key")
	}
	_, err := run(ctx, c.runner, "config", "--local", "--replace-all", key, value)
	return err
}
