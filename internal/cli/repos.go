package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mrz1836/syncgit/internal/config"
	"github.com/mrz1836/syncgit/internal/errors"
	"github.com/mrz1836/syncgit/internal/git"
	"github.com/mrz1836/syncgit/internal/tui"
	"github.com/mrz1836/syncgit/internal/workflow"
)

// AddReposCommand adds the repos command to the root command.
func AddReposCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(&cobra.Command{
		Use:   "repos [dir]",
		Short: "List the repositories directly below a directory",
		Long: `List every repository directly below dir (default: the current directory)
with its branch and state: dirty, ahead N, behind N, no upstream or in sync.

The scan only reads; nothing is fetched or changed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := ""
			if len(args) == 1 {
				dir = args[0]
			}
			return runRepos(cmd.Context(), cmd, cmd.OutOrStdout(), flags, dir)
		},
	})
}

func runRepos(ctx context.Context, cmd *cobra.Command, w io.Writer, flags *GlobalFlags, dir string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	logger := GetLogger()
	tui.CheckNoColor()
	out := tui.NewOutput(w, flags.Output)

	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return reportError(cmd, flags, out, errors.Wrap(err, "failed to resolve working directory"))
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return reportError(cmd, flags, out, errors.Wrapf(err, "failed to resolve %s", dir))
	}
	if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
		return errors.NewExitCode2Error(errors.Wrap(errors.ErrNotDirectory, dir))
	}

	cfg, err := config.Load(ctx, "")
	if err != nil {
		return reportError(cmd, flags, out, err)
	}

	children, err := git.ScanChildren(ctx, dir, cfg.Scan.Concurrency, func(path string) git.CommandRunner {
		return git.NewExecRunner(path, git.WithLogger(logger))
	})
	if err != nil {
		return reportError(cmd, flags, out, err)
	}
	logger.Debug().Str("dir", dir).Int("repositories", len(children)).Msg("scan finished")

	if flags.Output == OutputJSON {
		return out.JSON(workflow.SummarizeChildren(children))
	}
	if len(children) == 0 {
		out.Info("No repositories directly below " + dir)
		return nil
	}
	workflow.RenderChildren(out, children)
	return nil
}
