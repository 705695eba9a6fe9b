package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/syncgit/internal/config"
	"github.com/mrz1836/syncgit/internal/constants"
	"github.com/mrz1836/syncgit/internal/errors"
	"github.com/mrz1836/syncgit/internal/git"
	"github.com/mrz1836/syncgit/internal/signal"
	"github.com/mrz1836/syncgit/internal/tui"
	"github.com/mrz1836/syncgit/internal/workflow"
)

// syncOptions are the flags of the sync run.
type syncOptions struct {
	message      string
	yes          bool
	dryRun       bool
	remote       string
	pullStrategy string
}

func addSyncFlags(cmd *cobra.Command, opts *syncOptions) {
	cmd.Flags().StringVarP(&opts.message, "message", "m", "", "commit message (skips the prompt)")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "accept every confirmation with its default answer")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show the changes that would be committed and stop")
	cmd.Flags().StringVar(&opts.remote, "remote", "", "remote to pull from and publish to (default from config)")
	cmd.Flags().StringVar(&opts.pullStrategy, "pull-strategy", "",
		"how to reconcile with the upstream ("+strings.Join(constants.PullStrategies, "|")+")")
}

// runSync executes one sync session for the working directory.
func runSync(ctx context.Context, cmd *cobra.Command, w io.Writer, flags *GlobalFlags, opts *syncOptions) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if opts.pullStrategy != "" && !slices.Contains(constants.PullStrategies, opts.pullStrategy) {
		return errors.NewExitCode2Error(fmt.Errorf("%w: --pull-strategy %q must be one of %v",
			errors.ErrConfigInvalidSync, opts.pullStrategy, constants.PullStrategies))
	}

	sigHandler := signal.NewHandler(ctx)
	defer sigHandler.Stop()
	ctx = sigHandler.Context()

	logger := GetLogger()
	tui.CheckNoColor()
	out := tui.NewOutput(w, flags.Output)

	wd, err := os.Getwd()
	if err != nil {
		return reportError(cmd, flags, out, errors.Wrap(err, "failed to resolve working directory"))
	}

	// Outside a repository only the global layer applies.
	root, rootErr := git.FindRoot(wd)
	if rootErr != nil {
		root = ""
	}

	cfg, err := config.LoadWithOverrides(ctx, root, &config.Config{
		Remote: opts.remote,
		Sync:   config.SyncConfig{PullStrategy: opts.pullStrategy},
	})
	if err != nil {
		return reportError(cmd, flags, out, err)
	}

	if root != "" && flags.Output == OutputText {
		name := git.DeriveName(ctx, git.NewExecRunner(root), cfg.Remote)
		_, _ = fmt.Fprintln(w, tui.RenderBanner(name, tui.GetTerminalWidth()))
	}

	prompter := selectPrompter(opts.yes, flags.Output, os.Stdin, cmd.ErrOrStderr())
	svc := workflow.NewServices(cfg, logger, out, prompter)

	result, err := workflow.NewOrchestrator(svc).Run(ctx, workflow.Options{
		WorkDir: wd,
		Message: opts.message,
		DryRun:  opts.dryRun,
	})
	if sig := sigHandler.Received(); sig != nil {
		logger.Warn().Str("signal", sig.String()).Msg("run interrupted")
		out.Warning("Interrupted, no further changes were made")
		result = &workflow.Result{Outcome: workflow.OutcomeCanceled}
		err = nil
	}
	if err != nil {
		return reportError(cmd, flags, out, err)
	}

	logger.Info().Stringer("outcome", result.Outcome).Msg("sync finished")
	if flags.Output == OutputJSON {
		return out.JSON(result)
	}
	return nil
}

// selectPrompter picks how questions are asked: defaults with --yes, huh
// forms on an interactive terminal, plain lines otherwise.
func selectPrompter(yes bool, format string, in *os.File, promptOut io.Writer) tui.Prompter {
	switch {
	case yes:
		return tui.AutoPrompter{}
	case format == OutputText && tui.IsTerminal(in) && tui.IsTerminal(os.Stdout):
		return tui.NewHuhPrompter()
	default:
		return tui.NewLinePrompter(in, promptOut)
	}
}

// reportError prints err for the operator and returns the error that sets
// the exit code. Cobra's own error printing is silenced.
func reportError(cmd *cobra.Command, flags *GlobalFlags, out tui.Output, err error) error {
	cmd.SilenceErrors = true
	actionable := tui.FromError(err)

	if flags.Output == OutputJSON {
		out.Error(actionable)
		return fmt.Errorf("%w: %w", errors.ErrJSONErrorOutput, err)
	}

	errOut := tui.NewOutput(cmd.ErrOrStderr(), OutputText)
	errOut.Error(actionable)
	if path, pathErr := LogFilePath(); pathErr == nil {
		errOut.Info(fmt.Sprintf("Details: %s (run %s)", path, RunID()))
	}
	return err
}
