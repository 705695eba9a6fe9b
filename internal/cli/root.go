// Package cli provides the command-line interface for syncgit.
package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/syncgit/internal/errors"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string `json:"version"`
	// Commit is the git commit hash.
	Commit string `json:"commit"`
	// Date is the build date.
	Date string `json:"date"`
}

// globalLogger stores the initialized logger for use by subcommands.
// This is set during PersistentPreRunE and should be accessed via GetLogger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalRunID    string         //nolint:gochecknoglobals // correlates output with the log file
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger and globalRunID
)

// GetLogger returns the logger set up by the root command.
//
// It MUST only be called after the root command's PersistentPreRunE has
// executed; before that it returns a zero-value logger that discards output.
// Safe for concurrent use.
func GetLogger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// RunID returns the id stamped on every log entry of this run.
func RunID() string {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalRunID
}

func setLogger(logger zerolog.Logger, runID string) {
	globalLoggerMu.Lock()
	globalLogger = logger
	globalRunID = runID
	globalLoggerMu.Unlock()
}

// newRootCmd creates the root command. Invoked without a subcommand it runs
// a sync of the current directory.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	v := viper.New()
	opts := &syncOptions{}

	cmd := &cobra.Command{
		Use:   "syncgit",
		Short: "Commit and publish the changes under the current directory",
		Long: `syncgit synchronizes a git repository with its remote in one guided pass.

Run from anywhere inside a repository: syncgit pulls, then stages and commits
only the changes under the current directory, then pushes. Commits that were
already waiting are offered for push first, and a missing remote repository
can be created on GitHub.

Outside a repository, syncgit lists the repositories directly below the
current directory.

Examples:
  syncgit                         # guided sync of the current directory
  syncgit -m "update notes"       # skip the commit message prompt
  syncgit --dry-run               # show what would be committed
  syncgit repos ~/code            # list repositories and their state`,
		Version: formatVersion(info),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSync(cmd.Context(), cmd, cmd.OutOrStdout(), flags, opts)
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd, flags); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			if !IsValidOutputFormat(flags.Output) {
				return fmt.Errorf("%w: %q must be one of %v", errors.ErrInvalidOutputFormat, flags.Output, ValidOutputFormats())
			}

			logger, runID := InitLogger(flags.Verbose, flags.Quiet)
			setLogger(logger, runID)
			logger.Debug().Str("command", cmd.CommandPath()).Str("version", info.Version).Msg("starting")

			// config.Load and friends log through zerolog.Ctx.
			cmd.SetContext(logger.WithContext(cmd.Context()))
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			CloseLogFile()
		},
		// SilenceUsage prevents printing usage on error
		// (we handle our own error messages)
		SilenceUsage: true,
	}

	AddGlobalFlags(cmd, flags)
	addSyncFlags(cmd, opts)

	AddReposCommand(cmd, flags)
	AddConfigCommand(cmd, flags)
	AddVersionCommand(cmd, flags, info)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	//nolint:contextcheck // Cobra command pattern uses cmd.Context() internally
	cmd := newRootCmd(flags, info)
	return cmd.ExecuteContext(ctx)
}
