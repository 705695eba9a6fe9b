package constants

// Log file names.
const (
	// CLILogFileName is the name of the global CLI log file.
	// This file is located in ~/.syncgit/logs/syncgit.log
	CLILogFileName = "syncgit.log"

	// HomeEnv overrides the syncgit home directory (default ~/.syncgit).
	HomeEnv = "SYNCGIT_HOME"

	// SessionLockName is the lock file held inside the git metadata
	// directory while a session runs.
	SessionLockName = "syncgit.lock"
)

// Log rotation settings for the CLI log file.
const (
	// LogMaxSizeMB is the size at which the log file is rotated.
	LogMaxSizeMB = 10

	// LogMaxBackups is the number of rotated files kept.
	LogMaxBackups = 3

	// LogMaxAgeDays is how long rotated files are kept.
	LogMaxAgeDays = 28

	// LogCompress gzips rotated files.
	LogCompress = true
)

// Configuration file names.
const (
	// GlobalConfigName is the name of the global syncgit configuration file.
	// This file is located in the syncgit home directory.
	GlobalConfigName = "config.yaml"

	// ProjectConfigName is the name of the repository-specific configuration file.
	// This file is located in the repository root.
	ProjectConfigName = ".syncgit.yaml"

	// IgnoreFileName is the ignore file syncgit writes for newly published repositories.
	IgnoreFileName = ".gitignore"
)

// Pull strategies accepted by sync.pull_strategy.
const (
	// PullRebase replays local commits on top of the upstream (default).
	PullRebase = "rebase"

	// PullMerge creates a merge commit when histories diverge.
	PullMerge = "merge"

	// PullFastForwardOnly refuses to reconcile diverged histories.
	PullFastForwardOnly = "ff-only"
)

// PullStrategies lists every accepted pull strategy.
//
//nolint:gochecknoglobals // read-only lookup table
var PullStrategies = []string{PullRebase, PullMerge, PullFastForwardOnly}
