package config

import (
	"slices"

	"github.com/mrz1836/syncgit/internal/constants"
)

// DefaultConfig returns a new Config with sensible default values.
// These defaults are used as the base layer that can be overridden by
// config files, environment variables, and CLI flags.
func DefaultConfig() *Config {
	return &Config{
		Remote: constants.DefaultRemote,
		Auth: AuthConfig{
			// Checked in order; GitHub CLI users usually only have GH_TOKEN.
			TokenEnvVars: DefaultTokenEnvVars(),
		},
		Network: NetworkConfig{
			ProbeAddress: constants.DefaultProbeAddress,
			ProbeTimeout: constants.DefaultProbeTimeout,
		},
		Hosting: HostingConfig{
			APIURL:         constants.DefaultHostingAPIURL,
			WebURL:         constants.DefaultHostingWebURL,
			DefaultPrivate: true,
		},
		Sync: SyncConfig{
			PullStrategy: constants.PullRebase,
		},
		Ignore: IgnoreConfig{
			Patterns: DefaultIgnorePatterns(),
		},
		Scan: ScanConfig{
			Concurrency: constants.DefaultScanConcurrency,
		},
	}
}

// DefaultTokenEnvVars returns the environment variables consulted for a token
// when none are configured.
func DefaultTokenEnvVars() []string {
	return []string{"GITHUB_TOKEN", "GH_TOKEN", "GIT_TOKEN"}
}

// DefaultIgnorePatterns returns the OS, editor and build artifacts written to
// a new ignore file.
func DefaultIgnorePatterns() []string {
	return slices.Clone(defaultIgnorePatterns)
}

//nolint:gochecknoglobals // read-only; exposed through DefaultIgnorePatterns
var defaultIgnorePatterns = []string{
	// OS
	".DS_Store",
	"Thumbs.db",
	"desktop.ini",
	// Editors
	".idea/",
	".vscode/",
	"*.swp",
	"*~",
	// Environment
	".env",
	".env.local",
	// Dependencies and build output
	"node_modules/",
	"vendor/",
	"dist/",
	"build/",
	"target/",
	"__pycache__/",
	"*.pyc",
	// Logs
	"*.log",
}
