// Package constants provides centralized constant values used throughout syncgit.
// This package is the single source of truth for all shared constants and MUST NOT
// import any other internal packages.
package constants

import "time"

// Directory names and paths used by syncgit.
const (
	// SyncgitHome is the hidden directory in the user's home that holds
	// the global config and logs.
	SyncgitHome = ".syncgit"

	// LogsDir is the directory name where log files are stored.
	LogsDir = "logs"
)

// Git defaults.
const (
	// DefaultRemote is the remote syncgit publishes to unless configured otherwise.
	DefaultRemote = "origin"

	// GitDir is the metadata entry whose presence marks a repository root.
	// It may be a directory or, for worktrees and submodules, a file.
	GitDir = ".git"

	// MergeHeadFile is the marker git writes while a merge is in progress.
	MergeHeadFile = "MERGE_HEAD"

	// RootPathspec is the pathspec used when the operator is at the repository root.
	RootPathspec = "."

	// UnknownRepoName is the display name used when nothing better can be derived.
	UnknownRepoName = "unknown"

	// IncomingPreviewLimit caps the incoming commits shown before a pull.
	IncomingPreviewLimit = 5
)

// Credential handling.
const (
	// AuthTokenEnv is the environment variable the credential helper reads.
	// It is set only on the environment of authenticated git invocations.
	AuthTokenEnv = "SYNCGIT_AUTH_TOKEN" //nolint:gosec // env var name, not a credential

	// CredentialUsername is the username reported by the credential helper.
	// GitHub accepts any non-empty username alongside a token.
	CredentialUsername = "x-access-token"
)

// Network probe defaults.
const (
	// DefaultProbeAddress is a well-known DNS resolver used as a reachability target.
	DefaultProbeAddress = "8.8.8.8:53"

	// DefaultProbeTimeout bounds the reachability probe.
	DefaultProbeTimeout = 3 * time.Second
)

// Hosting defaults.
const (
	// DefaultHostingAPIURL is the GitHub REST API base URL.
	DefaultHostingAPIURL = "https://api.github.com/"

	// DefaultHostingWebURL is the GitHub web base URL used to build adopted remote URLs.
	DefaultHostingWebURL = "https://github.com"

	// MaxRepoNameLength is the longest repository name the hosting service accepts.
	MaxRepoNameLength = 100
)

// Scan defaults.
const (
	// DefaultScanConcurrency bounds the number of child repositories inspected at once.
	DefaultScanConcurrency = 8
)
