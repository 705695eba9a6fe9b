// Package config provides configuration management for syncgit with layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (SYNCGIT_* prefix)
//  3. Repository config (<repo>/.syncgit.yaml)
//  4. Global config (~/.syncgit/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import other internal packages.
package config

import "time"

// Config is the root configuration structure for syncgit.
type Config struct {
	// Remote is the git remote syncgit pulls from and publishes to.
	// Default: "origin"
	Remote string `yaml:"remote" mapstructure:"remote"`

	// Auth controls where the access token is looked up.
	Auth AuthConfig `yaml:"auth" mapstructure:"auth"`

	// Network controls the reachability probe run before publishing.
	Network NetworkConfig `yaml:"network" mapstructure:"network"`

	// Hosting controls the hosting API used to create missing remotes.
	Hosting HostingConfig `yaml:"hosting" mapstructure:"hosting"`

	// Sync controls how the working tree is reconciled with its upstream.
	Sync SyncConfig `yaml:"sync" mapstructure:"sync"`

	// Ignore holds the patterns written to a freshly created ignore file.
	Ignore IgnoreConfig `yaml:"ignore" mapstructure:"ignore"`

	// Scan controls the child repository listing.
	Scan ScanConfig `yaml:"scan" mapstructure:"scan"`
}

// AuthConfig contains access token settings.
// The token itself is never stored in configuration.
type AuthConfig struct {
	// TokenEnvVars is the ordered list of environment variables consulted for
	// the access token. The first non-empty value wins.
	// Default: GITHUB_TOKEN, GH_TOKEN, GIT_TOKEN
	TokenEnvVars []string `yaml:"token_env_vars" mapstructure:"token_env_vars"`
}

// NetworkConfig contains reachability probe settings.
type NetworkConfig struct {
	// ProbeAddress is the host:port dialed to decide whether the network is up.
	// Default: 8.8.8.8:53
	ProbeAddress string `yaml:"probe_address" mapstructure:"probe_address"`

	// ProbeTimeout bounds the probe dial.
	// Default: 3s
	ProbeTimeout time.Duration `yaml:"probe_timeout" mapstructure:"probe_timeout"`
}

// HostingConfig contains hosting API settings.
type HostingConfig struct {
	// APIURL is the REST API base URL.
	// Default: https://api.github.com/
	APIURL string `yaml:"api_url" mapstructure:"api_url"`

	// WebURL is the web base URL used when pointing a remote at an existing repository.
	// Default: https://github.com
	WebURL string `yaml:"web_url" mapstructure:"web_url"`

	// DefaultPrivate is the visibility preselected when creating a repository.
	// Default: true
	DefaultPrivate bool `yaml:"default_private" mapstructure:"default_private"`
}

// SyncConfig contains pull settings.
type SyncConfig struct {
	// PullStrategy is one of "rebase", "merge" or "ff-only".
	// Default: "rebase"
	PullStrategy string `yaml:"pull_strategy" mapstructure:"pull_strategy"`
}

// IgnoreConfig contains the default ignore file patterns.
type IgnoreConfig struct {
	// Patterns are written one per line to a new ignore file.
	Patterns []string `yaml:"patterns" mapstructure:"patterns"`
}

// ScanConfig contains child repository scan settings.
type ScanConfig struct {
	// Concurrency bounds how many child repositories are inspected at once.
	// Default: 8, Valid range: 1-64
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}
