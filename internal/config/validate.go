package config

import (
	"net"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/mrz1836/syncgit/internal/constants"
	"github.com/mrz1836/syncgit/internal/errors"
)

const (
	maxProbeTimeout = time.Minute
	maxConcurrency  = 64
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - remote must not be empty or contain whitespace
//   - at least one token env var must be configured, none blank
//   - probe address must be host:port, probe timeout in (0, 1m]
//   - hosting URLs must be absolute http(s) URLs
//   - pull strategy must be rebase, merge or ff-only
//   - scan concurrency must be between 1 and 64
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if strings.TrimSpace(cfg.Remote) == "" || strings.ContainsAny(cfg.Remote, " \t\r\n") {
		return errors.Wrapf(errors.ErrConfigInvalidSync,
			"remote must be a non-empty name without whitespace, got %q", cfg.Remote)
	}

	if err := validateAuthConfig(&cfg.Auth); err != nil {
		return err
	}

	if err := validateNetworkConfig(&cfg.Network); err != nil {
		return err
	}

	if err := validateHostingConfig(&cfg.Hosting); err != nil {
		return err
	}

	if !slices.Contains(constants.PullStrategies, cfg.Sync.PullStrategy) {
		return errors.Wrapf(errors.ErrConfigInvalidSync,
			"sync.pull_strategy must be one of %s, got %q",
			strings.Join(constants.PullStrategies, ", "), cfg.Sync.PullStrategy)
	}

	if cfg.Scan.Concurrency < 1 || cfg.Scan.Concurrency > maxConcurrency {
		return errors.Wrapf(errors.ErrConfigInvalidScan,
			"scan.concurrency must be between 1 and %d, got %d", maxConcurrency, cfg.Scan.Concurrency)
	}

	return nil
}

// validateAuthConfig checks auth configuration values.
func validateAuthConfig(cfg *AuthConfig) error {
	if len(cfg.TokenEnvVars) == 0 {
		return errors.Wrap(errors.ErrConfigInvalidAuth,
			"auth.token_env_vars must list at least one variable")
	}
	for _, name := range cfg.TokenEnvVars {
		if strings.TrimSpace(name) == "" {
			return errors.Wrap(errors.ErrConfigInvalidAuth,
				"auth.token_env_vars must not contain blank names")
		}
	}
	return nil
}

// validateNetworkConfig checks probe configuration values.
func validateNetworkConfig(cfg *NetworkConfig) error {
	if _, _, err := net.SplitHostPort(cfg.ProbeAddress); err != nil {
		return errors.Wrapf(errors.ErrConfigInvalidNetwork,
			"network.probe_address must be host:port, got %q", cfg.ProbeAddress)
	}
	if cfg.ProbeTimeout <= 0 || cfg.ProbeTimeout > maxProbeTimeout {
		return errors.Wrapf(errors.ErrConfigInvalidNetwork,
			"network.probe_timeout must be between 0 and %s, got %s", maxProbeTimeout, cfg.ProbeTimeout)
	}
	return nil
}

// validateHostingConfig checks hosting URL values.
func validateHostingConfig(cfg *HostingConfig) error {
	fields := []struct{ key, raw string }{
		{"hosting.api_url", cfg.APIURL},
		{"hosting.web_url", cfg.WebURL},
	}
	for _, f := range fields {
		u, err := url.Parse(f.raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.Wrapf(errors.ErrConfigInvalidHosting,
				"%s must be an absolute http(s) URL, got %q", f.key, f.raw)
		}
	}
	return nil
}
