package config

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/syncgit/internal/errors"
)

// newViperInstance creates a new Viper instance with standard syncgit configuration.
// This includes environment variable prefix (SYNCGIT_), key replacer, and defaults.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("SYNCGIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// unmarshalAndValidate unmarshals viper config into Config struct and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// repoRoot may be empty when the command runs outside a repository, in which
// case only the global file, environment and defaults apply.
//
// Missing config files are not an error.
func Load(ctx context.Context, repoRoot string) (*Config, error) {
	globalPath := ""
	if p, err := GlobalConfigPath(); err == nil && fileExists(p) {
		globalPath = p
	}
	projectPath := ""
	if repoRoot != "" && fileExists(ProjectConfigPath(repoRoot)) {
		projectPath = ProjectConfigPath(repoRoot)
	}

	cfg, err := LoadFromPaths(ctx, projectPath, globalPath)
	if err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Debug().
		Str("component", "config").
		Str("global_config", globalPath).
		Str("project_config", projectPath).
		Str("remote", cfg.Remote).
		Str("pull_strategy", cfg.Sync.PullStrategy).
		Dur("probe_timeout", cfg.Network.ProbeTimeout).
		Msg("configuration loaded")

	return cfg, nil
}

// projectProtectedSections may only come from the global file, the
// environment or flags. A repository-level file is working-tree content and
// must not choose where the access token is sent.
var projectProtectedSections = []string{"auth", "hosting"} //nolint:gochecknoglobals // fixed list

// LoadFromPaths loads configuration from specific file paths.
//
// projectConfigPath is the path to repository-level config (higher priority).
// globalConfigPath is the path to global config (lower priority).
// Either path can be empty to skip that level. The auth and hosting sections
// of the project file are ignored.
func LoadFromPaths(ctx context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}

	if projectConfigPath != "" {
		settings, ignored, err := readProjectSettings(projectConfigPath)
		if err != nil {
			return nil, err
		}
		if len(ignored) > 0 {
			zerolog.Ctx(ctx).Warn().
				Str("component", "config").
				Str("project_config", projectConfigPath).
				Strs("ignored_sections", ignored).
				Msg("project config may not set these sections, using global values")
		}
		if err := v.MergeConfigMap(settings); err != nil {
			return nil, errors.Wrapf(err, "failed to merge project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// readProjectSettings reads the repository-level file and strips the
// protected sections. A missing file yields no settings.
func readProjectSettings(path string) (settings map[string]any, ignored []string, err error) {
	pv := viper.New()
	pv.SetConfigFile(path)
	if err := pv.ReadInConfig(); err != nil {
		if isConfigNotFoundError(err) || os.IsNotExist(err) {
			return map[string]any{}, nil, nil
		}
		return nil, nil, errors.Wrapf(err, "failed to read project config: %s", path)
	}

	settings = pv.AllSettings()
	for _, section := range projectProtectedSections {
		if _, ok := settings[section]; ok {
			delete(settings, section)
			ignored = append(ignored, section)
		}
	}
	return settings, ignored, nil
}

// LoadWithOverrides loads configuration and applies CLI flag overrides.
// Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, repoRoot string, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx, repoRoot)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

// WriteFile writes cfg as YAML to path, creating parent directories.
// An existing file is left alone unless overwrite is true.
func WriteFile(path string, cfg *Config, overwrite bool) error {
	if !overwrite && fileExists(path) {
		return errors.Wrapf(os.ErrExist, "config file %s", path)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrapf(err, "failed to write config file %s", path)
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// setDefaults configures all default values on the Viper instance.
// These defaults match the values from DefaultConfig().
// IMPORTANT: Keys must match the YAML tag names exactly for proper mapping.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("remote", d.Remote)

	v.SetDefault("auth.token_env_vars", d.Auth.TokenEnvVars)

	v.SetDefault("network.probe_address", d.Network.ProbeAddress)
	v.SetDefault("network.probe_timeout", d.Network.ProbeTimeout.String())

	v.SetDefault("hosting.api_url", d.Hosting.APIURL)
	v.SetDefault("hosting.web_url", d.Hosting.WebURL)
	v.SetDefault("hosting.default_private", d.Hosting.DefaultPrivate)

	v.SetDefault("sync.pull_strategy", d.Sync.PullStrategy)

	v.SetDefault("ignore.patterns", d.Ignore.Patterns)

	v.SetDefault("scan.concurrency", d.Scan.Concurrency)
}

// applyOverrides merges non-zero override values into the config.
//
// IMPORTANT: Hosting.DefaultPrivate cannot be overridden to false here because
// the zero value is indistinguishable from "not set". The CLI handles it with
// cmd.Flags().Changed.
func applyOverrides(cfg, overrides *Config) {
	if overrides.Remote != "" {
		cfg.Remote = overrides.Remote
	}
	if len(overrides.Auth.TokenEnvVars) > 0 {
		cfg.Auth.TokenEnvVars = overrides.Auth.TokenEnvVars
	}
	if overrides.Network.ProbeAddress != "" {
		cfg.Network.ProbeAddress = overrides.Network.ProbeAddress
	}
	if overrides.Network.ProbeTimeout != 0 {
		cfg.Network.ProbeTimeout = overrides.Network.ProbeTimeout
	}
	if overrides.Sync.PullStrategy != "" {
		cfg.Sync.PullStrategy = overrides.Sync.PullStrategy
	}
	if overrides.Scan.Concurrency != 0 {
		cfg.Scan.Concurrency = overrides.Scan.Concurrency
	}
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
// Durations decode from strings like "3s"; slices accept comma-separated
// strings so SYNCGIT_AUTH_TOKEN_ENV_VARS=A,B works.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	)
}
