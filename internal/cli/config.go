package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/syncgit/internal/config"
	"github.com/mrz1836/syncgit/internal/errors"
	"github.com/mrz1836/syncgit/internal/git"
	"github.com/mrz1836/syncgit/internal/tui"
)

// AddConfigCommand adds the config command and its subcommands.
func AddConfigCommand(root *cobra.Command, flags *GlobalFlags) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the syncgit configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: `Display the configuration syncgit would use here, after applying
defaults, ~/.syncgit/config.yaml, <repo>/.syncgit.yaml and SYNCGIT_* variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd.Context(), cmd, cmd.OutOrStdout(), flags)
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to ~/.syncgit/config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd.Context(), cmd, cmd.OutOrStdout(), flags, force)
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	root.AddCommand(cmd)
}

// configSources lists the files that contributed to the effective config.
type configSources struct {
	Global  string `json:"global,omitempty" yaml:"global,omitempty"`
	Project string `json:"project,omitempty" yaml:"project,omitempty"`
}

func runConfigShow(ctx context.Context, cmd *cobra.Command, w io.Writer, flags *GlobalFlags) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	out := tui.NewOutput(w, flags.Output)

	root := ""
	if wd, err := os.Getwd(); err == nil {
		if r, err := git.FindRoot(wd); err == nil {
			root = r
		}
	}

	cfg, err := config.Load(ctx, root)
	if err != nil {
		return reportError(cmd, flags, out, err)
	}

	var sources configSources
	if p, err := config.GlobalConfigPath(); err == nil && exists(p) {
		sources.Global = p
	}
	if root != "" && exists(config.ProjectConfigPath(root)) {
		sources.Project = config.ProjectConfigPath(root)
	}

	if flags.Output == OutputJSON {
		// The YAML round trip reuses the yaml tags and renders durations as text.
		values, err := yamlMap(cfg)
		if err != nil {
			return reportError(cmd, flags, out, err)
		}
		return out.JSON(map[string]any{"config": values, "sources": sources})
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return reportError(cmd, flags, out, errors.Wrap(err, "failed to encode config"))
	}
	_, _ = fmt.Fprintf(w, "# sources: %s\n", describeSources(sources))
	_, err = w.Write(data)
	return err
}

func runConfigInit(ctx context.Context, cmd *cobra.Command, w io.Writer, flags *GlobalFlags, force bool) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	out := tui.NewOutput(w, flags.Output)
	path, err := config.GlobalConfigPath()
	if err != nil {
		return reportError(cmd, flags, out, err)
	}
	if err := config.WriteFile(path, config.DefaultConfig(), force); err != nil {
		if !force && exists(path) {
			err = errors.Wrap(err, "use --force to overwrite it")
		}
		return reportError(cmd, flags, out, err)
	}

	logger := GetLogger()
	logger.Info().Str("path", path).Bool("force", force).Msg("default config written")
	out.Success("Wrote " + path)
	return nil
}

func yamlMap(cfg *config.Config) (map[string]any, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode config")
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}
	return m, nil
}

func describeSources(s configSources) string {
	switch {
	case s.Global != "" && s.Project != "":
		return s.Project + ", " + s.Global + ", defaults"
	case s.Project != "":
		return s.Project + ", defaults"
	case s.Global != "":
		return s.Global + ", defaults"
	default:
		return "defaults"
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
