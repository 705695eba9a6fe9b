package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrz1836/syncgit/internal/tui"
)

// AddVersionCommand adds the version command.
func AddVersionCommand(root *cobra.Command, flags *GlobalFlags, info BuildInfo) {
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the syncgit version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if flags.Output == OutputJSON {
				return tui.NewOutput(cmd.OutOrStdout(), OutputJSON).JSON(info)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "syncgit "+formatVersion(info))
			return err
		},
	})
}
