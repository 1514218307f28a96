// Package configcmd implements the config command.
package configcmd

import (
	"fjacquet/settle2qif/cmd/root"

	"github.com/spf13/cobra"
)

// Cmd prints the effective configuration
var Cmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration after defaults, config file and SETTLE2QIF_*
environment variables have been applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := root.GetContainer().GetConfig().ToYAML()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}
