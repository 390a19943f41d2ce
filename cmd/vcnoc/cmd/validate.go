package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/vcnoc/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate [config.yaml]",
	Short: "Check a configuration file without running it.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		envFile, _ := cmd.Flags().GetString("env-file")

		c, err := config.Load(args[0], envFile)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(),
			"%s: %d ports, %d injections, %s routing, %s selection, %s arbiter\n",
			c.Name, len(c.Ports), len(c.Injections),
			c.Routing, c.Selection, c.Arbiter)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("env-file", ".env",
		"The file that overrides the recorder path and the monitor port.")
}
