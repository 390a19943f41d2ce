// Package cmd provides the command-line interface of vcnoc.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vcnoc",
	Short: "vcnoc simulates a virtual channel router cycle by cycle.",
	Long: `vcnoc simulates a virtual channel router cycle by cycle. A YAML ` +
		`file describes the ports of the router, the strategies it uses ` +
		`and the packets that the neighbors inject.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
