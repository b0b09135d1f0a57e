// Command cmsctl administers the portfolio content store from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "cmsctl",
	Short:         "Portfolio CMS admin tool",
	Long:          "cmsctl exports, imports, restores and discards the locally edited portfolio content in the configured storage.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "Directory containing config.yaml")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
