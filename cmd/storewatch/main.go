package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/storewatch/storewatch/internal/common/logger"
	"github.com/storewatch/storewatch/internal/common/output"
)

var (
	verbose    bool
	quiet      bool
	noColor    bool
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "storewatch",
	Short: "App Store release monitor",
	Long:  `Watches a list of App Store apps for version changes and posts Slack notifications when a release is detected.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Configure logging based on flags
		if verbose {
			logger.SetVerbose(true)
		}
		if quiet {
			logger.SetQuiet(true)
		}
		if noColor {
			output.NoColor()
		}
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-error output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (default: ~/.config/storewatch/config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
