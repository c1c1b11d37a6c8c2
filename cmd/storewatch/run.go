package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/storewatch/storewatch/internal/common/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the monitor loop",
	Long: `Run the monitoring loop until interrupted.

Each cycle checks every watched app against the App Store, posts a Slack
notification for detected version changes, and persists the new versions.
The loop sleeps for the configured interval between cycles and stops
cleanly on SIGINT or SIGTERM.`,
	Run: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		logger.Error("loading config: %v", err)
		os.Exit(1)
	}

	if cfg.Log.Verbose {
		logger.SetVerbose(true)
	}

	m, err := buildMonitor(cfg, false)
	if err != nil {
		logger.Error("initializing monitor: %v", err)
		os.Exit(1)
	}

	if err := logger.Default().EnableFileLogging(); err != nil {
		logger.Warn("File logging disabled: %v", err)
	}
	defer logger.Default().Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := m.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("monitor stopped: %v", err)
		os.Exit(1)
	}

	logger.Info("Shutting down")
}
