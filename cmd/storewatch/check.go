package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/storewatch/storewatch/internal/common/logger"
	"github.com/storewatch/storewatch/internal/common/output"
	"github.com/storewatch/storewatch/internal/monitor"
)

// checkDryRun skips notifications and persistence
var checkDryRun bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run one check cycle now",
	Long: `Run a single pass over the watchlist immediately.

Examples:
  storewatch check            Check all watched apps, notify and persist
  storewatch check --dry-run  Report what would change without side effects`,
	Run: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkDryRun, "dry-run", false, "Detect changes without notifying or persisting")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		logger.Error("loading config: %v", err)
		os.Exit(1)
	}

	m, err := buildMonitor(cfg, checkDryRun)
	if err != nil {
		logger.Error("initializing monitor: %v", err)
		os.Exit(1)
	}

	result := m.RunCycle(context.Background())
	displayCycleResult(result)
}

// displayCycleResult formats and displays one cycle's outcome
func displayCycleResult(result monitor.CycleResult) {
	fmt.Println()
	output.Header.Println("Check Results")
	fmt.Println()

	for _, upd := range result.Updates {
		switch {
		case upd.FirstSeen:
			output.Info.Printf("  %s: now tracking at v%s\n", upd.Name, upd.NewVersion)
		default:
			output.Success.Printf("  %s: %s → %s\n", upd.Name, upd.OldVersion, upd.NewVersion)
		}
		if !upd.Notified && !upd.FirstSeen && !checkDryRun {
			output.Warning.Printf("    (notification failed, see log)\n")
		}
	}

	fmt.Println()
	if len(result.Updates) > 0 {
		output.Info.Printf("Found %d update(s) across %d app(s)\n", len(result.Updates), result.Checked)
	} else {
		output.Success.Printf("All %d app(s) are unchanged\n", result.Checked)
	}
	if result.Skipped > 0 {
		output.Warning.Printf("%d app(s) skipped due to fetch errors\n", result.Skipped)
	}
	if checkDryRun {
		output.Dim.Println("Dry run: nothing was notified or persisted")
	}
}
