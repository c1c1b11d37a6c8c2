package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/storewatch/storewatch/internal/common/logger"
	"github.com/storewatch/storewatch/internal/common/output"
	"github.com/storewatch/storewatch/internal/state"
)

// stateClear resets the persisted version map
var stateClear bool

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect the persisted version state",
	Long: `Show the last-seen version recorded for each watched app.

Examples:
  storewatch state          List persisted versions
  storewatch state --clear  Forget all persisted versions`,
	Run: runState,
}

func init() {
	stateCmd.Flags().BoolVar(&stateClear, "clear", false, "Remove all persisted versions")

	rootCmd.AddCommand(stateCmd)
}

func runState(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		logger.Error("loading config: %v", err)
		os.Exit(1)
	}

	stateDir, err := cfg.StateDir()
	if err != nil {
		logger.Error("resolving state directory: %v", err)
		os.Exit(1)
	}

	store, err := state.NewStore(stateDir)
	if err != nil {
		logger.Error("opening state: %v", err)
		os.Exit(1)
	}

	if stateClear {
		if err := store.Clear(); err != nil {
			logger.Error("clearing state: %v", err)
			os.Exit(1)
		}
		output.PrintSuccess("Cleared persisted version state")
		return
	}

	displayState(store)
}

// displayState lists the persisted entries sorted by app ID
func displayState(store *state.Store) {
	apps := store.All()
	if len(apps) == 0 {
		logger.Info("No versions recorded yet")
		return
	}

	ids := make([]string, 0, len(apps))
	for id := range apps {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Println()
	output.Header.Println("Persisted Versions")
	fmt.Println()

	for _, id := range ids {
		rec := apps[id]
		output.App.Printf("  %s\n", id)
		fmt.Printf("    Version: %s\n", rec.Version)
		fmt.Printf("    Checked: %s\n", formatUpdated(rec.CheckedAt))
	}

	fmt.Println()
	output.Info.Printf("Total: %d app(s)\n", len(apps))
}
