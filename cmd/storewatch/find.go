package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/storewatch/storewatch/internal/appstore"
	"github.com/storewatch/storewatch/internal/common/logger"
	"github.com/storewatch/storewatch/internal/common/output"
)

// findLimit caps the number of search results shown
var findLimit int

var findCmd = &cobra.Command{
	Use:   "find <name>...",
	Short: "Search the App Store for app IDs",
	Long: `Search the App Store by name to discover app IDs for the watchlist.

Examples:
  storewatch find Remini
  storewatch find photo editor --limit 10`,
	Args: cobra.MinimumNArgs(1),
	Run:  runFind,
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <app-id>",
	Short: "Validate an app ID",
	Long: `Fetch the current metadata for one app ID to confirm it resolves.

Example:
  storewatch lookup 544007664`,
	Args: cobra.ExactArgs(1),
	Run:  runLookup,
}

func init() {
	findCmd.Flags().IntVar(&findLimit, "limit", appstore.DefaultSearchLimit, "Maximum number of results")

	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(lookupCmd)
}

func runFind(cmd *cobra.Command, args []string) {
	term := strings.Join(args, " ")
	client := appstore.NewClient()

	results, err := client.Search(context.Background(), term, findLimit)
	if err != nil {
		logger.Error("search failed: %v", err)
		os.Exit(1)
	}

	if len(results) == 0 {
		logger.Info("No results for %q", term)
		return
	}

	fmt.Println()
	output.Header.Printf("Results for %q\n", term)
	fmt.Println()

	for i, res := range results {
		output.App.Printf("  %d. %s\n", i+1, res.Name)
		fmt.Printf("     Developer: %s\n", res.Developer)
		fmt.Printf("     App ID:    %s\n", res.AppID)
		fmt.Printf("     Version:   %s\n", res.Version)
		fmt.Println()
	}

	output.Info.Println("Add an ID to apps.toml to start watching it")
}

func runLookup(cmd *cobra.Command, args []string) {
	appID := args[0]
	client := appstore.NewClient()

	rec, err := client.Lookup(context.Background(), appID)
	if err != nil {
		logger.Error("lookup failed for %s: %v", appID, err)
		os.Exit(1)
	}

	output.PrintSuccess("Valid app found")
	output.App.Printf("  %s\n", rec.Name)
	fmt.Printf("    Developer: %s\n", rec.Developer)
	fmt.Printf("    Version:   %s\n", rec.Version)
	fmt.Printf("    Updated:   %s\n", formatUpdated(rec.Updated))
	if rec.StoreURL != "" {
		fmt.Printf("    URL:       %s\n", rec.StoreURL)
	}
}
