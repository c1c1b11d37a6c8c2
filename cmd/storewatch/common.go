package main

import (
	"time"

	"github.com/storewatch/storewatch/internal/appstore"
	"github.com/storewatch/storewatch/internal/common/config"
	"github.com/storewatch/storewatch/internal/monitor"
	"github.com/storewatch/storewatch/internal/notify"
	"github.com/storewatch/storewatch/internal/state"
)

// loadConfig reads the app config, honoring the --config flag.
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadFrom(configFile)
	}
	return config.Load()
}

// buildMonitor wires the catalog client, state store and Slack notifier
// from configuration.
func buildMonitor(cfg *config.Config, dryRun bool) (*monitor.Monitor, error) {
	token, err := cfg.SlackToken()
	if err != nil && !dryRun {
		return nil, err
	}
	channel, err := cfg.SlackChannel()
	if err != nil && !dryRun {
		return nil, err
	}

	watchlistPath, err := cfg.WatchlistPath()
	if err != nil {
		return nil, err
	}
	watchlist, err := monitor.LoadWatchlist(watchlistPath)
	if err != nil {
		return nil, err
	}
	if err := watchlist.Validate(); err != nil {
		return nil, err
	}

	stateDir, err := cfg.StateDir()
	if err != nil {
		return nil, err
	}
	store, err := state.NewStore(stateDir)
	if err != nil {
		return nil, err
	}

	client := appstore.NewClient()
	notifier := notify.NewSlackNotifier(token, channel)

	return monitor.New(client, store, notifier, watchlist,
		monitor.WithInterval(cfg.Interval()),
		monitor.WithNotifyFirstSeen(cfg.Monitor.NotifyFirstSeen),
		monitor.WithDryRun(dryRun),
	), nil
}

// formatUpdated renders an update timestamp, or a dash when unknown.
func formatUpdated(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04 UTC")
}
