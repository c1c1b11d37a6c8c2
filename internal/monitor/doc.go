// Package monitor drives the App Store version checking loop.
//
// The package implements:
//   - Watchlist loading from a TOML file listing tracked app IDs
//   - Sequential per-cycle checks against the iTunes lookup API
//   - Change detection against the persisted last-seen version state
//   - Slack notification dispatch on detected changes
//
// One cycle walks the watchlist in order, fetching each app's metadata and
// comparing its version against the state store. Transient fetch failures
// skip the app for the cycle; the next scheduled cycle is the retry. When a
// change is detected the notifier runs first and the new version is then
// persisted unconditionally, so a Slack outage never causes repeated
// re-notification once the channel recovers.
//
// Usage:
//
//	m := monitor.New(client, store, notifier, watchlist,
//	    monitor.WithInterval(4*time.Hour))
//	if err := m.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package monitor
