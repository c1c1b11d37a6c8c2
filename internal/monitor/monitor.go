package monitor

import (
	"context"
	"errors"
	"time"

	"github.com/storewatch/storewatch/internal/appstore"
	"github.com/storewatch/storewatch/internal/common/logger"
	"github.com/storewatch/storewatch/internal/state"
)

// DefaultInterval is the delay between cycles when none is configured.
const DefaultInterval = 4 * time.Hour

// CatalogClient fetches current metadata for one tracked app.
type CatalogClient interface {
	Lookup(ctx context.Context, appID string) (*appstore.AppRecord, error)
}

// Notifier delivers a message for one observed version change.
// prevVersion is "" for a first observation.
type Notifier interface {
	Notify(ctx context.Context, rec *appstore.AppRecord, prevVersion string) error
}

// Update describes one detected version change within a cycle.
type Update struct {
	// AppID is the tracked app's identifier
	AppID string
	// Name is the app's display name
	Name string
	// OldVersion is the previously persisted version ("" when first seen)
	OldVersion string
	// NewVersion is the newly observed version
	NewVersion string
	// FirstSeen is true when the app had no persisted version
	FirstSeen bool
	// Notified is true when the notification was delivered
	Notified bool
}

// CycleResult summarizes one pass over the watchlist.
type CycleResult struct {
	// Checked is the number of apps whose fetch succeeded
	Checked int
	// Skipped is the number of apps skipped due to fetch failures
	Skipped int
	// Updates lists the detected version changes
	Updates []Update
}

// Monitor runs the polling schedule: fetch, compare, notify, persist, sleep.
// Entities are processed sequentially in watchlist order, which trivially
// respects the lookup API's rate limits.
type Monitor struct {
	client    CatalogClient
	store     *state.Store
	notifier  Notifier
	watchlist *Watchlist

	interval        time.Duration
	notifyFirstSeen bool
	dryRun          bool
}

// MonitorOption is a functional option for configuring Monitor
type MonitorOption func(*Monitor)

// WithInterval sets the delay between cycles
func WithInterval(interval time.Duration) MonitorOption {
	return func(m *Monitor) {
		if interval > 0 {
			m.interval = interval
		}
	}
}

// WithNotifyFirstSeen controls whether a never-before-seen app triggers a
// notification on its first successful observation
func WithNotifyFirstSeen(notify bool) MonitorOption {
	return func(m *Monitor) {
		m.notifyFirstSeen = notify
	}
}

// WithDryRun reports detected changes without notifying or persisting
func WithDryRun(dryRun bool) MonitorOption {
	return func(m *Monitor) {
		m.dryRun = dryRun
	}
}

// New creates a monitor over the given collaborators.
func New(client CatalogClient, store *state.Store, notifier Notifier, watchlist *Watchlist, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		client:    client,
		store:     store,
		notifier:  notifier,
		watchlist: watchlist,
		interval:  DefaultInterval,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Run cycles until ctx is cancelled. There is no other terminal state; the
// loop is meant to run unattended and treats no error as fatal.
func (m *Monitor) Run(ctx context.Context) error {
	logger.Info("Monitoring %d app(s), checking every %s", len(m.watchlist.AppIDs), m.interval)

	for {
		result := m.RunCycle(ctx)
		logger.Info("Cycle complete: %d checked, %d skipped, %d update(s)",
			result.Checked, result.Skipped, len(result.Updates))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.interval):
		}
	}
}

// RunCycle performs one pass over the watchlist in configured order.
// Per-app failures never abort the cycle: a transient fetch error or a
// missing catalog entry logs and skips that app, and a failed notification
// still persists the new version so the change is not re-announced on every
// later cycle.
func (m *Monitor) RunCycle(ctx context.Context) CycleResult {
	var result CycleResult

	for _, appID := range m.watchlist.AppIDs {
		if ctx.Err() != nil {
			return result
		}

		rec, err := m.client.Lookup(ctx, appID)
		if err != nil {
			result.Skipped++
			if errors.Is(err, appstore.ErrAppNotFound) {
				logger.Warn("No catalog entry for app %s, skipping", appID)
			} else {
				logger.Warn("Fetch failed for app %s, retrying next cycle: %v", appID, err)
			}
			continue
		}
		result.Checked++

		prev, seen := m.store.Get(appID)
		if seen && prev.Version == rec.Version {
			logger.Debug("No update for %s (still v%s)", rec.Name, rec.Version)
			continue
		}

		upd := Update{
			AppID:      appID,
			Name:       rec.Name,
			OldVersion: prev.Version,
			NewVersion: rec.Version,
			FirstSeen:  !seen,
		}

		if seen {
			logger.Info("Update found for %s: %s → %s", rec.Name, prev.Version, rec.Version)
		} else {
			logger.Info("First observation for %s: v%s", rec.Name, rec.Version)
		}

		if m.dryRun {
			result.Updates = append(result.Updates, upd)
			continue
		}

		if seen || m.notifyFirstSeen {
			if err := m.notifier.Notify(ctx, rec, prev.Version); err != nil {
				logger.Error("Notification failed for %s: %v", rec.Name, err)
			} else {
				upd.Notified = true
			}
		}

		// Persist even when delivery failed: a transient Slack outage must
		// not cause a re-notification storm on every later cycle.
		if err := m.store.Set(appID, rec.Version); err != nil {
			logger.Error("Failed to persist version for %s: %v", rec.Name, err)
		}

		result.Updates = append(result.Updates, upd)
	}

	return result
}
