package monitor

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Error variables for watchlist errors
var (
	// ErrWatchlistNotFound is returned when the apps.toml file does not exist
	ErrWatchlistNotFound = errors.New("watchlist file not found")
	// ErrWatchlistEmpty is returned when no app IDs are configured
	ErrWatchlistEmpty = errors.New("watchlist contains no app IDs")
	// ErrBlankAppID is returned when an entry in the watchlist is blank
	ErrBlankAppID = errors.New("watchlist contains a blank app ID")
)

// Watchlist is the configured set of tracked apps, in file order.
// IDs are opaque strings; edits require a restart.
type Watchlist struct {
	AppIDs []string `toml:"app_ids"`
}

// LoadWatchlist loads and parses the apps.toml watchlist file.
func LoadWatchlist(path string) (*Watchlist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrWatchlistNotFound, path)
		}
		return nil, fmt.Errorf("failed to read watchlist: %w", err)
	}

	var wl Watchlist
	if err := toml.Unmarshal(data, &wl); err != nil {
		return nil, fmt.Errorf("failed to parse watchlist %s: %w", path, err)
	}

	return &wl, nil
}

// SaveWatchlist writes a watchlist to path, creating a starter file.
func SaveWatchlist(path string, wl *Watchlist) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create watchlist: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(wl); err != nil {
		return fmt.Errorf("failed to encode watchlist: %w", err)
	}
	return nil
}

// Validate checks that the watchlist is usable.
func (w *Watchlist) Validate() error {
	if len(w.AppIDs) == 0 {
		return ErrWatchlistEmpty
	}
	for _, id := range w.AppIDs {
		if strings.TrimSpace(id) == "" {
			return ErrBlankAppID
		}
	}
	return nil
}
