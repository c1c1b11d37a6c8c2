package monitor

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// TestLoadWatchlistParsesAppIDs tests loading a valid watchlist
func TestLoadWatchlistParsesAppIDs(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "apps.toml")

	content := `app_ids = [
  "544007664",
  "389801252",
  "835599320",
]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write watchlist: %v", err)
	}

	wl, err := LoadWatchlist(path)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []string{"544007664", "389801252", "835599320"}
	if !reflect.DeepEqual(wl.AppIDs, want) {
		t.Errorf("Expected %v, got %v", want, wl.AppIDs)
	}
	if err := wl.Validate(); err != nil {
		t.Errorf("Valid watchlist should validate: %v", err)
	}
}

// TestLoadWatchlistMissingFile tests the missing-file error
func TestLoadWatchlistMissingFile(t *testing.T) {
	_, err := LoadWatchlist(filepath.Join(t.TempDir(), "apps.toml"))
	if !errors.Is(err, ErrWatchlistNotFound) {
		t.Errorf("Expected ErrWatchlistNotFound, got %v", err)
	}
}

// TestLoadWatchlistMalformedTOML tests that parse errors surface
func TestLoadWatchlistMalformedTOML(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "apps.toml")

	if err := os.WriteFile(path, []byte("app_ids = [unterminated"), 0644); err != nil {
		t.Fatalf("Failed to write watchlist: %v", err)
	}

	if _, err := LoadWatchlist(path); err == nil {
		t.Error("Expected error for malformed TOML")
	}
}

// TestWatchlistValidate tests the validation rules
func TestWatchlistValidate(t *testing.T) {
	tests := []struct {
		name    string
		appIDs  []string
		wantErr error
	}{
		{"empty list", nil, ErrWatchlistEmpty},
		{"blank entry", []string{"544007664", "  "}, ErrBlankAppID},
		{"valid list", []string{"544007664"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wl := &Watchlist{AppIDs: tt.appIDs}
			err := wl.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestSaveWatchlistRoundTrip tests that a saved watchlist loads back identically
func TestSaveWatchlistRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "apps.toml")

	wl := &Watchlist{AppIDs: []string{"544007664", "389801252"}}
	if err := SaveWatchlist(path, wl); err != nil {
		t.Fatalf("SaveWatchlist failed: %v", err)
	}

	loaded, err := LoadWatchlist(path)
	if err != nil {
		t.Fatalf("LoadWatchlist failed: %v", err)
	}
	if !reflect.DeepEqual(loaded.AppIDs, wl.AppIDs) {
		t.Errorf("Expected %v, got %v", wl.AppIDs, loaded.AppIDs)
	}
}
