package state

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genAppID generates numeric App Store IDs
func genAppID() gopter.Gen {
	return gen.RegexMatch(`^[1-9][0-9]{5,9}$`)
}

// genVersion generates version strings like "1.2.3"
func genVersion() gopter.Gen {
	return gen.RegexMatch(`^[0-9]{1,2}\.[0-9]{1,3}(\.[0-9]{1,3})?$`)
}

// =============================================================================
// Property-Based Tests
// =============================================================================

// TestStoreRoundTrip tests that saving and reloading yields the same mapping
func TestStoreRoundTrip(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	fixedNow := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	properties.Property("Set then reload returns identical mapping", prop.ForAll(
		func(appIDs []string, version string) bool {
			tmpDir := t.TempDir()

			store, err := NewStore(tmpDir, WithNowFunc(func() time.Time { return fixedNow }))
			if err != nil {
				t.Logf("Failed to create store: %v", err)
				return false
			}

			for _, id := range appIDs {
				if err := store.Set(id, version); err != nil {
					t.Logf("Failed to set %s: %v", id, err)
					return false
				}
			}

			reloaded, err := NewStore(tmpDir)
			if err != nil {
				t.Logf("Failed to reload store: %v", err)
				return false
			}

			if reloaded.Len() != store.Len() {
				t.Logf("Length mismatch: %d != %d", reloaded.Len(), store.Len())
				return false
			}

			for id, rec := range store.All() {
				got, ok := reloaded.Get(id)
				if !ok {
					t.Logf("Entry %s missing after reload", id)
					return false
				}
				if got.Version != rec.Version || !got.CheckedAt.Equal(rec.CheckedAt) {
					t.Logf("Entry %s mismatch: %+v != %+v", id, got, rec)
					return false
				}
			}
			return true
		},
		gen.SliceOf(genAppID()),
		genVersion(),
	))

	properties.Property("Set overwrites a previous version", prop.ForAll(
		func(appID, first, second string) bool {
			tmpDir := t.TempDir()

			store, err := NewStore(tmpDir)
			if err != nil {
				return false
			}

			if err := store.Set(appID, first); err != nil {
				return false
			}
			if err := store.Set(appID, second); err != nil {
				return false
			}

			rec, ok := store.Get(appID)
			if !ok {
				return false
			}
			return rec.Version == second && store.Len() == 1
		},
		genAppID(),
		genVersion(),
		genVersion(),
	))

	properties.TestingRun(t)
}

// =============================================================================
// Unit Tests
// =============================================================================

// TestNewStoreCreatesDirectory tests that NewStore creates the state directory
func TestNewStoreCreatesDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	stateDir := filepath.Join(tmpDir, "subdir", "storewatch")

	store, err := NewStore(stateDir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	info, err := os.Stat(stateDir)
	if err != nil {
		t.Fatalf("State directory not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("Expected directory, got file")
	}

	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d entries", store.Len())
	}
}

// TestNewStoreLoadsExisting tests that NewStore loads an existing state file
func TestNewStoreLoadsExisting(t *testing.T) {
	tmpDir := t.TempDir()

	stateData := `{
		"apps": {
			"544007664": {
				"version": "19.29.1",
				"checked_at": "2026-08-29T12:00:00Z"
			}
		}
	}`
	if err := os.WriteFile(filepath.Join(tmpDir, "versions.json"), []byte(stateData), 0644); err != nil {
		t.Fatalf("Failed to write state file: %v", err)
	}

	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	rec, exists := store.Get("544007664")
	if !exists {
		t.Fatal("Expected entry to exist")
	}
	if rec.Version != "19.29.1" {
		t.Errorf("Expected version '19.29.1', got %q", rec.Version)
	}
}

// TestNewStoreHandlesCorruptedFile tests recovery from a corrupt state file
func TestNewStoreHandlesCorruptedFile(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, "versions.json"), []byte("{invalid json"), 0644); err != nil {
		t.Fatalf("Failed to write state file: %v", err)
	}

	// Should not return error, just start with an empty mapping
	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if store.Len() != 0 {
		t.Errorf("Expected empty store after corruption, got %d entries", store.Len())
	}

	// The corrupted file is overwritten on the next save
	if err := store.Set("835599320", "42.0"); err != nil {
		t.Fatalf("Set failed after corruption: %v", err)
	}

	reloaded, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := reloaded.Get("835599320"); !ok {
		t.Error("Expected entry to survive reload after corruption recovery")
	}
}

// TestStoreGetMiss tests Get returns false for a never-observed app
func TestStoreGetMiss(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, ok := store.Get("389801252"); ok {
		t.Error("Expected miss for never-observed app")
	}
}

// TestStoreSetStampsTime tests that Set records the observation time
func TestStoreSetStampsTime(t *testing.T) {
	fixedNow := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	store, err := NewStore(t.TempDir(), WithNowFunc(func() time.Time { return fixedNow }))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := store.Set("544007664", "19.29.1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	rec, ok := store.Get("544007664")
	if !ok {
		t.Fatal("Expected entry to exist")
	}
	if !rec.CheckedAt.Equal(fixedNow) {
		t.Errorf("Expected checked_at %v, got %v", fixedNow, rec.CheckedAt)
	}
}

// TestStoreDelete tests Delete removes an entry and persists
func TestStoreDelete(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := store.Set("544007664", "1.0"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete("544007664"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	reloaded, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if reloaded.Len() != 0 {
		t.Errorf("Expected empty store after delete, got %d entries", reloaded.Len())
	}
}

// TestStoreClear tests Clear resets the mapping and persists
func TestStoreClear(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, id := range []string{"544007664", "389801252", "835599320"} {
		if err := store.Set(id, "1.0"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	reloaded, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if reloaded.Len() != 0 {
		t.Errorf("Expected empty store after clear, got %d entries", reloaded.Len())
	}
}

// TestStoreSaveLeavesNoTempFile tests that the atomic write cleans up
func TestStoreSaveLeavesNoTempFile(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewStore(tmpDir)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := store.Set("544007664", "1.0"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := os.Stat(store.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("Temporary state file should not remain after save")
	}
	if _, err := os.Stat(store.Path()); err != nil {
		t.Errorf("State file should exist after save: %v", err)
	}
}
