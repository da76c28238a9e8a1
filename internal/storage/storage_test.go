package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/desertthunder/spotwatch/internal/models"
	"github.com/desertthunder/spotwatch/internal/shared"
)

func testSnapshot(ids ...string) *models.Snapshot {
	s := &models.Snapshot{
		ID:        "pl",
		Name:      "Test Playlist",
		FetchedAt: time.Now().UTC().Truncate(time.Second),
	}
	for _, id := range ids {
		s.Tracks = append(s.Tracks, models.Track{ID: id, Title: "Track " + id, Artist: "Artist"})
	}
	return s
}

func TestFilesystemStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Load Before First Save", func(t *testing.T) {
		store, err := NewFilesystemStore(t.TempDir())
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		_, err = store.Load(ctx, "pl")
		if !errors.Is(err, shared.ErrSnapshotNotFound) {
			t.Errorf("expected ErrSnapshotNotFound, got %v", err)
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		store, err := NewFilesystemStore(t.TempDir())
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		want := testSnapshot("1", "2")
		if err := store.Save(ctx, "pl", want); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		got, err := store.Load(ctx, "pl")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got.ID != want.ID || len(got.Tracks) != 2 {
			t.Errorf("expected snapshot %s with 2 tracks, got %s with %d", want.ID, got.ID, len(got.Tracks))
		}
		if got.Tracks[0].ID != "1" || got.Tracks[1].ID != "2" {
			t.Errorf("track order not preserved: %v", got.Tracks)
		}
	})

	t.Run("Save Overwrites Baseline", func(t *testing.T) {
		store, err := NewFilesystemStore(t.TempDir())
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		if err := store.Save(ctx, "pl", testSnapshot("1")); err != nil {
			t.Fatalf("first save failed: %v", err)
		}
		if err := store.Save(ctx, "pl", testSnapshot("1", "2", "3")); err != nil {
			t.Fatalf("second save failed: %v", err)
		}

		got, err := store.Load(ctx, "pl")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(got.Tracks) != 3 {
			t.Errorf("expected overwritten snapshot with 3 tracks, got %d", len(got.Tracks))
		}
	})

	t.Run("Empty Snapshot Persists", func(t *testing.T) {
		store, err := NewFilesystemStore(t.TempDir())
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		if err := store.Save(ctx, "pl", testSnapshot()); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		got, err := store.Load(ctx, "pl")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(got.Tracks) != 0 {
			t.Errorf("expected empty snapshot, got %d tracks", len(got.Tracks))
		}
	})

	t.Run("No Temp Files Left Behind", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewFilesystemStore(dir)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		if err := store.Save(ctx, "pl", testSnapshot("1")); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		matches, err := filepath.Glob(filepath.Join(dir, "*.tmp"))
		if err != nil {
			t.Fatalf("glob failed: %v", err)
		}
		if len(matches) != 0 {
			t.Errorf("expected no temp files, found %v", matches)
		}
	})

	t.Run("Corrupt File Is IO Error", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewFilesystemStore(dir)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		if err := os.WriteFile(filepath.Join(dir, "pl.json"), []byte("{not json"), 0644); err != nil {
			t.Fatalf("failed to plant corrupt file: %v", err)
		}

		_, err = store.Load(ctx, "pl")
		if !errors.Is(err, shared.ErrStoreIO) {
			t.Errorf("expected ErrStoreIO, got %v", err)
		}
	})
}

func TestSQLiteStore(t *testing.T) {
	ctx := context.Background()

	newStore := func(t *testing.T) *SQLiteStore {
		t.Helper()
		store, err := NewSQLiteStore(":memory:")
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		t.Cleanup(func() { store.Close() })
		return store
	}

	t.Run("Load Before First Save", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Load(ctx, "pl")
		if !errors.Is(err, shared.ErrSnapshotNotFound) {
			t.Errorf("expected ErrSnapshotNotFound, got %v", err)
		}
	})

	t.Run("Round Trip", func(t *testing.T) {
		store := newStore(t)

		if err := store.Save(ctx, "pl", testSnapshot("1", "2")); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		got, err := store.Load(ctx, "pl")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(got.Tracks) != 2 || got.Name != "Test Playlist" {
			t.Errorf("unexpected snapshot: %+v", got)
		}
	})

	t.Run("Upsert Overwrites", func(t *testing.T) {
		store := newStore(t)

		if err := store.Save(ctx, "pl", testSnapshot("1")); err != nil {
			t.Fatalf("first save failed: %v", err)
		}
		if err := store.Save(ctx, "pl", testSnapshot("2", "3")); err != nil {
			t.Fatalf("second save failed: %v", err)
		}

		got, err := store.Load(ctx, "pl")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(got.Tracks) != 2 || got.Tracks[0].ID != "2" {
			t.Errorf("expected upserted snapshot [2 3], got %+v", got.Tracks)
		}
	})

	t.Run("Keys Are Independent", func(t *testing.T) {
		store := newStore(t)

		if err := store.Save(ctx, "a", testSnapshot("1")); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		if err := store.Save(ctx, "b", testSnapshot("2")); err != nil {
			t.Fatalf("save failed: %v", err)
		}

		got, err := store.Load(ctx, "a")
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got.Tracks[0].ID != "1" {
			t.Errorf("expected key a to hold track 1, got %v", got.Tracks)
		}
	})
}

func TestFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("Filesystem Backend", func(t *testing.T) {
		cfg := &shared.Config{}
		cfg.Storage.Backend = shared.BackendFilesystem
		cfg.Storage.Filesystem.Path = t.TempDir()

		store, err := FromConfig(ctx, cfg)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if store.Name() != shared.BackendFilesystem {
			t.Errorf("expected filesystem store, got %s", store.Name())
		}
	})

	t.Run("SQLite Backend", func(t *testing.T) {
		cfg := &shared.Config{}
		cfg.Storage.Backend = shared.BackendSQLite
		cfg.Storage.SQLite.Path = ":memory:"

		store, err := FromConfig(ctx, cfg)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if store.Name() != shared.BackendSQLite {
			t.Errorf("expected sqlite store, got %s", store.Name())
		}
	})

	t.Run("Unknown Backend", func(t *testing.T) {
		cfg := &shared.Config{}
		cfg.Storage.Backend = "redis"

		_, err := FromConfig(ctx, cfg)
		if !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
