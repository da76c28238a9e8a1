package storage

import (
	"context"
	"fmt"

	"github.com/desertthunder/spotwatch/internal/models"
	"github.com/desertthunder/spotwatch/internal/shared"
)

// Store persists and retrieves the last-seen playlist snapshot under a logical
// key (the playlist ID). The watch engine depends only on this contract.
type Store interface {
	// Load retrieves the snapshot stored under key. A first-ever run, before
	// anything was saved, returns [shared.ErrSnapshotNotFound]; other failures
	// wrap [shared.ErrStoreIO] or [shared.ErrStorePermission].
	Load(ctx context.Context, key string) (*models.Snapshot, error)

	// Save overwrites the snapshot stored under key. The write is atomic from
	// the caller's perspective: a failed save leaves the previous state intact
	// for subsequent loads.
	Save(ctx context.Context, key string, snapshot *models.Snapshot) error

	// Name returns the backend name (e.g., "filesystem")
	Name() string
}

// FromConfig builds the store selected by the configuration.
func FromConfig(ctx context.Context, cfg *shared.Config) (Store, error) {
	switch cfg.Storage.Backend {
	case shared.BackendFilesystem:
		return NewFilesystemStore(cfg.Storage.Filesystem.Path)
	case shared.BackendS3:
		return NewS3Store(ctx, cfg.Storage.S3)
	case shared.BackendSQLite:
		return NewSQLiteStore(cfg.Storage.SQLite.Path)
	default:
		return nil, fmt.Errorf("%w: unknown storage backend %q", shared.ErrInvalidConfig, cfg.Storage.Backend)
	}
}
