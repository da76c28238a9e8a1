package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/spotwatch/internal/models"
	"github.com/desertthunder/spotwatch/internal/shared"
)

// FilesystemStore implements [Store] as one JSON file per playlist inside a
// base directory.
type FilesystemStore struct {
	dir string
}

// NewFilesystemStore creates the base directory if needed and returns the store.
func NewFilesystemStore(dir string) (*FilesystemStore, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrStoreIO, err)
		}
		dir = wd
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, classifyFSError(err)
	}

	return &FilesystemStore{dir: dir}, nil
}

func (f *FilesystemStore) Name() string {
	return shared.BackendFilesystem
}

// path derives the snapshot file path from the logical key.
func (f *FilesystemStore) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FilesystemStore) Load(ctx context.Context, key string) (*models.Snapshot, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", shared.ErrSnapshotNotFound, f.path(key))
		}
		return nil, classifyFSError(err)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: failed to decode snapshot %s: %v", shared.ErrStoreIO, f.path(key), err)
	}

	return &snapshot, nil
}

// Save writes to a temp file in the same directory and renames it over the
// target, so a failed write never corrupts the previous snapshot.
func (f *FilesystemStore) Save(ctx context.Context, key string, snapshot *models.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("%w: failed to encode snapshot: %v", shared.ErrStoreIO, err)
	}

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return classifyFSError(err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return classifyFSError(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return classifyFSError(err)
	}

	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		os.Remove(tmp.Name())
		return classifyFSError(err)
	}

	return nil
}

func classifyFSError(err error) error {
	if os.IsPermission(err) {
		return fmt.Errorf("%w: %v", shared.ErrStorePermission, err)
	}
	return fmt.Errorf("%w: %v", shared.ErrStoreIO, err)
}
