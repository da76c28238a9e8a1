package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/desertthunder/spotwatch/internal/models"
	"github.com/desertthunder/spotwatch/internal/shared"
)

const snapshotSchema = `
CREATE TABLE IF NOT EXISTS snapshots (
	playlist_id TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// SQLiteStore implements [Store] as a single-table SQLite database. The upsert
// runs as one statement, so a failed save leaves the prior row untouched.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// snapshots table exists. The path can be ":memory:" for tests.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", shared.ErrStoreIO, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %v", shared.ErrStoreIO, err)
	}

	if _, err := db.Exec(snapshotSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to create schema: %v", shared.ErrStoreIO, err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Name() string {
	return shared.BackendSQLite
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Load(ctx context.Context, key string) (*models.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM snapshots WHERE playlist_id = ?", key,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: playlist %s", shared.ErrSnapshotNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query snapshot: %v", shared.ErrStoreIO, err)
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, fmt.Errorf("%w: failed to decode snapshot for %s: %v", shared.ErrStoreIO, key, err)
	}

	return &snapshot, nil
}

func (s *SQLiteStore) Save(ctx context.Context, key string, snapshot *models.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("%w: failed to encode snapshot: %v", shared.ErrStoreIO, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (playlist_id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(playlist_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert snapshot: %v", shared.ErrStoreIO, err)
	}

	return nil
}
