// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/spotwatch/internal/models"
	"github.com/desertthunder/spotwatch/internal/shared"
)

// MockSource is a configurable test double for [services.Source]
type MockSource struct {
	FetchFunc func(ctx context.Context, playlistID, accessToken string) (*models.Snapshot, error)
	Calls     int
}

func (m *MockSource) Fetch(ctx context.Context, playlistID, accessToken string) (*models.Snapshot, error) {
	m.Calls++
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, playlistID, accessToken)
	}
	return models.EmptySnapshot(playlistID), nil
}

func (m *MockSource) Name() string { return "mock-source" }

// MockNotifier is a configurable test double for [services.Notifier].
// Every call is recorded in Sent regardless of outcome.
type MockNotifier struct {
	NotifyFunc func(ctx context.Context, track models.Track, playlist *models.Snapshot) error
	Sent       []models.Track
}

func (m *MockNotifier) Notify(ctx context.Context, track models.Track, playlist *models.Snapshot) error {
	m.Sent = append(m.Sent, track)
	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, track, playlist)
	}
	return nil
}

func (m *MockNotifier) Name() string { return "mock-notifier" }

// MockStore is an in-memory test double for [storage.Store]
type MockStore struct {
	Snapshots map[string]*models.Snapshot
	LoadErr   error
	SaveErr   error
	SaveCalls int
}

func NewMockStore() *MockStore {
	return &MockStore{Snapshots: map[string]*models.Snapshot{}}
}

func (m *MockStore) Load(ctx context.Context, key string) (*models.Snapshot, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	snapshot, ok := m.Snapshots[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrSnapshotNotFound, key)
	}
	return snapshot, nil
}

func (m *MockStore) Save(ctx context.Context, key string, snapshot *models.Snapshot) error {
	m.SaveCalls++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Snapshots[key] = snapshot
	return nil
}

func (m *MockStore) Name() string { return "mock-store" }

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}
