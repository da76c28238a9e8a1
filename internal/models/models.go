// package models defines the data model for the playlist watcher
package models

import (
	"time"
)

// Track represents a single playlist entry.
//
// Identity is the Spotify track ID: two tracks are the same iff their IDs match.
type Track struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Artist  string    `json:"artist"`
	URL     string    `json:"url,omitempty"`
	AddedAt time.Time `json:"added_at,omitempty"`
}

// Snapshot represents the full state of a playlist at one point in time.
//
// A snapshot is immutable once constructed; each fetch builds a fresh one.
// Track order mirrors the playlist and is preserved for display only.
type Snapshot struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url,omitempty"`
	Tracks    []Track   `json:"tracks"`
	FetchedAt time.Time `json:"fetched_at"`
}

// EmptySnapshot returns a snapshot with no tracks for the given playlist ID.
// Used as the baseline when no prior state has been persisted.
func EmptySnapshot(playlistID string) *Snapshot {
	return &Snapshot{ID: playlistID, Tracks: []Track{}}
}

// TrackIDs returns the set of track IDs present in the snapshot.
func (s *Snapshot) TrackIDs() map[string]struct{} {
	ids := make(map[string]struct{}, len(s.Tracks))
	for _, t := range s.Tracks {
		ids[t.ID] = struct{}{}
	}
	return ids
}

// NewTracks returns the tracks of current whose IDs are absent from previous,
// in the order they appear in current.
//
// The comparison is a set difference over track IDs; positions play no role, so
// reordering either snapshot never produces a new track.
func NewTracks(previous, current *Snapshot) []Track {
	seen := previous.TrackIDs()

	fresh := []Track{}
	for _, t := range current.Tracks {
		if _, ok := seen[t.ID]; !ok {
			fresh = append(fresh, t)
		}
	}
	return fresh
}
