package models

import (
	"testing"
	"time"
)

func snap(ids ...string) *Snapshot {
	s := &Snapshot{ID: "pl", Name: "Test Playlist", FetchedAt: time.Now()}
	for _, id := range ids {
		s.Tracks = append(s.Tracks, Track{ID: id, Title: "Track " + id, Artist: "Artist"})
	}
	return s
}

func ids(tracks []Track) []string {
	out := []string{}
	for _, t := range tracks {
		out = append(out, t.ID)
	}
	return out
}

func TestNewTracks(t *testing.T) {
	t.Run("Added Track Detected", func(t *testing.T) {
		fresh := NewTracks(snap("1", "2"), snap("1", "2", "3"))

		if len(fresh) != 1 {
			t.Fatalf("expected 1 new track, got %d", len(fresh))
		}
		if fresh[0].ID != "3" {
			t.Errorf("expected track 3, got %s", fresh[0].ID)
		}
	})

	t.Run("Removed Track Is Not New", func(t *testing.T) {
		fresh := NewTracks(snap("1", "2"), snap("2"))

		if len(fresh) != 0 {
			t.Errorf("expected no new tracks, got %v", ids(fresh))
		}
	})

	t.Run("Empty Baseline Reports Everything", func(t *testing.T) {
		fresh := NewTracks(EmptySnapshot("pl"), snap("1", "2"))

		if len(fresh) != 2 {
			t.Fatalf("expected 2 new tracks, got %d", len(fresh))
		}
		if fresh[0].ID != "1" || fresh[1].ID != "2" {
			t.Errorf("expected [1 2], got %v", ids(fresh))
		}
	})

	t.Run("Empty Current Playlist", func(t *testing.T) {
		fresh := NewTracks(snap("1", "2"), snap())

		if len(fresh) != 0 {
			t.Errorf("expected no new tracks, got %v", ids(fresh))
		}
	})

	t.Run("Order Independent Of Baseline Order", func(t *testing.T) {
		shuffled := snap("4", "1", "3", "2")
		current := snap("1", "2", "3", "4", "5", "6")

		fresh := NewTracks(shuffled, current)
		if len(fresh) != 2 {
			t.Fatalf("expected 2 new tracks, got %v", ids(fresh))
		}
		if fresh[0].ID != "5" || fresh[1].ID != "6" {
			t.Errorf("expected current order [5 6], got %v", ids(fresh))
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		previous, current := snap("1"), snap("1", "2", "3")

		first := NewTracks(previous, current)
		second := NewTracks(previous, current)

		if len(first) != len(second) {
			t.Fatalf("diff not idempotent: %v vs %v", ids(first), ids(second))
		}
		for i := range first {
			if first[i].ID != second[i].ID {
				t.Errorf("diff not idempotent at %d: %s vs %s", i, first[i].ID, second[i].ID)
			}
		}
	})

	t.Run("Readded Track Is New Again", func(t *testing.T) {
		// Baseline no longer contains track 2, so its return counts as new.
		fresh := NewTracks(snap("1"), snap("1", "2"))

		if len(fresh) != 1 || fresh[0].ID != "2" {
			t.Errorf("expected readded track 2, got %v", ids(fresh))
		}
	})
}

func TestTrackIDs(t *testing.T) {
	set := snap("a", "b", "a").TrackIDs()

	if len(set) != 2 {
		t.Errorf("expected deduplicated set of 2, got %d", len(set))
	}
	if _, ok := set["a"]; !ok {
		t.Error("expected set to contain a")
	}
}
