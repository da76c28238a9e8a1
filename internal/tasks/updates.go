package tasks

import (
	"fmt"
	"time"

	"github.com/desertthunder/spotwatch/internal/models"
)

// ProgressUpdate represents a milestone event during a watch cycle.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Cycle phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced consumers
}

// Cycle phase enumeration
type Phase int

const (
	LoadBaseline Phase = iota
	FetchPlaylist
	DiffTracks
	NotifyTrack
	PersistBaseline
	SleepCycle
)

func (p Phase) String() string {
	switch p {
	case LoadBaseline:
		return "load_baseline"
	case FetchPlaylist:
		return "fetch_playlist"
	case DiffTracks:
		return "diff_tracks"
	case NotifyTrack:
		return "notify_track"
	case PersistBaseline:
		return "persist_baseline"
	case SleepCycle:
		return "sleep"
	default:
		return ""
	}
}

func loadedBaselineUpdate(snapshot *models.Snapshot) ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadBaseline,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Loaded baseline with %d tracks", len(snapshot.Tracks)),
		Data:    snapshot,
	}
}

func firstRunUpdate() ProgressUpdate {
	return ProgressUpdate{
		Phase:   LoadBaseline,
		Step:    1,
		Total:   1,
		Message: "No baseline found, treating playlist as first run",
	}
}

func fetchedPlaylistUpdate(snapshot *models.Snapshot) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchPlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetched playlist %s (%d tracks)", snapshot.Name, len(snapshot.Tracks)),
		Data:    snapshot,
	}
}

func diffUpdate(fresh []models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DiffTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%d new tracks since last cycle", len(fresh)),
		Data:    fresh,
	}
}

func notifyUpdate(step, total int, track models.Track, err error) ProgressUpdate {
	message := fmt.Sprintf("[%d/%d] Notified: %s - %s", step, total, track.Artist, track.Title)
	if err != nil {
		message = fmt.Sprintf("[%d/%d] Notification failed for %s - %s: %v", step, total, track.Artist, track.Title, err)
	}
	return ProgressUpdate{
		Phase:   NotifyTrack,
		Step:    step,
		Total:   total,
		Message: message,
		Data:    track,
	}
}

func persistedUpdate(snapshot *models.Snapshot, err error) ProgressUpdate {
	message := fmt.Sprintf("Persisted baseline with %d tracks", len(snapshot.Tracks))
	if err != nil {
		message = fmt.Sprintf("Failed to persist baseline, keeping previous: %v", err)
	}
	return ProgressUpdate{
		Phase:   PersistBaseline,
		Step:    1,
		Total:   1,
		Message: message,
	}
}

func sleepUpdate(interval time.Duration) ProgressUpdate {
	return ProgressUpdate{
		Phase:   SleepCycle,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Sleeping for %s", interval),
	}
}
