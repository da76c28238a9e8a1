// package services defines interfaces for the remote collaborators of the
// watch loop: the playlist source and the notification sink.
package services

import (
	"context"

	"github.com/desertthunder/spotwatch/internal/models"
)

// Source fetches the current state of a playlist from a remote API.
type Source interface {
	// Fetch retrieves a full, freshly ordered snapshot of the playlist.
	// No incremental or paged state is held between calls.
	//
	// The access credential is passed explicitly per call; acquiring and
	// refreshing it is an [oauth2.TokenSource] concern. Errors wrap
	// [shared.ErrSourceUnauthorized], [shared.ErrPlaylistNotFound] or
	// [shared.ErrSourceUnavailable].
	Fetch(ctx context.Context, playlistID, accessToken string) (*models.Snapshot, error)

	// Name returns the name of the source (e.g., "Spotify")
	Name() string
}

// Notifier delivers a message for one newly detected track.
type Notifier interface {
	// Notify sends a single notification for track, formatted in the context
	// of the playlist snapshot it was found in. Errors wrap
	// [shared.ErrNotifyRejected] (non-retryable) or
	// [shared.ErrNotifyUnavailable] (transient).
	Notify(ctx context.Context, track models.Track, playlist *models.Snapshot) error

	// Name returns the name of the notifier (e.g., "Telegram")
	Name() string
}
