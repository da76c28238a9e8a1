package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Playlist source errors
	ErrSourceUnauthorized = fmt.Errorf("source credential rejected")
	ErrPlaylistNotFound   = fmt.Errorf("playlist not found")
	ErrSourceUnavailable  = fmt.Errorf("source temporarily unavailable")

	// Notifier errors
	ErrNotifyRejected    = fmt.Errorf("notification rejected")
	ErrNotifyUnavailable = fmt.Errorf("notifier temporarily unavailable")

	// Snapshot store errors
	ErrSnapshotNotFound = fmt.Errorf("snapshot not found")
	ErrStoreIO          = fmt.Errorf("store I/O failure")
	ErrStorePermission  = fmt.Errorf("store permission denied")
)
