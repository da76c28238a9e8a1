package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/desertthunder/spotwatch/internal/models"
	"github.com/desertthunder/spotwatch/internal/services"
	"github.com/desertthunder/spotwatch/internal/shared"
	"github.com/desertthunder/spotwatch/internal/storage"
)

const (
	// maxNotifyAttempts bounds retries of transient delivery failures so one
	// slow outage can never stall the cycle indefinitely.
	maxNotifyAttempts = 3
	notifyRetryDelay  = 2 * time.Second
)

// WatchEngine defines the snapshot-diff-notify loop.
type WatchEngine interface {
	// Cycle runs one fetch → diff → notify → persist pass and reports what
	// happened. An error means the cycle was aborted before the diff (load or
	// fetch failure); per-track and persistence failures are carried in the
	// result instead, because they never abort a cycle.
	Cycle(ctx context.Context, progress chan<- ProgressUpdate) (*CycleResult, error)

	// Watch runs cycles forever, sleeping the configured interval in between.
	// Returns nil once ctx is cancelled; cancellation is only honored at the
	// sleep boundary, never between diff and persist.
	Watch(ctx context.Context, progress chan<- ProgressUpdate) error
}

// NotifyOutcome records the delivery result for one new track.
type NotifyOutcome struct {
	Track    models.Track
	Attempts int
	Err      error // nil on success
}

// CycleResult contains everything one completed cycle produced.
type CycleResult struct {
	Snapshot   *models.Snapshot // Snapshot fetched this cycle (the new baseline)
	NewTracks  []models.Track   // Tracks absent from the previous baseline
	Outcomes   []NotifyOutcome  // One entry per attempted notification
	FirstRun   bool             // No baseline existed before this cycle
	Suppressed bool             // First-run notifications were skipped
	Persisted  bool             // Baseline save succeeded
	PersistErr error            // Save failure, when Persisted is false
}

// Notified returns the number of successful deliveries.
func (r *CycleResult) Notified() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err == nil {
			n++
		}
	}
	return n
}

// PlaylistWatcher implements [WatchEngine] for one playlist.
//
// Cycles run strictly one at a time: every network call and the inter-cycle
// sleep happen on the caller's goroutine, so no notify can race a save.
type PlaylistWatcher struct {
	source           services.Source
	notifier         services.Notifier
	store            storage.Store
	tokens           oauth2.TokenSource
	playlistID       string
	interval         time.Duration
	retryDelay       time.Duration
	notifyOnFirstRun bool
	logger           *log.Logger
}

// WatcherOpts contains dependencies and settings for creating a PlaylistWatcher.
type WatcherOpts struct {
	Source           services.Source
	Notifier         services.Notifier
	Store            storage.Store
	Tokens           oauth2.TokenSource
	PlaylistID       string
	Interval         time.Duration
	NotifyOnFirstRun bool
	Logger           *log.Logger
}

// NewPlaylistWatcher creates a new PlaylistWatcher with the provided options.
func NewPlaylistWatcher(opts WatcherOpts) *PlaylistWatcher {
	if opts.Interval <= 0 {
		opts.Interval = shared.DefaultCheckInterval * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	return &PlaylistWatcher{
		source:           opts.Source,
		notifier:         opts.Notifier,
		store:            opts.Store,
		tokens:           opts.Tokens,
		playlistID:       opts.PlaylistID,
		interval:         opts.Interval,
		retryDelay:       notifyRetryDelay,
		notifyOnFirstRun: opts.NotifyOnFirstRun,
		logger:           opts.Logger,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks the cycle.
func (w *PlaylistWatcher) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Cycle runs one complete pass. See [WatchEngine.Cycle] for the contract.
func (w *PlaylistWatcher) Cycle(ctx context.Context, progress chan<- ProgressUpdate) (*CycleResult, error) {
	logger := shared.WithLogger(w.logger, "cycle", shared.GenerateID()[:8], "playlist", w.playlistID)

	previous, firstRun, err := w.loadBaseline(ctx)
	if err != nil {
		logger.Error("failed to load baseline, skipping cycle", "err", err)
		return nil, err
	}
	if firstRun {
		logger.Warn("no stored baseline, first run for this playlist")
		w.sendProgress(progress, firstRunUpdate())
	} else {
		logger.Info("loaded baseline", "tracks", len(previous.Tracks))
		w.sendProgress(progress, loadedBaselineUpdate(previous))
	}

	token, err := w.tokens.Token()
	if err != nil {
		err = fmt.Errorf("%w: %v", shared.ErrSourceUnauthorized, err)
		logger.Error("failed to obtain access token, skipping cycle", "err", err)
		return nil, err
	}

	current, err := w.source.Fetch(ctx, w.playlistID, token.AccessToken)
	if err != nil {
		// Never diff or notify from an incomplete fetch.
		logger.Error("fetch failed, skipping cycle", "source", w.source.Name(), "err", err)
		return nil, err
	}
	logger.Info("fetched playlist", "name", current.Name, "tracks", len(current.Tracks))
	w.sendProgress(progress, fetchedPlaylistUpdate(current))

	fresh := models.NewTracks(previous, current)
	logger.Info("diffed against baseline", "new_tracks", len(fresh))
	w.sendProgress(progress, diffUpdate(fresh))

	result := &CycleResult{
		Snapshot:  current,
		NewTracks: fresh,
		FirstRun:  firstRun,
	}

	if firstRun && !w.notifyOnFirstRun {
		result.Suppressed = true
		if len(fresh) > 0 {
			logger.Warn("suppressing first-run notifications, seeding baseline only", "tracks", len(fresh))
		}
	} else {
		result.Outcomes = w.notifyAll(ctx, logger, progress, fresh, current)
	}

	// The current snapshot becomes the baseline no matter how delivery went,
	// and shutdown must not land between diff and save.
	saveCtx := context.WithoutCancel(ctx)
	if err := w.store.Save(saveCtx, w.playlistID, current); err != nil {
		result.PersistErr = err
		logger.Error("failed to persist baseline, previous state stands", "store", w.store.Name(), "err", err)
	} else {
		result.Persisted = true
		logger.Info("persisted baseline", "store", w.store.Name(), "tracks", len(current.Tracks))
	}
	w.sendProgress(progress, persistedUpdate(current, result.PersistErr))

	return result, nil
}

// loadBaseline fetches the previous snapshot, mapping a missing snapshot to an
// empty baseline rather than an error.
func (w *PlaylistWatcher) loadBaseline(ctx context.Context) (*models.Snapshot, bool, error) {
	previous, err := w.store.Load(ctx, w.playlistID)
	if errors.Is(err, shared.ErrSnapshotNotFound) {
		return models.EmptySnapshot(w.playlistID), true, nil
	}
	if err != nil {
		return nil, false, err
	}
	return previous, false, nil
}

// notifyAll delivers one message per new track, in playlist order. A failed
// delivery is recorded and the loop moves on; it never blocks the remaining
// tracks or the persistence step.
func (w *PlaylistWatcher) notifyAll(ctx context.Context, logger *log.Logger, progress chan<- ProgressUpdate, fresh []models.Track, current *models.Snapshot) []NotifyOutcome {
	outcomes := make([]NotifyOutcome, 0, len(fresh))

	for i, track := range fresh {
		outcome := w.notifyWithRetry(ctx, track, current)
		outcomes = append(outcomes, outcome)

		if outcome.Err != nil {
			logger.Error("notification failed", "notifier", w.notifier.Name(),
				"track", track.Title, "artist", track.Artist, "attempts", outcome.Attempts, "err", outcome.Err)
		} else {
			logger.Info("notification sent", "notifier", w.notifier.Name(),
				"track", track.Title, "artist", track.Artist)
		}
		w.sendProgress(progress, notifyUpdate(i+1, len(fresh), track, outcome.Err))
	}

	return outcomes
}

// notifyWithRetry retries transient delivery failures a bounded number of
// times. Rejections are final immediately.
func (w *PlaylistWatcher) notifyWithRetry(ctx context.Context, track models.Track, current *models.Snapshot) NotifyOutcome {
	outcome := NotifyOutcome{Track: track}

	for attempt := 1; attempt <= maxNotifyAttempts; attempt++ {
		outcome.Attempts = attempt
		outcome.Err = w.notifier.Notify(ctx, track, current)

		if outcome.Err == nil || !errors.Is(outcome.Err, shared.ErrNotifyUnavailable) {
			return outcome
		}
		if attempt == maxNotifyAttempts {
			return outcome
		}

		timer := time.NewTimer(w.retryDelay * time.Duration(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return outcome
		case <-timer.C:
		}
	}

	return outcome
}

// Watch runs the loop until ctx is cancelled. Cycle-level failures are logged
// and the loop sleeps into the next attempt; nothing short of cancellation
// stops it.
func (w *PlaylistWatcher) Watch(ctx context.Context, progress chan<- ProgressUpdate) error {
	for {
		if _, err := w.Cycle(ctx, progress); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Warn("cycle aborted, retrying after sleep", "err", err)
		}

		w.logger.Info("sleeping until next cycle", "interval", w.interval)
		w.sendProgress(progress, sleepUpdate(w.interval))

		timer := time.NewTimer(w.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			w.logger.Info("shutdown signal received, stopping watch loop")
			return nil
		case <-timer.C:
		}
	}
}
