package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotwatch/internal/tasks"
)

// Watch runs the watch loop until SIGINT or SIGTERM.
func (r *Runner) Watch(ctx context.Context, cmd *cli.Command) error {
	watcher, config, err := r.buildWatcher(ctx, cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.logger.Info("starting watch loop",
		"playlist", config.Spotify.PlaylistID,
		"interval", config.Watch.IntervalSeconds,
		"backend", config.Storage.Backend,
	)
	r.writePlain("Watching playlist %s every %ds. Ctrl+C to stop.\n\n", config.Spotify.PlaylistID, config.Watch.IntervalSeconds)

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchPlaylist:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.DiffTracks:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.NotifyTrack:
				r.writePlain("   %s\n", update.Message)
			case tasks.PersistBaseline:
				r.writePlain("💾 %s\n", update.Message)
			case tasks.SleepCycle:
				r.writePlain("💤 %s\n\n", update.Message)
			}
		}
	}()

	err = watcher.Watch(ctx, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("Watch loop stopped.\n")
	return nil
}

// Check runs exactly one cycle and prints its outcome.
func (r *Runner) Check(ctx context.Context, cmd *cli.Command) error {
	watcher, config, err := r.buildWatcher(ctx, cmd)
	if err != nil {
		return err
	}

	r.logger.Info("running single cycle", "playlist", config.Spotify.PlaylistID)

	result, err := watcher.Cycle(ctx, nil)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(checkSummary(result), cmd.Bool("pretty"))
	}

	if result.FirstRun {
		r.writePlain("First run: stored %d tracks as the baseline\n", len(result.Snapshot.Tracks))
	}
	r.writePlain("Playlist: %s (%d tracks)\n", result.Snapshot.Name, len(result.Snapshot.Tracks))
	r.writePlain("New tracks: %d\n", len(result.NewTracks))
	for _, track := range result.NewTracks {
		r.writePlain("  - %s - %s\n", track.Artist, track.Title)
	}
	if result.Suppressed {
		r.writePlain("Notifications suppressed for the first run\n")
	} else if len(result.Outcomes) > 0 {
		r.writePlain("Notified: %d/%d\n", result.Notified(), len(result.Outcomes))
	}
	if !result.Persisted {
		r.writePlain("Baseline not persisted: %v\n", result.PersistErr)
	}

	return nil
}

// checkResult is the JSON shape of a single cycle summary.
type checkResult struct {
	Playlist   string   `json:"playlist"`
	Tracks     int      `json:"tracks"`
	NewTracks  []string `json:"new_tracks"`
	Notified   int      `json:"notified"`
	FirstRun   bool     `json:"first_run"`
	Suppressed bool     `json:"suppressed"`
	Persisted  bool     `json:"persisted"`
	Error      string   `json:"error,omitempty"`
}

func checkSummary(result *tasks.CycleResult) checkResult {
	summary := checkResult{
		Playlist:   result.Snapshot.Name,
		Tracks:     len(result.Snapshot.Tracks),
		NewTracks:  []string{},
		Notified:   result.Notified(),
		FirstRun:   result.FirstRun,
		Suppressed: result.Suppressed,
		Persisted:  result.Persisted,
	}
	for _, track := range result.NewTracks {
		summary.NewTracks = append(summary.NewTracks, track.ID)
	}
	if result.PersistErr != nil {
		summary.Error = result.PersistErr.Error()
	}
	return summary
}
