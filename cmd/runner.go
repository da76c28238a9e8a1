package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"

	"github.com/desertthunder/spotwatch/internal/services"
	"github.com/desertthunder/spotwatch/internal/shared"
	"github.com/desertthunder/spotwatch/internal/storage"
	"github.com/desertthunder/spotwatch/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Source, notifier, store and token source are built from configuration per
// invocation unless preset (tests inject doubles through [RunnerOpts]).
type Runner struct {
	config     *shared.Config
	source     services.Source
	notifier   services.Notifier
	store      storage.Store
	tokens     oauth2.TokenSource
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Source     services.Source
	Notifier   services.Notifier
	Store      storage.Store
	Tokens     oauth2.TokenSource
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		source:     opts.Source,
		notifier:   opts.Notifier,
		store:      opts.Store,
		tokens:     opts.Tokens,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		watchCommand, checkCommand, playlistCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// resolveConfig loads the config file named by the --config flag when it
// exists, falls back to the embedded defaults otherwise, and applies
// command-line overrides on top.
func (r *Runner) resolveConfig(cmd *cli.Command) (*shared.Config, error) {
	config := r.config

	if config == nil {
		path := cmd.String("config")
		if _, err := os.Stat(path); err == nil {
			loaded, err := shared.LoadConfig(path)
			if err != nil {
				return nil, err
			}
			config = loaded
		} else {
			config = shared.DefaultConfig()
		}
	}

	if cmd.IsSet("playlist-id") {
		config.Spotify.PlaylistID = cmd.String("playlist-id")
	}
	if cmd.IsSet("interval") {
		config.Watch.IntervalSeconds = int(cmd.Int("interval"))
	}
	if cmd.IsSet("notify-first-run") {
		config.Watch.NotifyOnFirstRun = cmd.Bool("notify-first-run")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// buildWatcher assembles the watch engine from configuration, reusing any
// preset dependency.
func (r *Runner) buildWatcher(ctx context.Context, cmd *cli.Command) (*tasks.PlaylistWatcher, *shared.Config, error) {
	config, err := r.resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}

	tokens := r.tokens
	if tokens == nil {
		tokens, err = services.NewSpotifyTokenSource(ctx, config.Spotify.ClientID, config.Spotify.ClientSecret)
		if err != nil {
			return nil, nil, err
		}
	}

	source := r.source
	if source == nil {
		source = services.NewSpotifySource("", r.httpClient)
	}

	notifier := r.notifier
	if notifier == nil {
		notifier, err = services.NewTelegramNotifier("", config.Telegram.BotToken, config.Telegram.ChatID, r.httpClient)
		if err != nil {
			return nil, nil, err
		}
	}

	store := r.store
	if store == nil {
		store, err = storage.FromConfig(ctx, config)
		if err != nil {
			return nil, nil, err
		}
	}

	watcher := tasks.NewPlaylistWatcher(tasks.WatcherOpts{
		Source:           source,
		Notifier:         notifier,
		Store:            store,
		Tokens:           tokens,
		PlaylistID:       config.Spotify.PlaylistID,
		Interval:         time.Duration(config.Watch.IntervalSeconds) * time.Second,
		NotifyOnFirstRun: config.Watch.NotifyOnFirstRun,
		Logger:           r.logger,
	})

	return watcher, config, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return err
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
