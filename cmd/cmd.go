package main

import (
	"github.com/urfave/cli/v3"
)

// watchCommand runs the watch loop until interrupted.
func watchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Poll the playlist on an interval and announce new tracks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:    "playlist-id",
				Aliases: []string{"p"},
				Usage:   "Spotify playlist ID to watch",
			},
			&cli.IntFlag{
				Name:    "interval",
				Aliases: []string{"i"},
				Usage:   "Seconds to sleep between cycles",
			},
			&cli.BoolFlag{
				Name:  "notify-first-run",
				Usage: "Send notifications for every track when no baseline exists yet",
			},
		},
		Action: r.Watch,
	}
}

// checkCommand runs a single cycle and exits.
func checkCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Run one fetch/diff/notify/persist cycle and exit",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:    "playlist-id",
				Aliases: []string{"p"},
				Usage:   "Spotify playlist ID to check",
			},
			&cli.BoolFlag{
				Name:  "notify-first-run",
				Usage: "Send notifications for every track when no baseline exists yet",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output cycle summary as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Check,
	}
}

// playlistCommand groups read-only playlist operations.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Fetch the playlist and print its current tracks",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.StringFlag{
						Name:    "playlist-id",
						Aliases: []string{"p"},
						Usage:   "Spotify playlist ID to fetch",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print JSON output",
						Value: true,
					},
				},
				Action: r.PlaylistShow,
			},
		},
	}
}

// setupCommand groups setup and configuration commands.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write an example configuration file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}
