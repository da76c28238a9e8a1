package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotwatch/internal/shared"
)

func newApp(runner *Runner) *cli.Command {
	return &cli.Command{
		Name:     "spotwatch",
		Usage:    "Watch a Spotify playlist and announce new tracks on Telegram",
		Version:  "0.3.0",
		Commands: runner.register(),
	}
}

func main() {
	logger := shared.NewLogger(nil)

	app := newApp(NewRunner(RunnerOpts{Logger: logger}))

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
