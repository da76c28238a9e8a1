package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/spotwatch/internal/services"
)

// PlaylistShow fetches the playlist once and prints the snapshot as JSON.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	config, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}

	tokens := r.tokens
	if tokens == nil {
		tokens, err = services.NewSpotifyTokenSource(ctx, config.Spotify.ClientID, config.Spotify.ClientSecret)
		if err != nil {
			return err
		}
	}

	source := r.source
	if source == nil {
		source = services.NewSpotifySource("", r.httpClient)
	}

	token, err := tokens.Token()
	if err != nil {
		return err
	}

	r.logger.Info("fetching playlist", "playlist", config.Spotify.PlaylistID, "source", source.Name())

	snapshot, err := source.Fetch(ctx, config.Spotify.PlaylistID, token.AccessToken)
	if err != nil {
		return err
	}

	return r.writeJSON(snapshot, cmd.Bool("pretty"))
}
