// Spotify API implementation of [Source]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/spotwatch/internal/models"
	"github.com/desertthunder/spotwatch/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// Spotify allows bursts but throttles sustained traffic; a handful of
	// requests per second is plenty for one playlist per cycle.
	spotifyRequestsPerSecond = 5
)

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	DurationMS   int             `json:"duration_ms"`
	ExternalURLs externalURLs    `json:"external_urls"`
	URI          string          `json:"uri"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
type SpotifyPlaylistTrack struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

// SpotifyPlaylistTracks represents one page of a playlist's tracks.
type SpotifyPlaylistTracks struct {
	Total int                    `json:"total"`
	Next  *string                `json:"next"`
	Items []SpotifyPlaylistTrack `json:"items"`
}

// SpotifyPlaylist represents a Spotify playlist.
type SpotifyPlaylist struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Description  string                `json:"description"`
	ExternalURLs externalURLs          `json:"external_urls"`
	Tracks       SpotifyPlaylistTracks `json:"tracks"`
	URI          string                `json:"uri"`
}

// SpotifySource implements [Source] against the Spotify Web API.
//
// The access token is injected per call; token acquisition and refresh live in
// the [oauth2.TokenSource] returned by [NewSpotifyTokenSource].
type SpotifySource struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewSpotifySource creates a Spotify source. baseURL defaults to the public
// API and exists for tests; client defaults to [http.DefaultClient].
func NewSpotifySource(baseURL string, client *http.Client) *SpotifySource {
	if baseURL == "" {
		baseURL = spotifyBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &SpotifySource{
		baseURL:    baseURL,
		httpClient: client,
		limiter:    rate.NewLimiter(rate.Limit(spotifyRequestsPerSecond), 1),
	}
}

// NewSpotifyTokenSource builds the external credential collaborator: a cached,
// self-refreshing client-credentials token source.
func NewSpotifyTokenSource(ctx context.Context, clientID, clientSecret string) (oauth2.TokenSource, error) {
	if clientID == "" {
		return nil, fmt.Errorf("%w: spotify client_id", shared.ErrMissingConfig)
	}
	if clientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_secret", shared.ErrMissingConfig)
	}

	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyTokenURL,
	}
	return conf.TokenSource(ctx), nil
}

func (s *SpotifySource) Name() string {
	return "Spotify"
}

// doRequest performs one rate-limited GET against the API and decodes the JSON
// response into result. rawURL may be absolute (pagination cursors are) or a
// path relative to the base URL.
func (s *SpotifySource) doRequest(ctx context.Context, rawURL, accessToken string, result any) error {
	if accessToken == "" {
		return fmt.Errorf("%w: empty access token", shared.ErrSourceUnauthorized)
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}

	apiURL := rawURL
	if len(rawURL) > 0 && rawURL[0] == '/' {
		apiURL = s.baseURL + rawURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if err := classifySpotifyStatus(resp.StatusCode); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// classifySpotifyStatus maps an HTTP status to the source error taxonomy.
func classifySpotifyStatus(status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: spotify API status %d", shared.ErrSourceUnauthorized, status)
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: spotify API status %d", shared.ErrPlaylistNotFound, status)
	case status == http.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("%w: spotify API status %d", shared.ErrSourceUnavailable, status)
	default:
		return fmt.Errorf("%w: unexpected spotify API status %d", shared.ErrSourceUnavailable, status)
	}
}

// Fetch retrieves the playlist and walks every tracks page so the snapshot is
// complete for playlists past Spotify's 100-item page size.
func (s *SpotifySource) Fetch(ctx context.Context, playlistID, accessToken string) (*models.Snapshot, error) {
	var playlist SpotifyPlaylist
	endpoint := fmt.Sprintf("/playlists/%s", playlistID)
	if err := s.doRequest(ctx, endpoint, accessToken, &playlist); err != nil {
		return nil, err
	}

	items := playlist.Tracks.Items
	next := playlist.Tracks.Next
	for next != nil {
		var page SpotifyPlaylistTracks
		if err := s.doRequest(ctx, *next, accessToken, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Items...)
		next = page.Next
	}

	snapshot := &models.Snapshot{
		ID:        playlist.ID,
		Name:      playlist.Name,
		URL:       playlist.ExternalURLs.Spotify,
		Tracks:    make([]models.Track, 0, len(items)),
		FetchedAt: time.Now().UTC(),
	}

	for _, item := range items {
		if item.Track.ID == "" {
			// Local files and removed episodes come back without an ID.
			continue
		}
		snapshot.Tracks = append(snapshot.Tracks, spotifyTrackToModel(item))
	}

	return snapshot, nil
}

// spotifyTrackToModel converts a playlist item to the snapshot track model,
// joining artist names the way the notification wants them.
func spotifyTrackToModel(item SpotifyPlaylistTrack) models.Track {
	track := models.Track{
		ID:    item.Track.ID,
		Title: item.Track.Name,
		URL:   item.Track.ExternalURLs.Spotify,
	}

	for i, artist := range item.Track.Artists {
		if i > 0 {
			track.Artist += ", "
		}
		track.Artist += artist.Name
	}

	if item.AddedAt != "" {
		if added, err := time.Parse(time.RFC3339, item.AddedAt); err == nil {
			track.AddedAt = added
		}
	}

	return track
}

// IsTransient reports whether err only warrants waiting for the next cycle.
func IsTransient(err error) bool {
	return errors.Is(err, shared.ErrSourceUnavailable) || errors.Is(err, shared.ErrNotifyUnavailable)
}
