// Package services defines the [Source] and [Notifier] interfaces for the
// watch loop's remote collaborators and implements them for Spotify and
// Telegram.
//
// # Source
//
// [SpotifySource] fetches one complete playlist snapshot per call, following
// the tracks pagination cursor so nothing past the first page is dropped.
// Requests pass through a [rate.Limiter] and carry a bearer token supplied by
// the caller on every call; the token itself comes from the client-credentials
// [oauth2.TokenSource] built by [NewSpotifyTokenSource], which caches and
// refreshes it transparently.
//
// # Notifier
//
// [TelegramNotifier] posts one sendMessage call per new track, rendered to
// MarkdownV2 by the formatter package.
//
// # Error Handling
//
// Both clients translate transport and HTTP failures into the typed errors
// from the shared package so the watch engine can decide what survives the
// cycle:
//   - [shared.ErrSourceUnauthorized] : credential rejected (401/403)
//   - [shared.ErrPlaylistNotFound] : playlist ID unknown (404)
//   - [shared.ErrSourceUnavailable] : throttling, 5xx, transport failure
//   - [shared.ErrNotifyRejected] : malformed message or blocked chat
//   - [shared.ErrNotifyUnavailable] : throttling, 5xx, transport failure
package services
