// package formatter renders new-track notifications as Telegram MarkdownV2
package formatter

import (
	"fmt"
	"strings"

	"github.com/desertthunder/spotwatch/internal/models"
)

// markdownEscaper escapes every character MarkdownV2 reserves.
//
// https://core.telegram.org/bots/api#markdownv2-style
var markdownEscaper = strings.NewReplacer(
	`_`, `\_`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`(`, `\(`,
	`)`, `\)`,
	"`", "\\`",
	`~`, `\~`,
	`>`, `\>`,
	`#`, `\#`,
	`+`, `\+`,
	`-`, `\-`,
	`=`, `\=`,
	`|`, `\|`,
	`{`, `\{`,
	`}`, `\}`,
	`.`, `\.`,
	`!`, `\!`,
)

// EscapeMarkdown escapes text for safe interpolation into a MarkdownV2 message.
func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

// TrackMessage builds the chat message announcing one newly added track.
//
// Link URLs are left unescaped; only the human-readable parts pass through
// [EscapeMarkdown].
func TrackMessage(track models.Track, playlist *models.Snapshot) string {
	var b strings.Builder

	b.WriteString("New track 🥳\n\n")
	b.WriteString(fmt.Sprintf("*%s* 🎶", EscapeMarkdown(track.Title)))
	if track.URL != "" {
		b.WriteString(fmt.Sprintf("  [track](%s)", track.URL))
	}
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("By _%s_ 🎤\n\n", EscapeMarkdown(track.Artist)))

	b.WriteString(fmt.Sprintf("Added to the playlist: %s", EscapeMarkdown(playlist.Name)))
	if playlist.URL != "" {
		b.WriteString(fmt.Sprintf("  [playlist](%s)", playlist.URL))
	}
	b.WriteString("\n")

	return b.String()
}
