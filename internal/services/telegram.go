// Telegram Bot API implementation of [Notifier]
//
// https://core.telegram.org/bots/api#sendmessage
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/spotwatch/internal/formatter"
	"github.com/desertthunder/spotwatch/internal/models"
	"github.com/desertthunder/spotwatch/internal/shared"
)

const telegramBaseURL = "https://api.telegram.org"

// sendMessageRequest is the JSON body for the sendMessage method.
type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// telegramResponse is the envelope every Bot API method returns.
type telegramResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

// TelegramNotifier implements [Notifier] by sending one MarkdownV2 message per
// new track to a fixed chat.
type TelegramNotifier struct {
	baseURL    string
	botToken   string
	chatID     string
	httpClient *http.Client
}

// NewTelegramNotifier creates a Telegram notifier. baseURL defaults to the
// public Bot API and exists for tests; client defaults to [http.DefaultClient].
func NewTelegramNotifier(baseURL, botToken, chatID string, client *http.Client) (*TelegramNotifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("%w: telegram bot_token", shared.ErrMissingConfig)
	}
	if chatID == "" {
		return nil, fmt.Errorf("%w: telegram chat_id", shared.ErrMissingConfig)
	}
	if baseURL == "" {
		baseURL = telegramBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &TelegramNotifier{
		baseURL:    baseURL,
		botToken:   botToken,
		chatID:     chatID,
		httpClient: client,
	}, nil
}

func (n *TelegramNotifier) Name() string {
	return "Telegram"
}

// Notify formats and delivers the new-track message for track.
func (n *TelegramNotifier) Notify(ctx context.Context, track models.Track, playlist *models.Snapshot) error {
	text := formatter.TrackMessage(track, playlist)
	return n.sendMessage(ctx, text)
}

func (n *TelegramNotifier) sendMessage(ctx context.Context, text string) error {
	payload, err := json.Marshal(sendMessageRequest{
		ChatID:                n.chatID,
		Text:                  text,
		ParseMode:             "MarkdownV2",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	apiURL := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrNotifyUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)
	var apiErr telegramResponse
	_ = json.Unmarshal(body, &apiErr)

	return classifyTelegramStatus(resp.StatusCode, apiErr.Description)
}

// classifyTelegramStatus maps an HTTP status to the notifier error taxonomy.
// Bad requests and blocked chats are rejected permanently for the cycle;
// throttling and server trouble are transient.
func classifyTelegramStatus(status int, description string) error {
	if description == "" {
		description = "no description"
	}

	switch {
	case status == http.StatusTooManyRequests || status >= 500:
		return fmt.Errorf("%w: telegram status %d: %s", shared.ErrNotifyUnavailable, status, description)
	default:
		return fmt.Errorf("%w: telegram status %d: %s", shared.ErrNotifyRejected, status, description)
	}
}
