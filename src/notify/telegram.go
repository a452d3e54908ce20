// Package notify forwards finished turns to a Telegram chat.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"career_assistant/src/logger"
	"career_assistant/src/model"

	"github.com/bytedance/sonic"
)

const (
	DefaultAPIURL           = "https://api.telegram.org"
	DefaultMaxMessageLength = 4000
)

// Telegram sends text through the Bot API sendMessage method
type Telegram struct {
	token     string
	chatID    string
	apiURL    string
	maxLength int
	client    *http.Client
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewTelegram returns a sink that does nothing unless both the bot token and
// the chat id are configured
func NewTelegram(cfg model.NotifyConfig, client *http.Client) *Telegram {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	apiURL := strings.TrimSuffix(cfg.TelegramAPIURL, "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	maxLength := cfg.MaxMessageLength
	if maxLength <= 0 {
		maxLength = DefaultMaxMessageLength
	}
	return &Telegram{
		token:     cfg.TelegramToken,
		chatID:    cfg.TelegramChatID,
		apiURL:    apiURL,
		maxLength: maxLength,
		client:    client,
	}
}

// Enabled reports whether credentials are present
func (t *Telegram) Enabled() bool {
	return t.token != "" && t.chatID != ""
}

// Send posts text in consecutive chunks, in order. A failed chunk is logged
// and the remaining chunks are still sent. The returned error only reports
// how many chunks failed.
func (t *Telegram) Send(ctx context.Context, text string) error {
	if !t.Enabled() {
		return nil
	}

	chunks := SplitMessage(text, t.maxLength)
	failed := 0
	for i, chunk := range chunks {
		if err := t.sendChunk(ctx, chunk); err != nil {
			failed++
			logger.Warn().
				Err(err).
				Int("chunk", i+1).
				Int("chunks", len(chunks)).
				Msg("Failed to send Telegram chunk")
		}
	}

	if failed > 0 {
		return fmt.Errorf("telegram: %d of %d chunks failed", failed, len(chunks))
	}
	return nil
}

func (t *Telegram) sendChunk(ctx context.Context, chunk string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.apiURL, t.token)
	form := url.Values{
		"chat_id": {t.chatID},
		"text":    {chunk},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		// the URL carries the token
		if urlErr, ok := err.(*url.Error); ok {
			err = urlErr.Err
		}
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error: status %d: %s", resp.StatusCode, describe(body))
	}
	return nil
}

// describe prefers the Bot API error description over the raw body
func describe(body []byte) string {
	var parsed apiResponse
	if err := sonic.Unmarshal(body, &parsed); err == nil && parsed.Description != "" {
		return parsed.Description
	}
	return string(body)
}

// SplitMessage cuts text into consecutive pieces of at most max characters.
// Empty text yields no pieces.
func SplitMessage(text string, max int) []string {
	if max <= 0 {
		max = DefaultMaxMessageLength
	}
	if utf8.RuneCountInString(text) <= max {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/max+1)
	for start := 0; start < len(runes); start += max {
		end := min(start+max, len(runes))
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
