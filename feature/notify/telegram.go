package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"m3u-guardian/core/reconcile"

	"go.uber.org/zap"
)

// MaxMessageBytes caps the text sent in one message.
const MaxMessageBytes = 4000

// ErrTelegram is wrapped by failed sendMessage calls.
var ErrTelegram = errors.New("telegram sendMessage failed")

// Telegram posts messages through the bot API.
type Telegram struct {
	cfg    TelegramConfig
	client *http.Client
	logger *zap.Logger
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// New returns a Telegram notifier, or Nop when the bot is not configured.
func New(cfg TelegramConfig, logger *zap.Logger) reconcile.Notifier {
	if !cfg.Enabled() {
		return Nop{}
	}
	return NewTelegram(cfg, nil, logger)
}

// NewTelegram creates a Telegram notifier. A nil client gets a default one
// bounded by cfg.Timeout.
func NewTelegram(cfg TelegramConfig, client *http.Client, logger *zap.Logger) *Telegram {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.telegram.org"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Telegram{cfg: cfg, client: client, logger: logger}
}

// Notify sends text to the configured chat.
func (t *Telegram) Notify(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:                t.cfg.ChatID,
		Text:                  Truncate(text, MaxMessageBytes),
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("encode message: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(t.cfg.BaseURL, "/"), t.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		// The URL embeds the token; keep it out of the error.
		return fmt.Errorf("%w: %s", ErrTelegram, redact(err.Error(), t.cfg.BotToken))
	}
	defer resp.Body.Close()

	var out apiResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&out)
	if resp.StatusCode != http.StatusOK || !out.OK {
		return fmt.Errorf("%w: status %d: %s", ErrTelegram, resp.StatusCode, out.Description)
	}

	t.logger.Debug("Telegram message sent", zap.Int("bytes", len(text)))
	return nil
}

// Truncate shortens s to at most max bytes without splitting a UTF-8 sequence.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "***")
}

// Nop discards every message.
type Nop struct{}

// Notify does nothing.
func (Nop) Notify(context.Context, string) error { return nil }
