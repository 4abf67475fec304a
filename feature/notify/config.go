package notify

import "time"

// Config holds configuration for notifications.
type Config struct {
	// Telegram configures the Telegram bot.
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig holds the Telegram bot settings.
type TelegramConfig struct {
	// BotToken is the bot API token (from @BotFather).
	BotToken string `mapstructure:"bot_token" default:""`
	// ChatID is the chat messages are delivered to.
	ChatID string `mapstructure:"chat_id" default:""`
	// BaseURL is the bot API root.
	BaseURL string `mapstructure:"base_url" default:"https://api.telegram.org"`
	// Timeout bounds each request.
	Timeout time.Duration `mapstructure:"timeout" default:"10s"`
}

// Enabled reports whether both token and chat id are set.
func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.ChatID != ""
}
