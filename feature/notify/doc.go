// Package notify sends short operator messages about a guardian session.
//
// Telegram talks to the bot API directly. When no bot token or chat id is
// configured, New returns Nop so callers never need to check.
package notify
