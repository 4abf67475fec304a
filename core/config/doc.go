// Package config loads the guardian's configuration.
//
// Values come, lowest priority first, from the `default` struct tags, an
// optional config.yaml, a .env file and the environment. Nested keys map to
// upper-case variables with dots replaced by underscores, so guardian.interval
// is GUARDIAN_INTERVAL. The historical names TG_BOT_TOKEN, TG_CHAT_ID,
// XTREAM_HOST, XTREAM_USER and XTREAM_PASS are accepted as aliases.
//
// # Sections
//
//   - guardian: tick interval, session bound, dead policy
//   - probe: timeout, user agent, range, concurrency
//   - paths: stream database and playlist files
//   - publish: git and s3 publishers
//   - storage: object storage connection
//   - notify: Telegram bot
//   - catalog: Xtream panel for the ingest command
//   - log, server, redis
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
