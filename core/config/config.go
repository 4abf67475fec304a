package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"m3u-guardian/core/lease"
	"m3u-guardian/core/logger"
	"m3u-guardian/core/playlist"
	"m3u-guardian/core/server"
	"m3u-guardian/core/storage"
	"m3u-guardian/feature/catalog"
	"m3u-guardian/feature/notify"
	"m3u-guardian/feature/probe"
	"m3u-guardian/feature/publish"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrInvalid is wrapped by every Validate failure.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Guardian holds the session schedule and rendering policy.
	Guardian GuardianConfig `mapstructure:"guardian"`
	// Probe holds the liveness prober settings.
	Probe probe.Config `mapstructure:"probe"`
	// Paths locates the stream database and the playlist.
	Paths PathsConfig `mapstructure:"paths"`
	// Publish holds the git and object storage publishers.
	Publish publish.Config `mapstructure:"publish"`
	// Storage holds the object storage connection used by the S3 publisher.
	Storage storage.Config `mapstructure:"storage"`
	// Notify holds the notification channels.
	Notify notify.Config `mapstructure:"notify"`
	// Catalog holds the Xtream panel used by the ingest command.
	Catalog catalog.Config `mapstructure:"catalog"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Server holds the optional status server.
	Server server.Config `mapstructure:"server"`
	// Redis holds the optional single-session lease.
	Redis lease.Config `mapstructure:"redis"`
}

// GuardianConfig parameterises a reconciliation session.
type GuardianConfig struct {
	// Interval is the pause between ticks.
	Interval time.Duration `mapstructure:"interval" default:"10s"`
	// MaxDuration bounds the session; zero means unbounded.
	MaxDuration time.Duration `mapstructure:"max_duration" default:"5h50m"`
	// DeadPolicy is mark or omit.
	DeadPolicy string `mapstructure:"dead_policy" default:"mark"`
}

// PathsConfig locates the files the guardian reads and writes.
type PathsConfig struct {
	// Database is the stream database JSON file.
	Database string `mapstructure:"database" default:"data/streams.json"`
	// Playlist is the published playlist file.
	Playlist string `mapstructure:"playlist" default:"master.m3u"`
}

// aliases are the variable names older deployments use.
var aliases = map[string]string{
	"notify.telegram.bot_token": "TG_BOT_TOKEN",
	"notify.telegram.chat_id":   "TG_CHAT_ID",
	"catalog.host":              "XTREAM_HOST",
	"catalog.username":          "XTREAM_USER",
	"catalog.password":          "XTREAM_PASS",
}

// LoadConfig loads configuration from config.yaml, environment variables and
// a .env file found in path.
func LoadConfig(path string) (*Config, error) {
	// Ignore error if file doesn't exist (e.g. CI)
	_ = godotenv.Overload(filepath.Join(path, ".env"))

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	// Map environment variables to nested keys (e.g. GUARDIAN_INTERVAL -> guardian.interval)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, alias := range aliases {
		canonical := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, canonical, alias); err != nil {
			return nil, fmt.Errorf("bind %s: %w", alias, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the values a session cannot run without.
func (c *Config) Validate() error {
	if c.Guardian.Interval <= 0 {
		return fmt.Errorf("%w: guardian.interval must be positive, got %s", ErrInvalid, c.Guardian.Interval)
	}
	if c.Guardian.MaxDuration < 0 {
		return fmt.Errorf("%w: guardian.max_duration must not be negative", ErrInvalid)
	}
	if !playlist.DeadPolicy(c.Guardian.DeadPolicy).Valid() {
		return fmt.Errorf("%w: guardian.dead_policy must be %q or %q, got %q",
			ErrInvalid, playlist.DeadMark, playlist.DeadOmit, c.Guardian.DeadPolicy)
	}
	if c.Probe.Timeout <= 0 {
		return fmt.Errorf("%w: probe.timeout must be positive", ErrInvalid)
	}
	if c.Paths.Database == "" || c.Paths.Playlist == "" {
		return fmt.Errorf("%w: paths.database and paths.playlist are required", ErrInvalid)
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
