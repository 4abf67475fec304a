package catalog

import (
	"errors"
	"time"
)

// ErrNotConfigured is returned when the Xtream host or credentials are missing.
var ErrNotConfigured = errors.New("missing XTREAM_HOST, XTREAM_USER or XTREAM_PASS")

// Config holds configuration for the Xtream catalog.
type Config struct {
	// Host is the panel root, e.g. http://panel.example:8080.
	Host string `mapstructure:"host" default:""`
	// Username is the panel account.
	Username string `mapstructure:"username" default:""`
	// Password is the panel password.
	Password string `mapstructure:"password" default:""`
	// Timeout bounds each API request.
	Timeout time.Duration `mapstructure:"timeout" default:"10s"`
}

// Validate reports whether the catalog can be queried.
func (c Config) Validate() error {
	if c.Host == "" || c.Username == "" || c.Password == "" {
		return ErrNotConfigured
	}
	return nil
}
