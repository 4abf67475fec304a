package probe

import "time"

// Config holds configuration for the liveness prober.
type Config struct {
	// Timeout bounds each HTTP request, fallback included.
	Timeout time.Duration `mapstructure:"timeout" default:"5s"`
	// UserAgent is sent on every request; some providers reject unknown agents.
	UserAgent string `mapstructure:"user_agent" default:"VLC/3.0.16"`
	// Range is the byte range requested by the GET fallback.
	Range string `mapstructure:"range" default:"bytes=0-1024"`
	// Concurrency is the number of channel groups probed in parallel.
	Concurrency int `mapstructure:"concurrency" default:"8"`
}

const (
	DefaultTimeout   = 5 * time.Second
	DefaultUserAgent = "VLC/3.0.16"
	DefaultRange     = "bytes=0-1024"
)
