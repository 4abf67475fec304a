package lease

import "time"

// Config holds configuration for the single-session lease.
type Config struct {
	// URL is the Redis address (e.g. redis://host:6379/0). Empty disables the
	// lease.
	URL string `mapstructure:"url" default:""`
	// Key names the lease.
	Key string `mapstructure:"key" default:"m3u-guardian:session"`
	// TTL is how long the lease survives without renewal.
	TTL time.Duration `mapstructure:"ttl" default:"1m"`
}
