package server

// Config holds configuration for the optional status server.
type Config struct {
	// Port is the port the status server listens on. Empty disables it.
	Port string `mapstructure:"port" default:""`
	// ApiKey protects every route but /health when set.
	ApiKey string `mapstructure:"api_key" default:""`
}

// Enabled reports whether the status server should be started.
func (c Config) Enabled() bool {
	return c.Port != ""
}

// Addr returns the listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}
