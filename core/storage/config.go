package storage

// Config holds configuration for the object storage the playlist can be
// published to.
type Config struct {
	// Endpoint is the host:port of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID.
	AccessKey string `mapstructure:"access_key" default:""`
	// SecretKey is the secret access key.
	SecretKey string `mapstructure:"secret_key" default:""`
	// UseSSL enables TLS.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket receives the playlist.
	Bucket string `mapstructure:"bucket" default:"playlists"`
	// Region is the bucket location (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// TimeoutSeconds bounds connection setup and response headers.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
