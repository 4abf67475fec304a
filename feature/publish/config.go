package publish

// Config holds configuration for the publishers.
type Config struct {
	// Git configures publishing through a git repository.
	Git GitConfig `mapstructure:"git"`
	// S3 configures publishing to object storage. Connection settings come
	// from the storage section.
	S3 S3Config `mapstructure:"s3"`
}

// GitConfig holds configuration for the git publisher.
type GitConfig struct {
	// Enabled turns the git publisher on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Dir is the working tree of the repository. Empty means the current
	// directory.
	Dir string `mapstructure:"dir" default:""`
	// Remote is the remote pushed to.
	Remote string `mapstructure:"remote" default:"origin"`
	// Branch is the remote branch. Empty pushes the current branch.
	Branch string `mapstructure:"branch" default:""`
	// UserName is the commit author name.
	UserName string `mapstructure:"user_name" default:"Guardian"`
	// UserEmail is the commit author email.
	UserEmail string `mapstructure:"user_email" default:"actions@github.com"`
}

// S3Config holds configuration for the object storage publisher.
type S3Config struct {
	// Enabled turns the S3 publisher on.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Object is the object key the playlist is stored under.
	Object string `mapstructure:"object" default:"master.m3u"`
}
