package history

// Config holds configuration for the run history store.
type Config struct {
	// Enabled toggles run history recording.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Driver is the database driver (sqlite, mysql).
	Driver string `mapstructure:"driver" default:"sqlite"`
	// Path is the sqlite database file.
	Path string `mapstructure:"path" default:"campusctl.db"`
	// Host is the mysql host.
	Host string `mapstructure:"host" default:"localhost"`
	// Port is the mysql port.
	Port int `mapstructure:"port" default:"3306"`
	// User is the mysql user.
	User string `mapstructure:"user" default:"root"`
	// Password is the mysql password.
	Password string `mapstructure:"password" default:""`
	// Name is the mysql database name.
	Name string `mapstructure:"name" default:"campusctl"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
