package controller

// Config holds configuration for the campus controller connection.
type Config struct {
	// BaseURI is the URL of the controller API (scheme+host+port).
	BaseURI string `mapstructure:"base_uri" default:"https://weu.naas.huawei.com:18002"`
	// Username is the tenant account used to obtain a token.
	Username string `mapstructure:"username" default:""`
	// Password is the tenant account password.
	Password string `mapstructure:"password" default:""`
	// Token is a pre-obtained access token. When set, Username/Password are not used.
	Token string `mapstructure:"token" default:""`
	// ValidateCerts indicates whether to validate TLS certificates.
	// Controllers commonly run with self-signed certificates, hence the default.
	ValidateCerts bool `mapstructure:"validate_certs" default:"false"`
	// TimeoutSeconds is the per-request timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
	// PageSize is the page size used for paged listing.
	PageSize int `mapstructure:"page_size" default:"100"`
}
