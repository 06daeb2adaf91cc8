package config

// AuthConfig contains session authentication configuration. Sessions are
// created by the main application at login; this service only resolves them.
type AuthConfig struct {
	// SessionPrefix is the Redis key prefix under which the main application
	// writes sessions.
	SessionPrefix string `env:"AUTH_SESSION_PREFIX" envDefault:"session:"`

	// DevToken is a static bearer token accepted in development mode.
	// Ignored unless IsDev is set.
	DevToken string `env:"AUTH_DEV_TOKEN" envDefault:""`
}
