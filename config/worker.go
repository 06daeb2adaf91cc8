package config

import "time"

// WebhookConfig contains webhook intake configuration.
type WebhookConfig struct {
	// Secret is the shared HMAC key for callback signature verification.
	// When empty, deliveries are accepted unverified and an operator alert
	// fires through the alert limiter.
	Secret string `env:"SECRET" envDefault:""`
}

// WorkerConfig contains the worker API client configuration.
type WorkerConfig struct {
	// BaseURL is the worker API root, e.g. "http://worker:9090".
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:9090"`

	// APISecret authenticates this service to the worker API. It is sent as
	// a header on every request and never exposed to end users.
	APISecret string `env:"API_SECRET" envDefault:""`

	// Timeout bounds a single worker API request.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to worker client configuration values.
func (c *WorkerConfig) Sanitize() {
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
}

// PollConfig contains status polling configuration.
type PollConfig struct {
	// MaxAttempts is the number of status checks before a poll session
	// gives up.
	MaxAttempts int `env:"MAX_ATTEMPTS" envDefault:"10"`

	// Interval is the pause between status checks.
	Interval time.Duration `env:"INTERVAL" envDefault:"2s"`
}

// Sanitize applies guardrails to polling configuration values.
func (c *PollConfig) Sanitize() {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 10
	}
	if c.Interval <= 0 {
		c.Interval = 2 * time.Second
	}
}

// AlertingConfig contains configuration-alert rate limiting.
type AlertingConfig struct {
	// MinInterval is the minimum spacing between repeated missing-secret
	// alerts.
	MinInterval time.Duration `env:"MIN_INTERVAL" envDefault:"1h"`
}

// Sanitize applies guardrails to alerting configuration values.
func (c *AlertingConfig) Sanitize() {
	if c.MinInterval <= 0 {
		c.MinInterval = time.Hour
	}
}
