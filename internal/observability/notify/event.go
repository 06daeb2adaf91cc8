package notify

import (
	"context"
	"time"
)

// Severity constants recognised by downstream sinks.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
)

// Alert reasons emitted by the webhook pipeline.
const (
	ReasonSecretMissing = "webhook_secret_missing"
)

// ConfigAlertPayload captures the canonical data we emit when the service
// detects a misconfiguration, such as receiving signed callbacks while no
// webhook secret is configured.
type ConfigAlertPayload struct {
	Reason     string
	Endpoint   string
	CallbackID string
	Detail     string
	Severity   string
	OccurredAt time.Time
	Metadata   map[string]string
}

// Sink describes a destination capable of consuming configuration alerts.
type Sink interface {
	SendConfigAlert(ctx context.Context, payload ConfigAlertPayload) error
}

// SinkFunc adapts a function to the Sink interface (useful for tests).
type SinkFunc func(ctx context.Context, payload ConfigAlertPayload) error

// SendConfigAlert implements the Sink interface.
func (f SinkFunc) SendConfigAlert(ctx context.Context, payload ConfigAlertPayload) error {
	if f == nil {
		return nil
	}
	return f(ctx, payload)
}
