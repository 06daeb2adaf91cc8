package notify

import (
	"context"
	"log/slog"
	"sync"
)

// SinkRegistration pairs a sink implementation with a human-readable name for logging.
type SinkRegistration struct {
	Name string
	Sink Sink
}

// FanoutOptions configures the alert fan-out.
type FanoutOptions struct {
	Logger *slog.Logger
	Sinks  []SinkRegistration
}

// Fanout dispatches configuration alerts to all registered sinks. Delivery
// errors are logged per sink; one failing destination never blocks another.
type Fanout struct {
	logger *slog.Logger
	sinks  []SinkRegistration
}

// NewFanout constructs an alert fan-out.
func NewFanout(opts FanoutOptions) *Fanout {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default().With("component", "config_alerts")
	}

	var sinks []SinkRegistration
	for _, entry := range opts.Sinks {
		if entry.Sink == nil {
			continue
		}
		name := entry.Name
		if name == "" {
			name = "sink"
		}
		sinks = append(sinks, SinkRegistration{
			Name: name,
			Sink: entry.Sink,
		})
	}

	return &Fanout{
		logger: logger,
		sinks:  sinks,
	}
}

// SendConfigAlert fans the payload out to all sinks and waits for delivery.
func (f *Fanout) SendConfigAlert(ctx context.Context, payload ConfigAlertPayload) error {
	if len(f.sinks) == 0 {
		return nil
	}

	if payload.Severity == "" {
		payload.Severity = SeverityCritical
	}

	var wg sync.WaitGroup
	for _, entry := range f.sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := entry.Sink.SendConfigAlert(ctx, payload); err != nil {
				f.logger.Error("config alert delivery error",
					"sink", entry.Name,
					"reason", payload.Reason,
					"callback_id", payload.CallbackID,
					"error", err,
				)
			}
		}()
	}
	wg.Wait()
	return nil
}

// Enabled reports whether the fan-out has any active sinks.
func (f *Fanout) Enabled() bool {
	return len(f.sinks) > 0
}
