package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestFanoutSendConfigAlert(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	var received []ConfigAlertPayload
	fanout := NewFanout(FanoutOptions{
		Sinks: []SinkRegistration{
			{
				Name: "capture",
				Sink: SinkFunc(func(ctx context.Context, payload ConfigAlertPayload) error {
					mu.Lock()
					defer mu.Unlock()
					received = append(received, payload)
					return nil
				}),
			},
		},
	})

	if err := fanout.SendConfigAlert(ctx, ConfigAlertPayload{
		Reason:     ReasonSecretMissing,
		CallbackID: "abc123",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(received) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(received))
	}
	if received[0].Severity != SeverityCritical {
		t.Fatalf("expected severity to default to critical, got %s", received[0].Severity)
	}
}

func TestFanoutDisabled(t *testing.T) {
	fanout := NewFanout(FanoutOptions{})
	if fanout.Enabled() {
		t.Fatal("expected Enabled() to be false when no sinks registered")
	}
}

func TestFanoutToleratesSinkErrors(t *testing.T) {
	// A failing destination must not surface as a send error.
	fanout := NewFanout(FanoutOptions{
		Sinks: []SinkRegistration{
			{
				Name: "fail",
				Sink: SinkFunc(func(ctx context.Context, payload ConfigAlertPayload) error {
					return errors.New("boom")
				}),
			},
		},
	})

	if err := fanout.SendConfigAlert(context.Background(), ConfigAlertPayload{Reason: ReasonSecretMissing}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFanoutSkipsNilSinks(t *testing.T) {
	fanout := NewFanout(FanoutOptions{
		Sinks: []SinkRegistration{{Name: "nil"}},
	})
	if fanout.Enabled() {
		t.Fatal("expected nil sinks to be dropped")
	}
}
