package slack

import (
	"strings"
	"testing"
	"time"

	"github.com/planhub/planhub-api/internal/observability/notify"
)

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient(Config{}); err == nil {
		t.Fatal("expected error when webhook url missing")
	}
}

func TestFormatMessageIncludesFields(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL: "https://hooks.slack.com/services/test",
		Channel:    "#alerts",
		Username:   "bot",
		Timeout:    time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := client.formatMessage(notify.ConfigAlertPayload{
		Reason:     notify.ReasonSecretMissing,
		Endpoint:   "/api/webhooks/job-callback",
		CallbackID: "job-123",
		Detail:     "callback accepted without verification",
	})

	if msg["username"] != "bot" {
		t.Fatalf("expected username to be preserved, got %v", msg["username"])
	}
	if msg["channel"] != "#alerts" {
		t.Fatalf("expected channel to be set, got %v", msg["channel"])
	}

	text, ok := msg["text"].(string)
	if !ok {
		t.Fatalf("expected text field")
	}
	if !containsAll(
		text,
		[]string{
			"Configuration alert",
			notify.ReasonSecretMissing,
			"/api/webhooks/job-callback",
			"job-123",
			"callback accepted without verification",
			notify.SeverityCritical,
		},
	) {
		t.Fatalf("message text missing fields: %s", text)
	}
}

func TestFormatMessageEscapesDetail(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL: "https://hooks.slack.com/services/test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := client.formatMessage(notify.ConfigAlertPayload{
		Reason: notify.ReasonSecretMissing,
		Detail: "secret & <unset>",
	})

	text, ok := msg["text"].(string)
	if !ok {
		t.Fatalf("expected text field")
	}

	if !strings.Contains(text, "secret &amp; &lt;unset&gt;") {
		t.Fatalf("expected escaped detail, got: %s", text)
	}
}

func TestFormatMessageMetadataSorted(t *testing.T) {
	client, err := NewClient(Config{
		WebhookURL: "https://hooks.slack.com/services/test",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msg := client.formatMessage(notify.ConfigAlertPayload{
		Reason: notify.ReasonSecretMissing,
		Metadata: map[string]string{
			"workflow": "plan_generation",
			"event":    "workflow.completed",
		},
	})

	text, ok := msg["text"].(string)
	if !ok {
		t.Fatalf("expected text field")
	}

	eventIdx := strings.Index(text, "event: workflow.completed")
	workflowIdx := strings.Index(text, "workflow: plan_generation")
	if eventIdx < 0 || workflowIdx < 0 || eventIdx > workflowIdx {
		t.Fatalf("expected sorted metadata in text: %s", text)
	}
}

func containsAll(text string, substrs []string) bool {
	for _, s := range substrs {
		if !strings.Contains(text, s) {
			return false
		}
	}
	return true
}
