package statsd

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"webhook.received":     "webhook.received",
		" poll.attempts ":      "poll.attempts",
		"plan merge/completed": "plan_merge_completed",
		"webhook..duration":    "webhook.duration",
		".poll.session.":       "poll.session",
		"":                     "",
		"   ":                  "",
	}

	for input, want := range cases {
		if got := sanitizeName(input); got != want {
			t.Errorf("sanitizeName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestTagSuffix(t *testing.T) {
	got := tagSuffix(map[string]string{
		"result":          " accepted ",
		"signature_valid": "true",
		"":                "dropped",
	})
	want := "|#result:accepted,signature_valid:true"
	if got != want {
		t.Errorf("tagSuffix = %q, want %q", got, want)
	}

	if got := tagSuffix(nil); got != "" {
		t.Errorf("tagSuffix(nil) = %q, want empty", got)
	}
	if got := tagSuffix(map[string]string{" ": "x"}); got != "" {
		t.Errorf("tagSuffix(blank keys) = %q, want empty", got)
	}
}

func TestQualifiedName(t *testing.T) {
	c := &Client{prefix: "planhub"}
	if got := c.qualifiedName("webhook.received"); got != "planhub.webhook.received" {
		t.Errorf("qualifiedName = %q", got)
	}

	bare := &Client{}
	if got := bare.qualifiedName("poll.session"); got != "poll.session" {
		t.Errorf("qualifiedName without prefix = %q", got)
	}
	if got := bare.qualifiedName("  "); got != "" {
		t.Errorf("qualifiedName(blank) = %q, want empty", got)
	}
}

func TestNewClientDisabledWithoutAddress(t *testing.T) {
	c, err := NewClient(Config{Enabled: true, Address: "  "})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.Enabled() {
		t.Error("client without address should be disabled")
	}

	// Emits against a disabled client are silent no-ops.
	c.Count("webhook.received", 1, nil)
	c.Timing("plan_merge.duration", time.Second, nil)
}

func TestNewClientDialError(t *testing.T) {
	_, err := NewClient(Config{Enabled: true, Address: "not a host"})
	if err == nil {
		t.Fatal("expected dial error")
	}
	if !strings.Contains(err.Error(), "statsd dial") {
		t.Errorf("error = %v, want statsd dial context", err)
	}
}

func TestClientEmitsWireFormat(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer pc.Close()

	c, err := NewClient(Config{
		Enabled: true,
		Address: pc.LocalAddr().String(),
		Prefix:  "planhub",
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer c.Close()

	if !c.Enabled() {
		t.Fatal("client should be enabled")
	}

	read := func() string {
		t.Helper()
		if derr := pc.SetReadDeadline(time.Now().Add(2 * time.Second)); derr != nil {
			t.Fatalf("set deadline: %v", derr)
		}
		buf := make([]byte, 512)
		n, _, rerr := pc.ReadFrom(buf)
		if rerr != nil {
			t.Fatalf("read datagram: %v", rerr)
		}
		return string(buf[:n])
	}

	c.Count("webhook.received", 1, map[string]string{"result": "accepted"})
	if got, want := read(), "planhub.webhook.received:1|c|#result:accepted"; got != want {
		t.Errorf("count line = %q, want %q", got, want)
	}

	c.Gauge("poll.attempts", 3, nil)
	if got, want := read(), "planhub.poll.attempts:3|g"; got != want {
		t.Errorf("gauge line = %q, want %q", got, want)
	}

	c.Timing("plan_merge.duration", 1500*time.Millisecond, nil)
	if got, want := read(), "planhub.plan_merge.duration:1500|ms"; got != want {
		t.Errorf("timing line = %q, want %q", got, want)
	}
}

func TestClientCloseIdempotent(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()

	c := &Client{enabled: true, conn: client}
	if !c.Enabled() {
		t.Error("expected enabled client")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}
	if c.Enabled() {
		t.Error("closed client should be disabled")
	}

	// Emitting after close must not panic.
	c.Count("webhook.received", 1, nil)
}

func TestNilClientIsSafe(t *testing.T) {
	var c *Client
	if c.Enabled() {
		t.Error("nil client should report disabled")
	}
	c.Count("webhook.received", 1, nil)
	c.Gauge("poll.attempts", 1, nil)
	c.Timing("webhook.duration", time.Second, nil)
	if err := c.Close(); err != nil {
		t.Errorf("nil close: %v", err)
	}
}
