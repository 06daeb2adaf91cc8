package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/planhub/planhub-api/internal/core"
	"github.com/planhub/planhub-api/internal/observability/notify"
)

// DefaultAlertMinInterval is the minimum gap between two misconfiguration alerts.
const DefaultAlertMinInterval = time.Hour

// AlertLimiterConfig groups tunables for the alert limiter.
type AlertLimiterConfig struct {
	// MinInterval between alerts; defaults to DefaultAlertMinInterval.
	MinInterval time.Duration
	// Endpoint reported in the alert payload.
	Endpoint string
}

// AlertLimiterOptions groups dependencies for AlertLimiter.
type AlertLimiterOptions struct {
	Sink   notify.Sink // Required: alert destination
	Clock  core.Clock  // Optional: defaults to system clock
	Config AlertLimiterConfig
	Logger *slog.Logger // Optional: structured logger
}

// AlertLimiter rate-limits operational alerts about a missing webhook secret.
// State is instance-local: a fleet of N instances may alert up to N times per
// interval, which is an accepted trade against shared coordination state.
type AlertLimiter struct {
	sink        notify.Sink
	clock       core.Clock
	minInterval time.Duration
	endpoint    string
	logger      *slog.Logger

	mu       sync.Mutex
	lastSent time.Time
}

// NewAlertLimiter constructs an AlertLimiter.
func NewAlertLimiter(opts AlertLimiterOptions) *AlertLimiter {
	if opts.Sink == nil {
		panic("notify.Sink is required")
	}

	clock := opts.Clock
	if clock == nil {
		clock = core.SystemClock{}
	}

	minInterval := opts.Config.MinInterval
	if minInterval <= 0 {
		minInterval = DefaultAlertMinInterval
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AlertLimiter{
		sink:        opts.Sink,
		clock:       clock,
		minInterval: minInterval,
		endpoint:    opts.Config.Endpoint,
		logger:      logger.With("component", "alert_limiter"),
	}
}

// MaybeAlert sends a misconfiguration alert unless one was sent within the
// configured interval. Returns true if an alert was dispatched. The interval
// slot is claimed before the send so a slow sink cannot cause a burst; a
// failed send is logged and not retried until the next interval.
func (l *AlertLimiter) MaybeAlert(ctx context.Context, callbackID string) bool {
	now := l.clock.Now()

	l.mu.Lock()
	if !l.lastSent.IsZero() && now.Sub(l.lastSent) < l.minInterval {
		l.mu.Unlock()
		return false
	}
	l.lastSent = now
	l.mu.Unlock()

	err := l.sink.SendConfigAlert(ctx, notify.ConfigAlertPayload{
		Reason:     notify.ReasonSecretMissing,
		Endpoint:   l.endpoint,
		CallbackID: callbackID,
		Detail:     "callback accepted without signature verification",
		Severity:   notify.SeverityCritical,
		OccurredAt: now,
	})
	if err != nil {
		l.logger.ErrorContext(ctx, "send config alert", "error", fmt.Errorf("send config alert: %w", err))
		return false
	}

	l.logger.WarnContext(ctx, "webhook secret missing alert sent", "callback_id", callbackID)
	return true
}
