package metrics

import (
	"strconv"
	"time"

	obserrors "github.com/planhub/planhub-api/internal/observability/errors"
	"github.com/planhub/planhub-api/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultAccepted = "accepted"
	ResultDegraded = "degraded"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// WebhookMetric captures details about one callback delivery for metric emission.
type WebhookMetric struct {
	Result         string
	Reason         string
	SignatureValid bool
	Duration       time.Duration
	Err            error
}

// EmitWebhookReceived emits standardised callback delivery metrics.
func EmitWebhookReceived(sink statsd.Sink, in WebhookMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"result":          in.Result,
		"signature_valid": strconv.FormatBool(in.SignatureValid),
	}
	if in.Reason != "" {
		tags["reason"] = in.Reason
	}
	if in.Err != nil && in.Result == ResultError {
		if class := obserrors.Classify(in.Err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("webhook.received", 1, tags)

	if in.Duration > 0 {
		sink.Timing("webhook.duration", in.Duration, CloneTags(tags))
	}
}

// EmitPlanMerge records the outcome of an asynchronous plan merge.
func EmitPlanMerge(sink statsd.Sink, result string, duration time.Duration, err error) {
	if sink == nil {
		return
	}

	tags := map[string]string{"result": result}
	if err != nil {
		if class := obserrors.Classify(err); class != "" {
			tags["error_class"] = class
		}
	}

	sink.Count("plan_merge.completed", 1, tags)
	if duration > 0 {
		sink.Timing("plan_merge.duration", duration, CloneTags(tags))
	}
}

// EmitPollOutcome records how a status poll session terminated.
func EmitPollOutcome(sink statsd.Sink, outcome string, attempts int) {
	if sink == nil {
		return
	}
	sink.Count("poll.session", 1, map[string]string{"outcome": outcome})
	sink.Gauge("poll.attempts", float64(attempts), map[string]string{"outcome": outcome})
}

// CloneTags creates a shallow copy of a tag map, filtering out empty keys.
func CloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
