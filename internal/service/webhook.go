package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/planhub/planhub-api/internal/core"
	"github.com/planhub/planhub-api/internal/cryptoutil"
	"github.com/planhub/planhub-api/internal/domain/model"
	apperrors "github.com/planhub/planhub-api/internal/errors"
)

// Sentinel errors mapped to 401 by the transport layer.
var (
	ErrSignatureMissing = errors.New("signature header is missing")
	ErrSignatureInvalid = errors.New("invalid signature")
)

// asyncProcessTimeout bounds a detached merge so a stuck database cannot
// leak goroutines forever.
const asyncProcessTimeout = 30 * time.Second

// CallbackReceipt is the success result of processing a delivery.
type CallbackReceipt struct {
	CallbackID string
	// Warning is set on the degraded-accept path (no secret configured).
	Warning string
}

// WebhookConfig groups webhook processing settings.
type WebhookConfig struct {
	// Secret is the shared HMAC key. Empty means verification is impossible
	// and deliveries are accepted in degraded mode.
	Secret string
}

// WebhookServiceOptions groups dependencies for WebhookService.
type WebhookServiceOptions struct {
	Callbacks core.CallbackRepository // Required: audit persistence
	Merge     *PlanMergeService       // Optional: async processing disabled if nil
	Limiter   *AlertLimiter           // Optional: degraded-accept alerting
	Config    WebhookConfig
	Logger    *slog.Logger
	// Dispatch runs the detached processing step. Defaults to a goroutine;
	// tests inject a synchronous variant.
	Dispatch func(fn func())
}

// WebhookService implements the delivery pipeline for worker callbacks:
// verify, persist, acknowledge, then process in a detached goroutine.
type WebhookService struct {
	callbacks core.CallbackRepository
	merge     *PlanMergeService
	limiter   *AlertLimiter
	secret    []byte
	logger    *slog.Logger
	dispatch  func(fn func())
}

// NewWebhookService constructs a WebhookService.
func NewWebhookService(opts WebhookServiceOptions) *WebhookService {
	if opts.Callbacks == nil {
		panic("CallbackRepository is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	dispatch := opts.Dispatch
	if dispatch == nil {
		dispatch = func(fn func()) { go fn() }
	}

	var secret []byte
	if opts.Config.Secret != "" {
		secret = []byte(opts.Config.Secret)
	}

	return &WebhookService{
		callbacks: opts.Callbacks,
		merge:     opts.Merge,
		limiter:   opts.Limiter,
		secret:    secret,
		logger:    logger.With("component", "webhook"),
		dispatch:  dispatch,
	}
}

// SecretConfigured reports whether signature verification is possible.
func (s *WebhookService) SecretConfigured() bool { return len(s.secret) > 0 }

// ProcessDelivery runs the verification and persistence pipeline over a raw
// delivery. Size limits are enforced by the transport layer before the body
// reaches this method; the signature is always computed over rawBody exactly
// as received.
func (s *WebhookService) ProcessDelivery(
	ctx context.Context,
	rawBody []byte,
	signatureHeader string,
) (*CallbackReceipt, error) {
	if signatureHeader == "" {
		// Unsigned deliveries are dropped without an audit record: with no
		// signature there is nothing to audit a forgery claim against.
		return nil, ErrSignatureMissing
	}

	if !s.SecretConfigured() {
		return s.acceptDegraded(ctx, rawBody, signatureHeader)
	}

	if !cryptoutil.VerifySignature(rawBody, signatureHeader, s.secret) {
		s.recordRejected(ctx, rawBody, signatureHeader)
		return nil, ErrSignatureInvalid
	}

	payload, err := model.ParseWebhookPayload(rawBody)
	if err != nil {
		return nil, &apperrors.AppError{Code: apperrors.ErrCodeValidation, Message: "invalid JSON payload", Cause: err}
	}
	if payload.JobID == "" {
		return nil, apperrors.Validation("job_id is required")
	}

	stored, err := s.callbacks.Upsert(ctx, upsertParamsFor(payload, signatureHeader, true))
	if err != nil {
		return nil, fmt.Errorf("persist callback: %w", err)
	}

	s.dispatchProcessing(payload)

	return &CallbackReceipt{CallbackID: stored.CallbackID}, nil
}

// acceptDegraded handles deliveries that arrive while no secret is
// configured: the payload still has to parse, the record is persisted
// unverified, and an operator alert fires through the limiter.
func (s *WebhookService) acceptDegraded(
	ctx context.Context,
	rawBody []byte,
	signatureHeader string,
) (*CallbackReceipt, error) {
	payload, err := model.ParseWebhookPayload(rawBody)
	if err != nil {
		return nil, &apperrors.AppError{Code: apperrors.ErrCodeValidation, Message: "invalid JSON payload", Cause: err}
	}

	params := upsertParamsFor(payload, signatureHeader, false)
	if params.CallbackID == "" {
		params.CallbackID = model.NewFallbackCallbackID()
	}

	stored, err := s.callbacks.Upsert(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("persist callback: %w", err)
	}

	if s.limiter != nil {
		// Alert delivery must not hold up the webhook response.
		s.dispatch(func() {
			s.limiter.MaybeAlert(context.WithoutCancel(ctx), stored.CallbackID)
		})
	}

	s.dispatchProcessing(payload)

	s.logger.WarnContext(ctx, "callback accepted without verification",
		"callback_id", stored.CallbackID)

	return &CallbackReceipt{
		CallbackID: stored.CallbackID,
		Warning:    "webhook secret not configured; signature not verified",
	}, nil
}

// recordRejected persists an audit row for a delivery that failed
// verification. Persistence failure here is logged but cannot change the
// response: the delivery is rejected either way.
func (s *WebhookService) recordRejected(ctx context.Context, rawBody []byte, signatureHeader string) {
	params := model.UpsertCallbackParams{
		SignatureValid: false,
		SignatureHdr:   signatureHeader,
		Payload:        rawBody,
	}
	// Unverified bytes: parse defensively for identity fields only.
	if payload, err := model.ParseWebhookPayload(rawBody); err == nil {
		params.CallbackID = payload.JobID
		params.EventType = payload.Event
		params.WorkflowName = payload.WorkflowName
		params.ExternalJobID = payload.JobID
	}
	if params.CallbackID == "" {
		params.CallbackID = model.NewFallbackCallbackID()
	}

	if _, err := s.callbacks.Upsert(ctx, params); err != nil {
		s.logger.ErrorContext(ctx, "persist rejected callback", "error", err)
	}
}

// dispatchProcessing hands the payload to the plan merge service in a
// detached goroutine. The response to the worker never waits on this, and a
// panic in the processing path must not reach the HTTP server.
func (s *WebhookService) dispatchProcessing(payload *model.WebhookPayload) {
	if s.merge == nil {
		return
	}

	var result map[string]any
	if len(payload.Result) > 0 {
		if err := json.Unmarshal(payload.Result, &result); err != nil {
			result = nil
		}
	}
	params := PlanMergeParams{
		OwnerID: payload.UserID,
		JobID:   payload.JobID,
		Result:  result,
	}

	s.dispatch(func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("panic in callback processing",
					"job_id", params.JobID,
					"panic", r,
					"stack", string(debug.Stack()))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), asyncProcessTimeout)
		defer cancel()
		s.merge.Process(ctx, params)
	})
}

func upsertParamsFor(payload *model.WebhookPayload, signatureHeader string, valid bool) model.UpsertCallbackParams {
	return model.UpsertCallbackParams{
		CallbackID:     payload.JobID,
		EventType:      payload.Event,
		WorkflowName:   payload.WorkflowName,
		ExternalJobID:  payload.JobID,
		SignatureValid: valid,
		SignatureHdr:   signatureHeader,
		Payload:        payload.Raw,
	}
}
