package httpx

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/planhub/planhub-api/internal/observability/metrics"
	"github.com/planhub/planhub-api/internal/observability/statsd"
	"github.com/planhub/planhub-api/internal/service"
)

// maxWebhookBodyBytes caps callback payload size. The declared Content-Length
// is checked before reading and the actual length is enforced while reading,
// so a lying client cannot stream past the limit.
const maxWebhookBodyBytes = 1 << 20

// signatureHeader carries the HMAC signature of the raw request body.
const signatureHeader = "X-Signature"

// WebhookHandlers handles inbound job callback deliveries from the worker.
type WebhookHandlers struct {
	Svc     *service.WebhookService
	Metrics statsd.Sink
	Logger  *slog.Logger
}

type webhookResponse struct {
	Received   bool   `json:"received"`
	CallbackID string `json:"callbackId"`
	Warning    string `json:"warning,omitempty"`
}

// Receive handles POST /api/webhooks/jobs.
func (h *WebhookHandlers) Receive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.ContentLength > maxWebhookBodyBytes {
		h.emit(metrics.ResultRejected, "payload_too_large", false, start, nil)
		WriteError(w, ErrorParams{
			Code:    http.StatusRequestEntityTooLarge,
			ErrCode: "payload_too_large",
			Err:     errors.New("payload exceeds 1MB limit"),
		})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)
	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.emit(metrics.ResultRejected, "payload_too_large", false, start, nil)
			WriteError(w, ErrorParams{
				Code:    http.StatusRequestEntityTooLarge,
				ErrCode: "payload_too_large",
				Err:     errors.New("payload exceeds 1MB limit"),
			})
			return
		}
		h.emit(metrics.ResultError, "body_read", false, start, err)
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "body_read",
			Err:     errors.New("failed to read request body"),
		})
		return
	}

	receipt, err := h.Svc.ProcessDelivery(r.Context(), rawBody, r.Header.Get(signatureHeader))
	if err != nil {
		h.writeDeliveryError(w, err, start)
		return
	}

	resp := webhookResponse{Received: true, CallbackID: receipt.CallbackID, Warning: receipt.Warning}
	if receipt.Warning != "" {
		h.emit(metrics.ResultDegraded, "secret_missing", false, start, nil)
	} else {
		h.emit(metrics.ResultAccepted, "", true, start, nil)
	}
	WriteJSON(w, http.StatusOK, resp)
}

func (h *WebhookHandlers) writeDeliveryError(w http.ResponseWriter, err error, start time.Time) {
	switch {
	case errors.Is(err, service.ErrSignatureMissing):
		h.emit(metrics.ResultRejected, "signature_missing", false, start, nil)
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid signature"})
	case errors.Is(err, service.ErrSignatureInvalid):
		h.emit(metrics.ResultRejected, "signature_invalid", false, start, nil)
		WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid signature"})
	default:
		h.emit(metrics.ResultError, "", false, start, err)
		WriteAppError(w, err)
	}
}

func (h *WebhookHandlers) emit(result, reason string, valid bool, start time.Time, err error) {
	metrics.EmitWebhookReceived(h.Metrics, metrics.WebhookMetric{
		Result:         result,
		Reason:         reason,
		SignatureValid: valid,
		Duration:       time.Since(start),
		Err:            err,
	})
}

func registerWebhookRoutes(mux *http.ServeMux, handlers *WebhookHandlers) {
	mux.HandleFunc("POST /api/webhooks/jobs", handlers.Receive)
}
