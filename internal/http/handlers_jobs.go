// Package httpx provides HTTP handlers and utilities for the planhub callback API.
package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/planhub/planhub-api/internal/core"
	"github.com/planhub/planhub-api/internal/observability/statsd"
	"github.com/planhub/planhub-api/internal/service"
)

// JobHandlers proxies job status operations to the worker API. The worker
// API secret never leaves the server; clients authenticate with a session.
type JobHandlers struct {
	Worker  core.WorkerClient
	Poll    service.PollConfig
	Metrics statsd.Sink
	Logger  *slog.Logger
}

// GetStatus handles GET /api/jobs/{id}: a pass-through of the worker's
// status document, body and status code unchanged.
func (h *JobHandlers) GetStatus(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_job_id", Err: errors.New("job id is required")})
		return
	}

	resp, err := h.Worker.GetStatus(r.Context(), jobID)
	if err != nil {
		h.writeWorkerError(w, err)
		return
	}

	writePassThrough(w, resp)
}

// Cancel handles POST /api/jobs/{id}/cancel by issuing a singleton batch
// delete against the worker.
func (h *JobHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_job_id", Err: errors.New("job id is required")})
		return
	}

	resp, err := h.Worker.CancelJobs(r.Context(), []string{jobID})
	if err != nil {
		h.writeWorkerError(w, err)
		return
	}

	writePassThrough(w, resp)
}

type waitResponse struct {
	State    service.PollState `json:"state"`
	Attempts int               `json:"attempts"`
	Status   any               `json:"status,omitempty"`
	Message  string            `json:"message,omitempty"`
}

// Wait handles GET /api/jobs/{id}/wait: one bounded poll session runs
// server-side and the terminal outcome maps onto the response status. Ready
// is 200, exhausting the attempt budget is 504, a failed or unreachable job
// is 502.
func (h *JobHandlers) Wait(w http.ResponseWriter, r *http.Request) {
	jobID := r.PathValue("id")
	if jobID == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_job_id", Err: errors.New("job id is required")})
		return
	}

	result := service.RunStatusPoll(r.Context(), service.PollSessionOptions{
		Worker:  h.Worker,
		JobID:   jobID,
		Config:  h.Poll,
		Logger:  h.Logger,
		Metrics: h.Metrics,
	})

	if errors.Is(result.Err, service.ErrPollCancelled) {
		// The client went away; there is nobody left to answer.
		return
	}

	resp := waitResponse{State: result.State, Attempts: result.Attempts}
	if len(result.Status) > 0 {
		resp.Status = result.Status
	}

	switch result.State {
	case service.PollStateReady:
		WriteJSON(w, http.StatusOK, resp)
	case service.PollStateTimeout:
		WriteJSON(w, http.StatusGatewayTimeout, resp)
	default:
		if result.Err != nil {
			resp.Message = result.Err.Error()
		}
		WriteJSON(w, http.StatusBadGateway, resp)
	}
}

func (h *JobHandlers) writeWorkerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrJobNotFound):
		WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "job_not_found", Err: errors.New("job not found")})
	case errors.Is(err, core.ErrWorkerSecretMissing):
		if h.Logger != nil {
			h.Logger.Error("worker API secret not configured")
		}
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "worker_not_configured", Err: errors.New("worker API not configured")})
	default:
		if h.Logger != nil {
			h.Logger.Error("worker request failed", slog.Any("error", err))
		}
		WriteError(w, ErrorParams{Code: http.StatusBadGateway, ErrCode: "worker_unreachable", Err: errors.New("worker request failed")})
	}
}

// writePassThrough relays the worker's response verbatim.
func writePassThrough(w http.ResponseWriter, resp *core.WorkerStatusResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	if len(resp.Body) > 0 {
		_, _ = w.Write(resp.Body)
	}
}

func registerJobRoutes(mux *http.ServeMux, handlers *JobHandlers, protect func(http.Handler) http.Handler) {
	mux.Handle("GET /api/jobs/{id}", protect(http.HandlerFunc(handlers.GetStatus)))
	mux.Handle("POST /api/jobs/{id}/cancel", protect(http.HandlerFunc(handlers.Cancel)))
	mux.Handle("GET /api/jobs/{id}/wait", protect(http.HandlerFunc(handlers.Wait)))
}
