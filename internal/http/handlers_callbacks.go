package httpx

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/planhub/planhub-api/internal/data"
	"github.com/planhub/planhub-api/internal/domain/model"
	"github.com/planhub/planhub-api/internal/service"
)

// CallbackHandlers exposes the stored delivery audit trail to admins.
type CallbackHandlers struct {
	Svc *service.CallbackService
}

// List handles GET /api/callbacks with cursor pagination:
// ?after=<RFC3339>&limit=<1..100>, newest first.
func (h *CallbackHandlers) List(w http.ResponseWriter, r *http.Request) {
	query := model.CallbackListQuery{}

	if after := r.URL.Query().Get("after"); after != "" {
		ts, err := time.Parse(time.RFC3339, after)
		if err != nil {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_after", Err: errors.New("after must be an RFC3339 timestamp")})
			return
		}
		query.After = &ts
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 0 {
			WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_limit", Err: errors.New("limit must be a non-negative integer")})
			return
		}
		query.Limit = n
	}

	summaries, err := h.Svc.List(r.Context(), query)
	if err != nil {
		WriteAppError(w, err)
		return
	}

	if summaries == nil {
		summaries = []*model.CallbackSummary{}
	}
	WriteJSON(w, http.StatusOK, map[string]any{"callbacks": summaries})
}

// Get handles GET /api/callbacks/{id}: the full stored record, payload
// included, for forensics.
func (h *CallbackHandlers) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_callback_id", Err: errors.New("callback id is required")})
		return
	}

	callback, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, data.ErrCallbackNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "callback_not_found", Err: errors.New("callback not found")})
			return
		}
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, callback)
}

// MarkViewed handles POST /api/callbacks/{id}/viewed. The first viewer is
// recorded; later calls return the unchanged record.
func (h *CallbackHandlers) MarkViewed(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_callback_id", Err: errors.New("callback id is required")})
		return
	}

	viewedBy := "unknown"
	if session := GetSessionFromContext(r.Context()); session != nil {
		viewedBy = session.UserID
	}

	callback, err := h.Svc.MarkViewed(r.Context(), id, viewedBy)
	if err != nil {
		if errors.Is(err, data.ErrCallbackNotFound) {
			WriteError(w, ErrorParams{Code: http.StatusNotFound, ErrCode: "callback_not_found", Err: errors.New("callback not found")})
			return
		}
		WriteAppError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, callback)
}

func registerCallbackRoutes(mux *http.ServeMux, handlers *CallbackHandlers, protect func(http.Handler) http.Handler) {
	mux.Handle("GET /api/callbacks", protect(http.HandlerFunc(handlers.List)))
	mux.Handle("GET /api/callbacks/{id}", protect(http.HandlerFunc(handlers.Get)))
	mux.Handle("POST /api/callbacks/{id}/viewed", protect(http.HandlerFunc(handlers.MarkViewed)))
}
