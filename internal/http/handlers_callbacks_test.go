package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/planhub/planhub-api/internal/data"
	domainauth "github.com/planhub/planhub-api/internal/domain/auth"
	"github.com/planhub/planhub-api/internal/domain/model"
	"github.com/planhub/planhub-api/internal/mocks"
	"github.com/planhub/planhub-api/internal/service"
)

func newCallbackHandlers(t *testing.T) (*CallbackHandlers, *mocks.MockCallbackRepository) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockCallbackRepository(ctrl)
	svc := service.NewCallbackService(service.CallbackServiceOptions{Repo: repo})
	return &CallbackHandlers{Svc: svc}, repo
}

func TestCallbackList_ParsesQuery(t *testing.T) {
	h, repo := newCallbackHandlers(t)

	after := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	repo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q model.CallbackListQuery) ([]*model.CallbackSummary, error) {
			require.NotNil(t, q.After)
			assert.True(t, q.After.Equal(after))
			assert.Equal(t, 25, q.Limit)
			return []*model.CallbackSummary{{CallbackID: "abc123"}}, nil
		})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/callbacks?after=2024-06-01T10:00:00Z&limit=25", nil)
	h.List(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Callbacks []model.CallbackSummary `json:"callbacks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Callbacks, 1)
	assert.Equal(t, "abc123", resp.Callbacks[0].CallbackID)
}

func TestCallbackList_InvalidAfter(t *testing.T) {
	h, _ := newCallbackHandlers(t)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/callbacks?after=yesterday", nil)
	h.List(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCallbackList_EmptyResultIsArray(t *testing.T) {
	h, repo := newCallbackHandlers(t)

	repo.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/callbacks", nil)
	h.List(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"callbacks":[]}`, w.Body.String())
}

func TestCallbackGet_NotFound(t *testing.T) {
	h, repo := newCallbackHandlers(t)

	repo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, data.ErrCallbackNotFound)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/callbacks/missing", nil)
	r.SetPathValue("id", "missing")
	h.Get(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCallbackGet_ReturnsFullRecord(t *testing.T) {
	h, repo := newCallbackHandlers(t)

	repo.EXPECT().GetByID(gomock.Any(), "abc123").Return(&model.Callback{
		CallbackID: "abc123",
		Payload:    json.RawMessage(`{"event":"plan.generated"}`),
	}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/callbacks/abc123", nil)
	r.SetPathValue("id", "abc123")
	h.Get(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	var resp model.Callback
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "abc123", resp.CallbackID)
	assert.JSONEq(t, `{"event":"plan.generated"}`, string(resp.Payload))
}

func TestCallbackMarkViewed_UsesSessionUser(t *testing.T) {
	h, repo := newCallbackHandlers(t)

	repo.EXPECT().
		MarkViewed(gomock.Any(), "abc123", "admin-7").
		Return(&model.Callback{CallbackID: "abc123"}, nil)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/callbacks/abc123/viewed", nil)
	r.SetPathValue("id", "abc123")
	session := &domainauth.Session{ID: "s-1", UserID: "admin-7", Role: domainauth.RoleAdmin}
	r = r.WithContext(SetSessionInContext(r.Context(), session))
	h.MarkViewed(w, r)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestCallbackMarkViewed_NotFound(t *testing.T) {
	h, repo := newCallbackHandlers(t)

	repo.EXPECT().
		MarkViewed(gomock.Any(), "missing", gomock.Any()).
		Return(nil, data.ErrCallbackNotFound)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/callbacks/missing/viewed", nil)
	r.SetPathValue("id", "missing")
	h.MarkViewed(w, r)

	require.Equal(t, http.StatusNotFound, w.Code)
}
