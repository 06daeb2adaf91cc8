package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/planhub/planhub-api/internal/cryptoutil"
	"github.com/planhub/planhub-api/internal/domain/model"
	apperrors "github.com/planhub/planhub-api/internal/errors"
	"github.com/planhub/planhub-api/internal/mocks"
	"github.com/planhub/planhub-api/internal/observability/notify"
)

const testSecret = "test-webhook-secret"

// syncDispatch runs dispatched work inline so tests observe its effects.
func syncDispatch(fn func()) { fn() }

func signedBody(t *testing.T, body string) (rawBody []byte, header string) {
	t.Helper()
	raw := []byte(body)
	return raw, cryptoutil.Sign(raw, []byte(testSecret))
}

func echoUpsert(callbacks *mocks.MockCallbackRepository) *model.UpsertCallbackParams {
	var captured model.UpsertCallbackParams
	callbacks.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params model.UpsertCallbackParams) (*model.Callback, error) {
			captured = params
			return &model.Callback{
				CallbackID:     params.CallbackID,
				SignatureValid: params.SignatureValid,
				Payload:        params.Payload,
			}, nil
		})
	return &captured
}

func TestWebhookService_ValidSignatureAccepted(t *testing.T) {
	ctrl := gomock.NewController(t)
	callbacks := mocks.NewMockCallbackRepository(ctrl)
	captured := echoUpsert(callbacks)

	svc := NewWebhookService(WebhookServiceOptions{
		Callbacks: callbacks,
		Config:    WebhookConfig{Secret: testSecret},
		Dispatch:  syncDispatch,
	})

	raw, header := signedBody(t, `{
		"event": "workflow.completed",
		"job_id": "abc123",
		"workflow_name": "plan_generation",
		"result": {"output": {"days": []}}
	}`)

	receipt, err := svc.ProcessDelivery(context.Background(), raw, header)
	require.NoError(t, err)
	assert.Equal(t, "abc123", receipt.CallbackID)
	assert.Empty(t, receipt.Warning)

	assert.Equal(t, "abc123", captured.CallbackID)
	assert.True(t, captured.SignatureValid)
	assert.Equal(t, "workflow.completed", captured.EventType)
	assert.Equal(t, "plan_generation", captured.WorkflowName)
	assert.Equal(t, string(raw), string(captured.Payload))
}

func TestWebhookService_TamperedBodyRejectedButAudited(t *testing.T) {
	ctrl := gomock.NewController(t)
	callbacks := mocks.NewMockCallbackRepository(ctrl)
	captured := echoUpsert(callbacks)

	svc := NewWebhookService(WebhookServiceOptions{
		Callbacks: callbacks,
		Config:    WebhookConfig{Secret: testSecret},
		Dispatch:  syncDispatch,
	})

	raw, header := signedBody(t, `{"event":"workflow.completed","job_id":"abc123"}`)
	tampered := []byte(strings.Replace(string(raw), "abc123", "abc124", 1))

	_, err := svc.ProcessDelivery(context.Background(), tampered, header)
	require.ErrorIs(t, err, ErrSignatureInvalid)

	// The rejection still leaves an audit record.
	assert.Equal(t, "abc124", captured.CallbackID)
	assert.False(t, captured.SignatureValid)
	assert.Equal(t, header, captured.SignatureHdr)
}

func TestWebhookService_MissingSignatureNotPersisted(t *testing.T) {
	ctrl := gomock.NewController(t)
	callbacks := mocks.NewMockCallbackRepository(ctrl)
	// No Upsert expected.

	svc := NewWebhookService(WebhookServiceOptions{
		Callbacks: callbacks,
		Config:    WebhookConfig{Secret: testSecret},
		Dispatch:  syncDispatch,
	})

	_, err := svc.ProcessDelivery(context.Background(), []byte(`{"job_id":"abc123"}`), "")
	require.ErrorIs(t, err, ErrSignatureMissing)
}

func TestWebhookService_MissingJobIDOnVerifiedPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	callbacks := mocks.NewMockCallbackRepository(ctrl)

	svc := NewWebhookService(WebhookServiceOptions{
		Callbacks: callbacks,
		Config:    WebhookConfig{Secret: testSecret},
		Dispatch:  syncDispatch,
	})

	raw, header := signedBody(t, `{"event":"workflow.completed"}`)
	_, err := svc.ProcessDelivery(context.Background(), raw, header)
	require.Error(t, err)
	assert.True(t, apperrors.CodeOf(err) == apperrors.ErrCodeValidation)
}

func TestWebhookService_MalformedJSONOnVerifiedPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	callbacks := mocks.NewMockCallbackRepository(ctrl)

	svc := NewWebhookService(WebhookServiceOptions{
		Callbacks: callbacks,
		Config:    WebhookConfig{Secret: testSecret},
		Dispatch:  syncDispatch,
	})

	raw := []byte(`{not json`)
	header := cryptoutil.Sign(raw, []byte(testSecret))
	_, err := svc.ProcessDelivery(context.Background(), raw, header)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
}

func TestWebhookService_DegradedAcceptWithoutSecret(t *testing.T) {
	ctrl := gomock.NewController(t)
	callbacks := mocks.NewMockCallbackRepository(ctrl)
	captured := echoUpsert(callbacks)

	alerts := 0
	limiter := NewAlertLimiter(AlertLimiterOptions{
		Sink: notify.SinkFunc(func(context.Context, notify.ConfigAlertPayload) error {
			alerts++
			return nil
		}),
	})

	svc := NewWebhookService(WebhookServiceOptions{
		Callbacks: callbacks,
		Limiter:   limiter,
		Dispatch:  syncDispatch,
	})

	receipt, err := svc.ProcessDelivery(context.Background(),
		[]byte(`{"event":"workflow.completed","job_id":"abc123"}`), "sha256=whatever")
	require.NoError(t, err)
	assert.Equal(t, "abc123", receipt.CallbackID)
	assert.NotEmpty(t, receipt.Warning)
	assert.False(t, captured.SignatureValid)
	assert.Equal(t, 1, alerts)
}

func TestWebhookService_DegradedMalformedJSONIsClientError(t *testing.T) {
	ctrl := gomock.NewController(t)
	callbacks := mocks.NewMockCallbackRepository(ctrl)

	svc := NewWebhookService(WebhookServiceOptions{
		Callbacks: callbacks,
		Dispatch:  syncDispatch,
	})

	_, err := svc.ProcessDelivery(context.Background(), []byte(`{broken`), "sha256=whatever")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
}

func TestWebhookService_DegradedFallbackIDWhenJobIDAbsent(t *testing.T) {
	ctrl := gomock.NewController(t)
	callbacks := mocks.NewMockCallbackRepository(ctrl)
	captured := echoUpsert(callbacks)

	svc := NewWebhookService(WebhookServiceOptions{
		Callbacks: callbacks,
		Dispatch:  syncDispatch,
	})

	receipt, err := svc.ProcessDelivery(context.Background(),
		[]byte(`{"event":"workflow.completed"}`), "sha256=whatever")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(receipt.CallbackID, "cb-"))
	assert.Equal(t, receipt.CallbackID, captured.CallbackID)
}

func TestWebhookService_ProcessingPanicIsolated(t *testing.T) {
	ctrl := gomock.NewController(t)
	callbacks := mocks.NewMockCallbackRepository(ctrl)
	echoUpsert(callbacks)

	plans := mocks.NewMockPlanRepository(ctrl)
	plans.EXPECT().
		LatestForUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, string) (*model.Plan, error) {
			panic("boom")
		})

	svc := NewWebhookService(WebhookServiceOptions{
		Callbacks: callbacks,
		Merge:     NewPlanMergeService(PlanMergeServiceOptions{Plans: plans}),
		Config:    WebhookConfig{Secret: testSecret},
		Dispatch:  syncDispatch,
	})

	raw, header := signedBody(t, `{
		"event": "workflow.completed",
		"job_id": "abc123",
		"user_id": "user-1",
		"result": {"output": {"k": "v"}}
	}`)

	// Must not panic even with a synchronous dispatcher.
	receipt, err := svc.ProcessDelivery(context.Background(), raw, header)
	require.NoError(t, err)
	assert.Equal(t, "abc123", receipt.CallbackID)
}

func TestWebhookService_PersistErrorSurfaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	callbacks := mocks.NewMockCallbackRepository(ctrl)
	callbacks.EXPECT().
		Upsert(gomock.Any(), gomock.Any()).
		Return(nil, errors.New("db down"))

	svc := NewWebhookService(WebhookServiceOptions{
		Callbacks: callbacks,
		Config:    WebhookConfig{Secret: testSecret},
		Dispatch:  syncDispatch,
	})

	raw, header := signedBody(t, `{"event":"workflow.completed","job_id":"abc123"}`)
	_, err := svc.ProcessDelivery(context.Background(), raw, header)
	require.Error(t, err)
	assert.NotEqual(t, apperrors.ErrCodeValidation, apperrors.CodeOf(err))
}
