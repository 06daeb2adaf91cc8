package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/planhub/planhub-api/internal/domain/model"
	"github.com/planhub/planhub-api/internal/mocks"
)

func TestPlanMergeService_MergesOutputIntoLatestPlan(t *testing.T) {
	ctrl := gomock.NewController(t)
	plans := mocks.NewMockPlanRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	svc := NewPlanMergeService(PlanMergeServiceOptions{Plans: plans, Cache: cache})

	existing := json.RawMessage(`{"days":[],"notes":"keep me"}`)
	plans.EXPECT().
		LatestForUser(gomock.Any(), "user-1").
		Return(&model.Plan{ID: "plan-1", UserID: "user-1", GeneratedContent: existing}, nil)

	var saved json.RawMessage
	plans.EXPECT().
		SaveGeneratedContent(gomock.Any(), "plan-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, content json.RawMessage) error {
			saved = content
			return nil
		})

	cache.EXPECT().Delete(gomock.Any(), "plans:user:user-1").Return(true, nil)

	svc.Process(context.Background(), PlanMergeParams{
		OwnerID: "user-1",
		JobID:   "job-1",
		Result: map[string]any{
			"output": map[string]any{
				"days": []any{map[string]any{"title": "Day 1"}},
			},
		},
	})

	require.NotNil(t, saved)
	var merged map[string]any
	require.NoError(t, json.Unmarshal(saved, &merged))
	assert.Equal(t, "keep me", merged["notes"], "untouched keys survive the merge")
	assert.NotEmpty(t, merged["days"], "output keys overwrite stored keys")
}

func TestPlanMergeService_InvalidOutputShapeSkipsWrite(t *testing.T) {
	ctrl := gomock.NewController(t)
	plans := mocks.NewMockPlanRepository(ctrl)

	svc := NewPlanMergeService(PlanMergeServiceOptions{Plans: plans})

	// No repository calls expected for any of these.
	cases := []map[string]any{
		nil,
		{},
		{"output": "not an object"},
		{"output": []any{"still", "wrong"}},
		{"output": nil},
	}
	for _, result := range cases {
		svc.Process(context.Background(), PlanMergeParams{
			OwnerID: "user-1",
			JobID:   "job-1",
			Result:  result,
		})
	}
}

func TestPlanMergeService_NoPlanIsANoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	plans := mocks.NewMockPlanRepository(ctrl)

	svc := NewPlanMergeService(PlanMergeServiceOptions{Plans: plans})

	plans.EXPECT().
		LatestForUser(gomock.Any(), "user-1").
		Return(nil, errors.New("plan not found"))

	// Must not panic or call SaveGeneratedContent.
	svc.Process(context.Background(), PlanMergeParams{
		OwnerID: "user-1",
		JobID:   "job-1",
		Result:  map[string]any{"output": map[string]any{"days": []any{}}},
	})
}

func TestPlanMergeService_SaveFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	plans := mocks.NewMockPlanRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	svc := NewPlanMergeService(PlanMergeServiceOptions{Plans: plans, Cache: cache})

	plans.EXPECT().
		LatestForUser(gomock.Any(), "user-1").
		Return(&model.Plan{ID: "plan-1", UserID: "user-1"}, nil)
	plans.EXPECT().
		SaveGeneratedContent(gomock.Any(), "plan-1", gomock.Any()).
		Return(errors.New("db down"))
	// Cache must not be touched when the write failed.

	svc.Process(context.Background(), PlanMergeParams{
		OwnerID: "user-1",
		JobID:   "job-1",
		Result:  map[string]any{"output": map[string]any{"k": "v"}},
	})
}

func TestPlanMergeService_CacheFailureDoesNotUndoMerge(t *testing.T) {
	ctrl := gomock.NewController(t)
	plans := mocks.NewMockPlanRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)

	svc := NewPlanMergeService(PlanMergeServiceOptions{Plans: plans, Cache: cache})

	plans.EXPECT().
		LatestForUser(gomock.Any(), "user-1").
		Return(&model.Plan{ID: "plan-1", UserID: "user-1"}, nil)
	plans.EXPECT().
		SaveGeneratedContent(gomock.Any(), "plan-1", gomock.Any()).
		Return(nil)
	cache.EXPECT().
		Delete(gomock.Any(), "plans:user:user-1").
		Return(false, errors.New("redis down"))

	svc.Process(context.Background(), PlanMergeParams{
		OwnerID: "user-1",
		JobID:   "job-1",
		Result:  map[string]any{"output": map[string]any{"k": "v"}},
	})
}

func TestMergeGeneratedContent_CorruptStoredContent(t *testing.T) {
	_, err := mergeGeneratedContent(json.RawMessage(`{not json`), map[string]any{"k": "v"})
	require.Error(t, err)
}
