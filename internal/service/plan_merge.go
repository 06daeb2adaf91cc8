package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/planhub/planhub-api/internal/core"
	"github.com/planhub/planhub-api/internal/observability/metrics"
	"github.com/planhub/planhub-api/internal/observability/statsd"
)

// outputExpr extracts the workflow output object from a callback result.
const outputExpr = "output"

// JMESPathEvaluator abstracts JMESPath operations for testability.
type JMESPathEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathLibEvaluator implements JMESPathEvaluator using go-jmespath.
type jmespathLibEvaluator struct{}

func (j jmespathLibEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return nil
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (j jmespathLibEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// PlanMergeServiceOptions groups dependencies for PlanMergeService.
type PlanMergeServiceOptions struct {
	Plans     core.PlanRepository // Required: plan persistence
	Cache     core.CacheRepository
	Evaluator JMESPathEvaluator // Optional: defaults to go-jmespath
	Logger    *slog.Logger
	Metrics   statsd.Sink
}

// PlanMergeService merges completed workflow output into the owner's latest
// plan. It runs in a detached failure domain: every error is caught and
// logged, nothing is retried, and no error propagates to the caller.
type PlanMergeService struct {
	plans   core.PlanRepository
	cache   core.CacheRepository
	jems    JMESPathEvaluator
	logger  *slog.Logger
	metrics statsd.Sink
}

// NewPlanMergeService constructs a new PlanMergeService.
func NewPlanMergeService(opts PlanMergeServiceOptions) *PlanMergeService {
	if opts.Plans == nil {
		panic("PlanRepository is required")
	}

	jems := opts.Evaluator
	if jems == nil {
		jems = jmespathLibEvaluator{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &PlanMergeService{
		plans:   opts.Plans,
		cache:   opts.Cache,
		jems:    jems,
		logger:  logger.With("component", "plan_merge"),
		metrics: opts.Metrics,
	}
}

// PlanMergeParams carries one merge request.
type PlanMergeParams struct {
	OwnerID string
	JobID   string
	// Result is the callback's result object; the workflow output lives under
	// its "output" key.
	Result map[string]any
}

// Process applies the workflow output to the owner's most recent plan.
// It never returns an error: the webhook response has already been sent by
// the time this runs, so there is nobody to report failure to. Outcomes are
// logged and counted instead.
func (s *PlanMergeService) Process(ctx context.Context, params PlanMergeParams) {
	start := time.Now()
	log := s.logger.With("owner_id", params.OwnerID, "job_id", params.JobID)

	emit := func(result string, err error) {
		metrics.EmitPlanMerge(s.metrics, result, time.Since(start), err)
	}

	output, err := s.extractOutput(params.Result)
	if err != nil {
		log.WarnContext(ctx, "callback result has no usable output", "error", err)
		emit("invalid_output", err)
		return
	}

	if params.OwnerID == "" {
		log.WarnContext(ctx, "callback carries no owner id, skipping merge")
		emit("no_owner", nil)
		return
	}

	plan, err := s.plans.LatestForUser(ctx, params.OwnerID)
	if err != nil {
		log.WarnContext(ctx, "locate latest plan", "error", err)
		emit("no_plan", err)
		return
	}

	merged, err := mergeGeneratedContent(plan.GeneratedContent, output)
	if err != nil {
		log.ErrorContext(ctx, "merge generated content", "plan_id", plan.ID, "error", err)
		emit(metrics.ResultError, err)
		return
	}

	if err := s.plans.SaveGeneratedContent(ctx, plan.ID, merged); err != nil {
		log.ErrorContext(ctx, "save generated content", "plan_id", plan.ID, "error", err)
		emit(metrics.ResultError, err)
		return
	}

	s.invalidateCache(ctx, params.OwnerID, log)

	log.InfoContext(ctx, "plan merged", "plan_id", plan.ID)
	emit("merged", nil)
}

// extractOutput validates the result shape and returns the output object.
func (s *PlanMergeService) extractOutput(result map[string]any) (map[string]any, error) {
	if result == nil {
		return nil, errors.New("result is missing")
	}
	raw, err := s.jems.Evaluate(outputExpr, result)
	if err != nil {
		return nil, fmt.Errorf("evaluate %q: %w", outputExpr, err)
	}
	output, ok := raw.(map[string]any)
	if !ok || output == nil {
		return nil, fmt.Errorf("result.%s is not an object", outputExpr)
	}
	return output, nil
}

// mergeGeneratedContent overlays output keys onto the stored content.
// Last write wins per key; concurrent callbacks for the same owner may
// interleave, which is accepted for this write path.
func mergeGeneratedContent(existing json.RawMessage, output map[string]any) (json.RawMessage, error) {
	content := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &content); err != nil {
			return nil, fmt.Errorf("decode stored content: %w", err)
		}
	}
	for k, v := range output {
		content[k] = v
	}
	merged, err := json.Marshal(content)
	if err != nil {
		return nil, fmt.Errorf("encode merged content: %w", err)
	}
	return merged, nil
}

func (s *PlanMergeService) invalidateCache(ctx context.Context, ownerID string, log *slog.Logger) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Delete(ctx, planCacheKey(ownerID)); err != nil {
		// Stale cache is tolerable; the TTL bounds the damage.
		log.WarnContext(ctx, "invalidate plan cache", "error", err)
	}
}

func planCacheKey(ownerID string) string { return "plans:user:" + ownerID }
