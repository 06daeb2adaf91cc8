package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/planhub/planhub-api/internal/core"
	"github.com/planhub/planhub-api/internal/domain/model"
)

// CallbackServiceOptions groups dependencies for CallbackService.
type CallbackServiceOptions struct {
	Repo   core.CallbackRepository // Required
	Logger *slog.Logger            // Optional
}

// CallbackService exposes the audit surface over stored callback records.
// Records are never deleted here; the table is an audit trail.
type CallbackService struct {
	repo   core.CallbackRepository
	logger *slog.Logger
}

// NewCallbackService constructs a CallbackService.
func NewCallbackService(opts CallbackServiceOptions) *CallbackService {
	if opts.Repo == nil {
		panic("CallbackRepository is required")
	}
	return &CallbackService{repo: opts.Repo, logger: opts.Logger}
}

// List returns newest-first callback summaries for the audit view.
func (s *CallbackService) List(
	ctx context.Context,
	query model.CallbackListQuery,
) ([]*model.CallbackSummary, error) {
	query.Normalize()
	summaries, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list callbacks: %w", err)
	}
	return summaries, nil
}

// GetByID returns one stored callback with its full payload.
func (s *CallbackService) GetByID(ctx context.Context, callbackID string) (*model.Callback, error) {
	callback, err := s.repo.GetByID(ctx, callbackID)
	if err != nil {
		return nil, fmt.Errorf("get callback: %w", err)
	}
	return callback, nil
}

// MarkViewed records who first inspected a callback. Repeated calls are
// idempotent: the original viewer and timestamp win.
func (s *CallbackService) MarkViewed(
	ctx context.Context,
	callbackID, viewedBy string,
) (*model.Callback, error) {
	callback, err := s.repo.MarkViewed(ctx, callbackID, viewedBy)
	if err != nil {
		return nil, fmt.Errorf("mark callback viewed: %w", err)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "callback viewed", "callback_id", callbackID, "viewed_by", viewedBy)
	}
	return callback, nil
}
