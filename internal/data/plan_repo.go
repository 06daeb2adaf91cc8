package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	apperrors "github.com/planhub/planhub-api/internal/errors"

	"github.com/planhub/planhub-api/internal/data/pgxutil"
	"github.com/planhub/planhub-api/internal/domain/model"
)

// PlanRepo provides the narrow view of plan persistence the callback
// processor needs. Full plan CRUD lives with the main application.
type PlanRepo struct {
	DB *sql.DB
}

// NewPlanRepo constructs a PlanRepo.
func NewPlanRepo(db *sql.DB) *PlanRepo {
	return &PlanRepo{DB: db}
}

// LatestForUser returns the most recent non-deleted plan owned by userID.
func (r *PlanRepo) LatestForUser(ctx context.Context, userID string) (*model.Plan, error) {
	if r == nil || r.DB == nil {
		return nil, ErrPlansNotConfigured
	}
	if userID == "" {
		return nil, ErrUserIDRequired
	}

	const query = `
		SELECT id, user_id, title, generated_content, deleted_at, created_at, updated_at
		FROM plans
		WHERE user_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1`

	var res *model.Plan
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, userID)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Plan])
		if err != nil {
			return err
		}
		res = &row
		return nil
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("latest plan for user: %w", apperrors.MapDBError(err))
	}
	return res, nil
}

// SaveGeneratedContent writes merged generation output back to a plan.
// The caller performs the read-merge step; concurrent merges are
// last-write-wins by design.
func (r *PlanRepo) SaveGeneratedContent(
	ctx context.Context,
	planID string,
	content json.RawMessage,
) error {
	if r == nil || r.DB == nil {
		return ErrPlansNotConfigured
	}
	if planID == "" {
		return ErrPlanIDRequired
	}

	const query = `
		UPDATE plans
		SET generated_content = $2, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.DB.ExecContext(ctx, query, planID, content)
	if err != nil {
		return fmt.Errorf("save plan generated_content: %w", apperrors.MapDBError(err))
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save plan generated_content: rows affected: %w", err)
	}
	if affected == 0 {
		return ErrPlanNotFound
	}
	return nil
}
