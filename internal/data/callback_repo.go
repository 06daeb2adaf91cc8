package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	apperrors "github.com/planhub/planhub-api/internal/errors"

	"github.com/planhub/planhub-api/internal/data/pgxutil"
	"github.com/planhub/planhub-api/internal/domain/model"
)

// CallbackRepo provides persistence for received worker webhook deliveries.
//
// The worker_callbacks table carries a primary key on callback_id; the upsert
// relies on that constraint so that concurrent redeliveries of the same
// logical event collapse into a single row without in-process locking.
type CallbackRepo struct {
	DB *sql.DB
}

// NewCallbackRepo constructs a CallbackRepo.
func NewCallbackRepo(db *sql.DB) *CallbackRepo {
	return &CallbackRepo{DB: db}
}

// Upsert stores or updates the callback record for a delivery, atomically.
// On redelivery the mutable fields reflect the latest attempt while
// created_at keeps the first-seen timestamp. verified_at is set when the
// signature first verifies and is never cleared by a later invalid attempt.
func (r *CallbackRepo) Upsert(
	ctx context.Context,
	params model.UpsertCallbackParams,
) (*model.Callback, error) {
	if r == nil || r.DB == nil {
		return nil, ErrCallbacksNotConfigured
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	const query = `
		INSERT INTO worker_callbacks (
			callback_id, event_type, workflow_name, external_job_id,
			signature_valid, signature_header, verified_at,
			payload, payload_preview, created_at, updated_at
		)
		VALUES (
			$1, $2, $3, $4,
			$5, $6, CASE WHEN $5 THEN now() END,
			$7, $8, now(), now()
		)
		ON CONFLICT (callback_id)
		DO UPDATE SET
			event_type = EXCLUDED.event_type,
			workflow_name = EXCLUDED.workflow_name,
			external_job_id = EXCLUDED.external_job_id,
			signature_valid = EXCLUDED.signature_valid,
			signature_header = EXCLUDED.signature_header,
			verified_at = COALESCE(worker_callbacks.verified_at, EXCLUDED.verified_at),
			payload = EXCLUDED.payload,
			payload_preview = EXCLUDED.payload_preview,
			updated_at = now()
		RETURNING callback_id, event_type, workflow_name, external_job_id,
			signature_valid, signature_header, verified_at,
			payload, payload_preview, viewed_at, viewed_by,
			created_at, updated_at`

	var stored *model.Callback
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query,
			params.CallbackID,
			params.EventType,
			params.WorkflowName,
			params.ExternalJobID,
			params.SignatureValid,
			params.SignatureHdr,
			params.Payload,
			model.PreviewOf(params.Payload),
		)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Callback])
		if err != nil {
			return err
		}
		stored = &row
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("upsert worker_callbacks: %w", apperrors.MapDBError(err))
	}
	return stored, nil
}

// GetByID retrieves a callback record including its full stored payload.
func (r *CallbackRepo) GetByID(ctx context.Context, callbackID string) (*model.Callback, error) {
	if r == nil || r.DB == nil {
		return nil, ErrCallbacksNotConfigured
	}
	if callbackID == "" {
		return nil, model.ErrCallbackIDRequired
	}

	const query = `
		SELECT callback_id, event_type, workflow_name, external_job_id,
			signature_valid, signature_header, verified_at,
			payload, payload_preview, viewed_at, viewed_by,
			created_at, updated_at
		FROM worker_callbacks
		WHERE callback_id = $1`

	var res *model.Callback
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, callbackID)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Callback])
		if err != nil {
			return err
		}
		res = &row
		return nil
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCallbackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get worker_callbacks: %w", apperrors.MapDBError(err))
	}
	return res, nil
}

// List returns callback summaries newest-first. The query's After timestamp
// is an exclusive cursor: pass the created_at of the last row of the previous
// page to fetch the next one.
func (r *CallbackRepo) List(
	ctx context.Context,
	query model.CallbackListQuery,
) ([]*model.CallbackSummary, error) {
	if r == nil || r.DB == nil {
		return nil, ErrCallbacksNotConfigured
	}
	query.Normalize()

	const baseQuery = `
		SELECT callback_id, event_type, workflow_name, external_job_id,
			signature_valid, payload_preview, viewed_at,
			created_at, updated_at
		FROM worker_callbacks`

	sqlQuery := baseQuery + `
		ORDER BY created_at DESC, callback_id DESC
		LIMIT $1`
	args := []any{query.Limit}
	if query.After != nil {
		sqlQuery = baseQuery + `
		WHERE created_at < $2
		ORDER BY created_at DESC, callback_id DESC
		LIMIT $1`
		args = append(args, *query.After)
	}

	var out []*model.CallbackSummary
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, sqlQuery, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		collected, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.CallbackSummary])
		if err != nil {
			return err
		}
		for i := range collected {
			row := collected[i]
			out = append(out, &row)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list worker_callbacks: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

// MarkViewed records admin review bookkeeping. The write is idempotent:
// the first reviewer wins and repeat calls leave the row unchanged.
func (r *CallbackRepo) MarkViewed(
	ctx context.Context,
	callbackID, viewedBy string,
) (*model.Callback, error) {
	if r == nil || r.DB == nil {
		return nil, ErrCallbacksNotConfigured
	}
	if callbackID == "" {
		return nil, model.ErrCallbackIDRequired
	}

	const query = `
		UPDATE worker_callbacks
		SET viewed_at = COALESCE(viewed_at, now()),
			viewed_by = COALESCE(viewed_by, $2)
		WHERE callback_id = $1
		RETURNING callback_id, event_type, workflow_name, external_job_id,
			signature_valid, signature_header, verified_at,
			payload, payload_preview, viewed_at, viewed_by,
			created_at, updated_at`

	var res *model.Callback
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, callbackID, viewedBy)
		if err != nil {
			return err
		}
		defer rows.Close()
		row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Callback])
		if err != nil {
			return err
		}
		res = &row
		return nil
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCallbackNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mark worker_callbacks viewed: %w", apperrors.MapDBError(err))
	}
	return res, nil
}
