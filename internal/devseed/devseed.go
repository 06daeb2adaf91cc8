// Package devseed populates a development environment with enough data to
// exercise the callback pipeline end to end: a demo plan row and a long-lived
// session for the demo user.
package devseed

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	redisadapter "github.com/planhub/planhub-api/internal/adapters/redis"
	domainauth "github.com/planhub/planhub-api/internal/domain/auth"
)

const (
	// DemoUserID owns the seeded plan. Point worker callbacks at this user
	// to watch a merge land.
	DemoUserID = "dev-user"

	// DemoSessionID is the bearer token accepted by the API in dev mode.
	DemoSessionID = "dev-session"

	demoSessionTTL = 30 * 24 * time.Hour
)

// Deps bundles the dependencies needed for development seeding.
type Deps struct {
	DB       *sql.DB
	Sessions *redisadapter.SessionStore
	Logger   *slog.Logger
}

// Run executes the development seeding workflow. It is idempotent; reruns
// leave existing rows untouched.
func Run(ctx context.Context, deps Deps) error {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := seedDemoPlan(ctx, deps.DB, logger); err != nil {
		return err
	}
	return seedDemoSession(ctx, deps.Sessions, logger)
}

func seedDemoPlan(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if db == nil {
		return nil
	}

	const existsQuery = `
		SELECT EXISTS (
			SELECT 1 FROM plans WHERE user_id = $1 AND deleted_at IS NULL
		)`

	var exists bool
	if err := db.QueryRowContext(ctx, existsQuery, DemoUserID).Scan(&exists); err != nil {
		return fmt.Errorf("check demo plan: %w", err)
	}
	if exists {
		logger.InfoContext(ctx, "demo plan already exists", "user_id", DemoUserID)
		return nil
	}

	const insertQuery = `
		INSERT INTO plans (id, user_id, title, generated_content)
		VALUES ($1, $2, $3, $4)`

	planID := uuid.NewString()
	content := `{"sections": {}}`
	if _, err := db.ExecContext(ctx, insertQuery, planID, DemoUserID, "Demo plan", content); err != nil {
		return fmt.Errorf("insert demo plan: %w", err)
	}

	logger.InfoContext(ctx, "created demo plan", "plan_id", planID, "user_id", DemoUserID)
	return nil
}

func seedDemoSession(ctx context.Context, sessions *redisadapter.SessionStore, logger *slog.Logger) error {
	if sessions == nil {
		return nil
	}

	if _, err := sessions.Get(ctx, DemoSessionID); err == nil {
		logger.InfoContext(ctx, "demo session already exists", "session_id", DemoSessionID)
		return nil
	}

	sess := domainauth.Session{
		ID:        DemoSessionID,
		UserID:    DemoUserID,
		Email:     "dev@planhub.local",
		Role:      domainauth.RoleAdmin,
		ExpiresAt: time.Now().Add(demoSessionTTL),
	}
	if err := sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("save demo session: %w", err)
	}

	logger.InfoContext(ctx, "created demo session", "session_id", DemoSessionID, "user_id", DemoUserID)
	return nil
}
