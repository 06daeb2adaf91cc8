package model

import (
	"encoding/json"
	"time"
)

// Plan is the owning record that completed generation jobs merge into.
// Only the fields this subsystem touches are modeled here; the rest of the
// plan document lives with the main application.
type Plan struct {
	ID               string          `json:"id"                db:"id"`
	UserID           string          `json:"user_id"           db:"user_id"`
	Title            string          `json:"title"             db:"title"`
	GeneratedContent json.RawMessage `json:"generated_content" db:"generated_content"`
	DeletedAt        *time.Time      `json:"deleted_at"        db:"deleted_at"`
	CreatedAt        time.Time       `json:"created_at"        db:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"        db:"updated_at"`
}
