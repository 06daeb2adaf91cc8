// Package model defines the core data types used throughout the planhub callback system.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PayloadPreviewLimit bounds the stored payload preview to the first N bytes.
const PayloadPreviewLimit = 512

// Callback represents a received webhook delivery from the worker service.
// Exactly one row exists per CallbackID; redeliveries update the row in place.
type Callback struct {
	CallbackID     string          `json:"callback_id"      db:"callback_id"`
	EventType      string          `json:"event_type"       db:"event_type"`
	WorkflowName   string          `json:"workflow_name"    db:"workflow_name"`
	ExternalJobID  string          `json:"external_job_id"  db:"external_job_id"`
	SignatureValid bool            `json:"signature_valid"  db:"signature_valid"`
	SignatureHdr   string          `json:"signature_header" db:"signature_header"`
	VerifiedAt     *time.Time      `json:"verified_at"      db:"verified_at"`
	Payload        json.RawMessage `json:"payload"          db:"payload"`
	PayloadPreview string          `json:"payload_preview"  db:"payload_preview"`
	ViewedAt       *time.Time      `json:"viewed_at"        db:"viewed_at"`
	ViewedBy       *string         `json:"viewed_by"        db:"viewed_by"`
	CreatedAt      time.Time       `json:"created_at"       db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"       db:"updated_at"`
}

// CallbackSummary is the list-view projection of a Callback: it carries the
// bounded preview instead of the full stored payload.
type CallbackSummary struct {
	CallbackID     string     `json:"callback_id"     db:"callback_id"`
	EventType      string     `json:"event_type"      db:"event_type"`
	WorkflowName   string     `json:"workflow_name"   db:"workflow_name"`
	ExternalJobID  string     `json:"external_job_id" db:"external_job_id"`
	SignatureValid bool       `json:"signature_valid" db:"signature_valid"`
	PayloadPreview string     `json:"payload_preview" db:"payload_preview"`
	ViewedAt       *time.Time `json:"viewed_at"       db:"viewed_at"`
	CreatedAt      time.Time  `json:"created_at"      db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"      db:"updated_at"`
}

// UpsertCallbackParams carries the fields written on every delivery attempt.
type UpsertCallbackParams struct {
	CallbackID     string
	EventType      string
	WorkflowName   string
	ExternalJobID  string
	SignatureValid bool
	SignatureHdr   string
	Payload        json.RawMessage
}

// ErrCallbackIDRequired is returned when an upsert is attempted without a key.
var ErrCallbackIDRequired = errors.New("callback_id is required")

// Validate checks that the params can be persisted.
func (p UpsertCallbackParams) Validate() error {
	if p.CallbackID == "" {
		return ErrCallbackIDRequired
	}
	return nil
}

// NewFallbackCallbackID generates a synthetic idempotency key for deliveries
// that carry no job identifier but must still leave an audit record.
func NewFallbackCallbackID() string {
	return "cb-" + uuid.NewString()
}

// PreviewOf returns the bounded-length preview of a raw payload.
func PreviewOf(raw []byte) string {
	if len(raw) <= PayloadPreviewLimit {
		return string(raw)
	}
	return string(raw[:PayloadPreviewLimit])
}

// WebhookPayload is the parsed body of a worker delivery. Only the identity
// fields are typed; the rest of the document is kept verbatim in Raw.
type WebhookPayload struct {
	Event        string          `json:"event"`
	JobID        string          `json:"job_id"`
	WorkflowName string          `json:"workflow_name"`
	UserID       string          `json:"user_id"`
	Result       json.RawMessage `json:"result"`

	// Raw is the original body bytes; never re-serialized.
	Raw json.RawMessage `json:"-"`
}

// ParseWebhookPayload decodes a raw delivery body.
func ParseWebhookPayload(raw []byte) (*WebhookPayload, error) {
	var p WebhookPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}
	p.Raw = append(json.RawMessage(nil), raw...)
	return &p, nil
}

// CallbackListQuery describes a cursor-paginated audit query.
// After is an exclusive created-at upper bound (results are newest-first).
type CallbackListQuery struct {
	After *time.Time
	Limit int
}

const (
	// DefaultCallbackListLimit is applied when no limit is requested.
	DefaultCallbackListLimit = 50
	// MaxCallbackListLimit caps a single audit page.
	MaxCallbackListLimit = 100
)

// Normalize clamps the query limit into the 1..100 range.
func (q *CallbackListQuery) Normalize() {
	if q.Limit <= 0 {
		q.Limit = DefaultCallbackListLimit
	}
	if q.Limit > MaxCallbackListLimit {
		q.Limit = MaxCallbackListLimit
	}
}
