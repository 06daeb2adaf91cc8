package core

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/planhub/planhub-api/internal/domain/model"
)

// This file contains repository and client interface definitions (ports in
// hexagonal architecture). Service implementations depend on these contracts,
// not on concrete implementations.

// CallbackRepository defines the interface for webhook callback persistence.
// Upsert must be atomic at the storage layer: concurrent redeliveries of the
// same callback_id may never produce more than one row.
type CallbackRepository interface {
	Upsert(ctx context.Context, params model.UpsertCallbackParams) (*model.Callback, error)
	GetByID(ctx context.Context, callbackID string) (*model.Callback, error)
	List(ctx context.Context, query model.CallbackListQuery) ([]*model.CallbackSummary, error)
	MarkViewed(ctx context.Context, callbackID, viewedBy string) (*model.Callback, error)
}

// PlanRepository defines the subset of plan persistence this subsystem needs:
// locating the owning record for a completed job and writing merged content.
type PlanRepository interface {
	LatestForUser(ctx context.Context, userID string) (*model.Plan, error)
	SaveGeneratedContent(ctx context.Context, planID string, content json.RawMessage) error
}

// CacheRepository defines the interface for cache operations.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) (bool, error)
}

// WorkerStatusResponse carries a worker API response for pass-through
// proxying: the upstream status code and the body verbatim.
type WorkerStatusResponse struct {
	StatusCode int
	Body       json.RawMessage
}

// ErrJobNotFound is returned by WorkerClient when the worker reports 404 for a job id.
var ErrJobNotFound = errors.New("job not found")

// ErrWorkerSecretMissing is returned when the server-to-worker secret is not configured.
var ErrWorkerSecretMissing = errors.New("worker API secret is not configured")

// WorkerClient defines the interface to the external worker service's job API.
// Implementations perform no retries; callers own their retry cadence.
type WorkerClient interface {
	GetStatus(ctx context.Context, jobID string) (*WorkerStatusResponse, error)
	CancelJobs(ctx context.Context, jobIDs []string) (*WorkerStatusResponse, error)
}

// Clock provides current time and can be replaced in tests.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using real system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time { return time.Now() }
