package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/planhub/planhub-api/internal/core"
	"github.com/planhub/planhub-api/internal/domain/model"
	"github.com/planhub/planhub-api/internal/observability/metrics"
	"github.com/planhub/planhub-api/internal/observability/statsd"
)

// Poll session defaults.
const (
	DefaultPollMaxAttempts = 10
	DefaultPollInterval    = 2 * time.Second
)

// PollState is the lifecycle state of a poll session.
type PollState string

const (
	PollStateIdle    PollState = "idle"
	PollStatePolling PollState = "polling"
	PollStateReady   PollState = "ready"
	PollStateTimeout PollState = "timeout"
	PollStateError   PollState = "error"
)

// Terminal reports whether no further transition can occur from the state.
func (s PollState) Terminal() bool {
	return s == PollStateReady || s == PollStateTimeout || s == PollStateError
}

// ErrPollCancelled is returned by Run when the session was cancelled.
var ErrPollCancelled = errors.New("poll session cancelled")

// PollResult is the terminal outcome of a session.
type PollResult struct {
	State    PollState
	Attempts int
	// Status is the worker's job document on the ready and error paths,
	// verbatim. Empty on timeout.
	Status json.RawMessage
	// Err describes the failure on the error path.
	Err error
}

// PollConfig groups poll session tunables.
type PollConfig struct {
	MaxAttempts int           // defaults to DefaultPollMaxAttempts
	Interval    time.Duration // defaults to DefaultPollInterval
}

// PollSessionOptions groups dependencies for a PollSession.
type PollSessionOptions struct {
	Worker  core.WorkerClient // Required
	JobID   string            // Required
	Config  PollConfig
	Logger  *slog.Logger
	Metrics statsd.Sink
}

// PollSession polls the worker for one job until it is ready, errors, or the
// attempt budget is exhausted. A session is single-use: Run may be called
// once. Nothing is persisted.
type PollSession struct {
	worker      core.WorkerClient
	jobID       string
	maxAttempts int
	interval    time.Duration
	logger      *slog.Logger
	metrics     statsd.Sink

	mu       sync.Mutex
	state    PollState
	attempts int

	cancelOnce sync.Once
	cancelled  chan struct{}
}

// NewPollSession constructs a PollSession in the idle state.
func NewPollSession(opts PollSessionOptions) *PollSession {
	if opts.Worker == nil {
		panic("WorkerClient is required")
	}
	if opts.JobID == "" {
		panic("JobID is required")
	}

	maxAttempts := opts.Config.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultPollMaxAttempts
	}
	interval := opts.Config.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &PollSession{
		worker:      opts.Worker,
		jobID:       opts.JobID,
		maxAttempts: maxAttempts,
		interval:    interval,
		logger:      logger.With("component", "poll_session", "job_id", opts.JobID),
		metrics:     opts.Metrics,
		state:       PollStateIdle,
		cancelled:   make(chan struct{}),
	}
}

// State returns the session's current state.
func (s *PollSession) State() PollState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Cancel stops the session: no new status checks start after Cancel returns,
// and the result of an in-flight check is discarded. The session performs no
// further state transition.
func (s *PollSession) Cancel() {
	s.cancelOnce.Do(func() { close(s.cancelled) })
}

// Run polls until a terminal outcome. The first check happens immediately;
// subsequent checks wait the configured interval. Context cancellation is
// treated like Cancel.
func (s *PollSession) Run(ctx context.Context) PollResult {
	s.mu.Lock()
	if s.state != PollStateIdle {
		state := s.state
		s.mu.Unlock()
		return PollResult{State: state, Attempts: s.attempts, Err: errors.New("session already run")}
	}
	s.state = PollStatePolling
	s.mu.Unlock()

	for {
		if s.isCancelled(ctx) {
			return s.cancelResult()
		}

		resp, err := s.worker.GetStatus(ctx, s.jobID)

		// A cancel racing the in-flight check wins: discard the result.
		if s.isCancelled(ctx) {
			return s.cancelResult()
		}

		if err != nil {
			return s.finish(PollResult{State: PollStateError, Err: fmt.Errorf("job status check: %w", err)})
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return s.finish(PollResult{
				State:  PollStateError,
				Status: resp.Body,
				Err:    fmt.Errorf("worker returned status %d", resp.StatusCode),
			})
		}

		outcome, err := classifyStatus(resp.Body)
		if err != nil {
			return s.finish(PollResult{State: PollStateError, Status: resp.Body, Err: err})
		}

		switch outcome {
		case PollStateReady:
			return s.finish(PollResult{State: PollStateReady, Status: resp.Body})
		case PollStateError:
			return s.finish(PollResult{
				State:  PollStateError,
				Status: resp.Body,
				Err:    errors.New("job reached a failed state"),
			})
		}

		s.mu.Lock()
		s.attempts++
		attempts := s.attempts
		s.mu.Unlock()

		if attempts >= s.maxAttempts {
			return s.finish(PollResult{State: PollStateTimeout})
		}

		if !s.sleep(ctx) {
			return s.cancelResult()
		}
	}
}

// classifyStatus maps a worker status document to a session outcome.
// A completed job is ready even when its result payload is empty; an empty
// result is a valid result.
func classifyStatus(body json.RawMessage) (PollState, error) {
	var doc struct {
		Status model.JobStatus `json:"status"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return PollStateError, fmt.Errorf("decode worker status: %w", err)
	}

	switch doc.Status {
	case model.JobStatusCompleted:
		return PollStateReady, nil
	case model.JobStatusFailed, model.JobStatusCancelled:
		return PollStateError, nil
	default:
		return PollStatePolling, nil
	}
}

func (s *PollSession) isCancelled(ctx context.Context) bool {
	select {
	case <-s.cancelled:
		return true
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// sleep waits one interval; returns false if cancelled while waiting.
func (s *PollSession) sleep(ctx context.Context) bool {
	timer := time.NewTimer(s.interval)
	defer timer.Stop()
	select {
	case <-s.cancelled:
		return false
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (s *PollSession) cancelResult() PollResult {
	s.mu.Lock()
	attempts := s.attempts
	s.mu.Unlock()
	return PollResult{State: s.State(), Attempts: attempts, Err: ErrPollCancelled}
}

func (s *PollSession) finish(result PollResult) PollResult {
	s.mu.Lock()
	s.state = result.State
	result.Attempts = s.attempts
	s.mu.Unlock()

	metrics.EmitPollOutcome(s.metrics, string(result.State), result.Attempts)
	if result.Err != nil && !errors.Is(result.Err, ErrPollCancelled) {
		s.logger.Warn("poll session finished", "state", result.State, "error", result.Err)
	}
	return result
}

// RunStatusPoll is a convenience wrapper used by the wait endpoint: it builds
// a session, ties cancellation to the request context, and returns the
// terminal outcome.
func RunStatusPoll(ctx context.Context, opts PollSessionOptions) PollResult {
	session := NewPollSession(opts)
	return session.Run(ctx)
}
