package model

import (
	"encoding/json"
	"time"
)

// JobStatus mirrors the lifecycle states owned by the worker service.
// This subsystem only observes job state; it never mutates it.
type JobStatus string

const (
	// JobStatusPending indicates the worker has accepted but not started the job.
	JobStatusPending JobStatus = "pending"
	// JobStatusRunning indicates the worker is executing the job.
	JobStatusRunning JobStatus = "running"
	// JobStatusCompleted indicates the job finished successfully.
	JobStatusCompleted JobStatus = "completed"
	// JobStatusFailed indicates the job finished with an error.
	JobStatusFailed JobStatus = "failed"
	// JobStatusCancelled indicates the job was cancelled before completion.
	JobStatusCancelled JobStatus = "cancelled"
)

// Terminal reports whether the status can no longer change.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed || s == JobStatusCancelled
}

// WorkerJobStatus is the worker's job-status document as returned by its
// status API. Output is opaque structured data owned by the worker.
type WorkerJobStatus struct {
	JobID        string          `json:"job_id"`
	WorkflowName string          `json:"workflow_name"`
	Status       JobStatus       `json:"status"`
	CreatedAt    *time.Time      `json:"created_at"`
	StartedAt    *time.Time      `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at"`
	Output       json.RawMessage `json:"output"`
	ErrorMessage string          `json:"error_message"`
}
