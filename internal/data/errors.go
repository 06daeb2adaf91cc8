package data

import "errors"

// Shared sentinel errors for data-layer repositories.
var (
	// Callback repository sentinels.
	ErrCallbacksNotConfigured = errors.New("callback repository not configured")
	ErrCallbackNotFound       = errors.New("callback not found")

	// Plan repository sentinels.
	ErrPlansNotConfigured = errors.New("plan repository not configured")
	ErrPlanNotFound       = errors.New("no plan found for user")
	ErrUserIDRequired     = errors.New("user_id is required")
	ErrPlanIDRequired     = errors.New("plan id is required")
)
