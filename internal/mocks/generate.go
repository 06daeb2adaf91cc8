// Package mocks provides mock implementations for testing the planhub callback system.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for our repository
// and client interfaces. The mocks are generated using go:generate directives and provide a
// fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	mockRepo := mocks.NewMockCallbackRepository(ctrl)
//	mockRepo.EXPECT().Upsert(gomock.Any(), gomock.Any()).Return(callback, nil)
package mocks

// Generate mock for CallbackRepository interface from internal/core package.
// This creates MockCallbackRepository with methods for all CallbackRepository interface methods:
// Upsert, GetByID, List, MarkViewed
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=callback_repository_mock.go github.com/planhub/planhub-api/internal/core CallbackRepository

// Generate mock for PlanRepository interface from internal/core package.
// This creates MockPlanRepository with methods for all PlanRepository interface methods:
// LatestForUser, SaveGeneratedContent
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=plan_repository_mock.go github.com/planhub/planhub-api/internal/core PlanRepository

// Generate mock for CacheRepository interface from internal/core package.
// This creates MockCacheRepository with methods for all CacheRepository interface methods:
// Get, Set, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=cache_repository_mock.go github.com/planhub/planhub-api/internal/core CacheRepository

// Generate mock for WorkerClient interface from internal/core package.
// This creates MockWorkerClient with methods for all WorkerClient interface methods:
// GetStatus, CancelJobs
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=worker_client_mock.go github.com/planhub/planhub-api/internal/core WorkerClient
