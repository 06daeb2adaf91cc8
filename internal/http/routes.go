package httpx

import (
	"log/slog"
	"net/http"

	"github.com/planhub/planhub-api/internal/core"
	"github.com/planhub/planhub-api/internal/observability/statsd"
	"github.com/planhub/planhub-api/internal/service"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Webhooks  *service.WebhookService
	Callbacks *service.CallbackService
	Worker    core.WorkerClient
	Poll      service.PollConfig
	Sessions  SessionResolver
	// DevToken enables a static bearer token for local development.
	DevToken string
	Metrics  statsd.Sink
	Logger   *slog.Logger
}

// NewRouter creates and configures the HTTP router. The webhook endpoint
// authenticates by payload signature; every other API route requires a
// session. Logging and recovery middleware wrap the returned handler at
// server bootstrap.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	webhookHandlers := &WebhookHandlers{
		Svc:     services.Webhooks,
		Metrics: services.Metrics,
		Logger:  logger,
	}
	jobHandlers := &JobHandlers{
		Worker:  services.Worker,
		Poll:    services.Poll,
		Metrics: services.Metrics,
		Logger:  logger,
	}
	callbackHandlers := &CallbackHandlers{Svc: services.Callbacks}

	protect := RequireSession(SessionMiddlewareConfig{
		Sessions: services.Sessions,
		DevToken: services.DevToken,
	})

	registerWebhookRoutes(mux, webhookHandlers)
	registerJobRoutes(mux, jobHandlers, protect)
	registerCallbackRoutes(mux, callbackHandlers, protect)
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	return mux
}
