package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/planhub/planhub-api/config"
	httpx "github.com/planhub/planhub-api/internal/http"
	"github.com/planhub/planhub-api/internal/observability/statsd"
	"github.com/planhub/planhub-api/internal/service"
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// NewHTTPServer builds the HTTP server with the full middleware stack.
// The caller owns the listen/shutdown lifecycle.
func NewHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	// A dev token only exists in dev mode; production always resolves
	// sessions against Redis.
	devToken := ""
	if appCfg.IsDev {
		devToken = appCfg.Auth.DevToken
	}

	services := httpx.RouterServices{
		Webhooks:  cfg.Services.Webhooks,
		Callbacks: cfg.Services.Callbacks,
		Worker:    cfg.Services.Worker,
		Poll:      pollConfig(appCfg.Poll),
		Sessions:  cfg.Services.Sessions,
		DevToken:  devToken,
		Metrics:   routerMetrics(cfg.Services.Observability),
		Logger:    logger,
	}

	handler := buildHTTPHandler(httpHandlerConfig{
		Logger:   logger,
		Services: services,
	})

	return newServer(handler, appCfg.HTTP.Addr)
}

type httpHandlerConfig struct {
	Logger   *slog.Logger
	Services httpx.RouterServices
}

func buildHTTPHandler(cfg httpHandlerConfig) http.Handler {
	router := httpx.NewRouter(cfg.Services)

	// Order: Recover -> Logging -> Router
	h := router
	h = httpx.Logging(cfg.Logger)(h)
	h = httpx.Recover(cfg.Logger)(h)

	return h
}

func newServer(handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

func pollConfig(cfg config.PollConfig) service.PollConfig {
	return service.PollConfig{
		MaxAttempts: cfg.MaxAttempts,
		Interval:    cfg.Interval,
	}
}

func routerMetrics(obs ObservabilityContainer) statsd.Sink {
	if obs.MetricsSink == nil {
		return nil
	}
	return obs.MetricsSink
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server. In-flight
// requests get ten seconds to drain before the listener is torn down.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(cfg.Context, 10*time.Second)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
