package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/planhub/planhub-api/config"
	redisadapter "github.com/planhub/planhub-api/internal/adapters/redis"
	"github.com/planhub/planhub-api/internal/adapters/workerclient"
	"github.com/planhub/planhub-api/internal/core"
	"github.com/planhub/planhub-api/internal/data"
	"github.com/planhub/planhub-api/internal/observability/notify"
	"github.com/planhub/planhub-api/internal/observability/notify/pagerduty"
	"github.com/planhub/planhub-api/internal/observability/notify/slack"
	"github.com/planhub/planhub-api/internal/observability/statsd"
	"github.com/planhub/planhub-api/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Webhooks      *service.WebhookService
	Callbacks     *service.CallbackService
	Worker        *workerclient.Client
	Sessions      *redisadapter.SessionStore
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	MetricsSink   *statsd.Client
	MetricsConfig config.ObservabilityMetricsConfig
	Alerts        *notify.Fanout
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config      *config.AppConfig
	DB          *sql.DB
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// serviceRepositories groups data adapters backing service ports.
type serviceRepositories struct {
	CallbackRepo *data.CallbackRepo
	PlanRepo     *data.PlanRepo
	CacheRepo    *data.RedisCacheRepo
	SessionStore *redisadapter.SessionStore
}

// buildObservability configures metrics and notification adapters.
func buildObservability(logger *slog.Logger, cfg config.ObservabilityConfig) ObservabilityContainer {
	obsLogger := logger
	if obsLogger == nil {
		obsLogger = slog.Default()
	}

	var metricsSink *statsd.Client
	if cfg.Metrics.IsEnabled() {
		client, err := statsd.NewClient(statsd.Config{
			Enabled: true,
			Address: cfg.Metrics.StatsdAddress,
			Prefix:  "planhub",
			Logger:  obsLogger,
		})
		if err != nil {
			obsLogger.Error("failed to initialise statsd client", "error", err)
		} else {
			metricsSink = client
		}
	}

	return ObservabilityContainer{
		MetricsSink:   metricsSink,
		MetricsConfig: cfg.Metrics,
		Alerts:        buildAlertFanout(obsLogger, cfg.Notifications),
	}
}

// buildAlertFanout wires the configured alert destinations.
func buildAlertFanout(logger *slog.Logger, cfg config.ObservabilityNotificationsConfig) *notify.Fanout {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	if !cfg.Enabled {
		return notify.NewFanout(notify.FanoutOptions{
			Logger: baseLogger.With("component", "config_alerts"),
		})
	}

	sinks := make([]notify.SinkRegistration, 0, 2)

	if cfg.Slack.Enabled {
		client, err := slack.NewClient(slack.Config{
			WebhookURL: cfg.Slack.WebhookURL,
			Channel:    cfg.Slack.Channel,
			Username:   cfg.Slack.Username,
			Timeout:    cfg.Timeout,
			RetryLimit: cfg.RetryLimit,
		})
		if err != nil {
			baseLogger.Error("failed to initialise slack notifier", "error", err)
		} else {
			sinks = append(sinks, notify.SinkRegistration{
				Name: "slack",
				Sink: client,
			})
		}
	}

	if cfg.PagerDuty.Enabled {
		client, err := pagerduty.NewClient(pagerduty.Config{
			RoutingKey: cfg.PagerDuty.RoutingKey,
			Source:     cfg.PagerDuty.Source,
			Component:  cfg.PagerDuty.Component,
			Timeout:    cfg.Timeout,
			RetryLimit: cfg.RetryLimit,
		})
		if err != nil {
			baseLogger.Error("failed to initialise pagerduty notifier", "error", err)
		} else {
			sinks = append(sinks, notify.SinkRegistration{
				Name: "pagerduty",
				Sink: client,
			})
		}
	}

	return notify.NewFanout(notify.FanoutOptions{
		Logger: baseLogger.With("component", "config_alerts"),
		Sinks:  sinks,
	})
}

// buildRepositories builds repositories backing service ports; no business rules here.
func buildRepositories(db *sql.DB, redisClient redis.UniversalClient, prefix string) *serviceRepositories {
	repos := &serviceRepositories{
		CallbackRepo: data.NewCallbackRepo(db),
		PlanRepo:     data.NewPlanRepo(db),
	}
	if redisClient != nil {
		repos.CacheRepo = data.NewRedisCacheRepo(redisClient)
		repos.SessionStore = redisadapter.NewSessionStoreWithPrefix(redisClient, prefix)
	}
	return repos
}

// NewServices wires repositories, adapters, and domain services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, fmt.Errorf("service dependencies are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	observability := buildObservability(logger, cfg.Observability)
	repos := buildRepositories(deps.DB, deps.RedisClient, cfg.Auth.SessionPrefix)

	worker, err := workerclient.New(workerclient.Options{
		BaseURL:   cfg.Worker.BaseURL,
		APISecret: cfg.Worker.APISecret,
		Timeout:   cfg.Worker.Timeout,
		Logger:    logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("build worker client: %w", err)
	}

	var cache core.CacheRepository
	if repos.CacheRepo != nil {
		cache = repos.CacheRepo
	}

	merge := service.NewPlanMergeService(service.PlanMergeServiceOptions{
		Plans:   repos.PlanRepo,
		Cache:   cache,
		Logger:  logger,
		Metrics: metricsSink(observability),
	})

	var limiter *service.AlertLimiter
	if observability.Alerts.Enabled() {
		limiter = service.NewAlertLimiter(service.AlertLimiterOptions{
			Sink: observability.Alerts,
			Config: service.AlertLimiterConfig{
				MinInterval: cfg.Alerting.MinInterval,
				Endpoint:    cfg.HTTP.BaseURL + "/api/webhooks/jobs",
			},
			Logger: logger,
		})
	}

	webhooks := service.NewWebhookService(service.WebhookServiceOptions{
		Callbacks: repos.CallbackRepo,
		Merge:     merge,
		Limiter:   limiter,
		Config:    service.WebhookConfig{Secret: cfg.Webhook.Secret},
		Logger:    logger,
	})

	callbacks := service.NewCallbackService(service.CallbackServiceOptions{
		Repo:   repos.CallbackRepo,
		Logger: logger,
	})

	return ServiceContainer{
		Webhooks:      webhooks,
		Callbacks:     callbacks,
		Worker:        worker,
		Sessions:      repos.SessionStore,
		Observability: observability,
	}, nil
}

// metricsSink converts the optional statsd client into a Sink without
// smuggling a typed nil through the interface.
func metricsSink(obs ObservabilityContainer) statsd.Sink {
	if obs.MetricsSink == nil {
		return nil
	}
	return obs.MetricsSink
}
