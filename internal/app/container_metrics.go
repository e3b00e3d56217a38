package app

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"virtual-vr-console/internal/metrics"
)

type metricsOut struct {
	dig.Out

	RateLimitExceededTotal    prometheus.Counter     `name:"rate_limit_exceeded_total"`
	EventPublishFailuresTotal prometheus.Counter     `name:"event_publish_failures_total"`
	ModerationActionsTotal    *prometheus.CounterVec `name:"moderation_actions_total"`
	ConsoleEmissionsTotal     *prometheus.CounterVec `name:"console_emissions_total"`
	ConsoleSessions           prometheus.Gauge       `name:"console_sessions"`
	AuthFailuresTotal         *prometheus.CounterVec `name:"auth_failures_total"`
	AuditEventsTotal          *prometheus.CounterVec `name:"audit_events_total"`
	MailRetriesTotal          prometheus.Counter     `name:"mail_retries_total"`
}

// provideMetrics registers the service collectors on the default registry.
// A collector registered earlier under the same name is reused.
func provideMetrics() (metricsOut, error) {
	var (
		out metricsOut
		err error
	)
	if out.RateLimitExceededTotal, err = register("rate_limit_exceeded_total", metrics.NewRateLimitExceededTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.EventPublishFailuresTotal, err = register("event_publish_failures_total", metrics.NewEventPublishFailuresTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.ModerationActionsTotal, err = register("moderation_actions_total", metrics.NewModerationActionsTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.ConsoleEmissionsTotal, err = register("console_emissions_total", metrics.NewConsoleEmissionsTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.ConsoleSessions, err = register("console_sessions", metrics.NewConsoleSessions()); err != nil {
		return metricsOut{}, err
	}
	if out.AuthFailuresTotal, err = register("auth_failures_total", metrics.NewAuthFailuresTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.AuditEventsTotal, err = register("audit_events_total", metrics.NewAuditEventsTotal()); err != nil {
		return metricsOut{}, err
	}
	if out.MailRetriesTotal, err = register("mail_retries_total", metrics.NewMailRetriesTotal()); err != nil {
		return metricsOut{}, err
	}
	return out, nil
}

func register[T prometheus.Collector](name string, c T) (T, error) {
	err := prometheus.DefaultRegisterer.Register(c)
	if err == nil {
		return c, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(T); ok {
			return existing, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("register %s: %w", name, err)
}
