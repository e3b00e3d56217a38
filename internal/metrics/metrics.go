package metrics

import "github.com/prometheus/client_golang/prometheus"

// NewRateLimitExceededTotal returns a Prometheus counter for the number of rejected HTTP requests due to rate limiting
func NewRateLimitExceededTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limit_exceeded_total",
		Help: "Total number of rejected HTTP requests due to rate limiting",
	})
}

// NewModerationActionsTotal counts administrator mutations by action, kind and result.
func NewModerationActionsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_actions_total",
		Help: "Total number of administrator mutations",
	}, []string{"action", "kind", "result"})
}

// NewConsoleEmissionsTotal counts live-query emissions applied to console sessions.
func NewConsoleEmissionsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "console_emissions_total",
		Help: "Total number of live collection snapshots applied to admin console sessions",
	}, []string{"kind"})
}

// NewConsoleSessions tracks open admin console sessions.
func NewConsoleSessions() prometheus.Gauge {
	return prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "console_sessions",
		Help: "Number of open admin console sessions",
	})
}

// NewAuthFailuresTotal counts failed sign-in and sign-up attempts by operation and provider code.
func NewAuthFailuresTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_failures_total",
		Help: "Total number of failed authentication attempts",
	}, []string{"op", "code"})
}

// NewEventPublishFailuresTotal counts moderation events that could not be published.
func NewEventPublishFailuresTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "event_publish_failures_total",
		Help: "Total number of moderation events that failed to publish",
	})
}

// NewAuditEventsTotal counts consumed moderation events by outcome.
func NewAuditEventsTotal() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "audit_events_total",
		Help: "Total number of moderation events processed by the audit worker",
	}, []string{"result"})
}

// NewMailRetriesTotal counts resent notification e-mails.
func NewMailRetriesTotal() prometheus.Counter {
	return prometheus.NewCounter(prometheus.CounterOpts{
		Name: "mail_retries_total",
		Help: "Total number of notification e-mail retries",
	})
}
