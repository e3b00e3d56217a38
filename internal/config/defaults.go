package config

import "time"

const (
	defaultPort             = 8080
	defaultLogLevel         = "info"
	defaultOperationTimeout = 3 * time.Second
	defaultAuthEndpoint     = "https://identitytoolkit.googleapis.com/v1"
	defaultSessionSecret    = "local-dev-session-secret-change-me"
	minSessionSecretLen     = 16
)

var defaultDB = DB{
	Host: "127.0.0.1",
	Port: "5432",
	User: "myuser",
	Pass: "mypassword",
	Name: "console_audit",
}

var defaultKafka = Kafka{
	Topic:   "console.moderation",
	GroupID: "console-audit-worker",
}

var defaultMail = Mail{
	From:     "no-reply@virtualvr.co",
	FromName: "Virtual VR",
}

var defaultRateLimit = RateLimit{
	Enabled:    true,
	Rate:       5,
	Burst:      10,
	TTL:        10 * time.Minute,
	MaxBuckets: 10000,
}

// DefaultPort returns the default port.
func DefaultPort() int {
	return defaultPort
}

// DefaultDB returns the default database settings.
func DefaultDB() DB {
	return defaultDB
}

// DefaultSession returns the default session settings.
func DefaultSession() Session {
	return Session{Secret: defaultSessionSecret, TTL: 12 * time.Hour}
}

// DefaultRateLimit returns the default auth rate limit.
func DefaultRateLimit() RateLimit {
	return defaultRateLimit
}
