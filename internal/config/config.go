package config

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Config stores service and worker settings.
type Config struct {
	Port             int
	LogLevel         string
	OperationTimeout time.Duration

	Pprof     Pprof
	Firebase  Firebase
	Session   Session
	Redis     Redis
	DB        DB
	Kafka     Kafka
	Mail      Mail
	RateLimit RateLimit
}

// Pprof stores the debug listener settings. An empty Addr disables it.
type Pprof struct {
	Addr string
	User string
	Pass string
}

// Firebase stores the managed backend settings.
type Firebase struct {
	ProjectID       string
	CredentialsFile string
	WebAPIKey       string
	AuthEndpoint    string
}

// Session stores session token settings.
type Session struct {
	Secret string
	TTL    time.Duration
}

// Redis stores the session denylist connection. An empty Addr selects the in-memory denylist.
type Redis struct {
	Addr     string
	Password string
	DB       int
}

// DB stores the audit database settings.
type DB struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

// DSN returns the postgres connection string.
func (d DB) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Pass),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     "/" + d.Name,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Kafka stores moderation event settings. No brokers means events are not published.
type Kafka struct {
	Brokers []string
	Topic   string
	GroupID string
}

// Enabled reports whether at least one broker is configured.
func (k Kafka) Enabled() bool { return len(k.Brokers) > 0 }

// Mail stores notification settings. An empty SendGridKey selects the log mailer.
type Mail struct {
	SendGridKey string
	From        string
	FromName    string
}

// RateLimit stores per-IP limits of the auth endpoints.
type RateLimit struct {
	Enabled    bool
	Rate       float64
	Burst      int
	TTL        time.Duration
	MaxBuckets int
}

// Load reads configuration in order: .env (if present) → environment → flags.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: .env not loaded: %v", err)
	}

	cfg := &Config{
		Port:             DefaultPort(),
		LogLevel:         envOr("LOG_LEVEL", defaultLogLevel),
		OperationTimeout: defaultOperationTimeout,
		Pprof: Pprof{
			Addr: os.Getenv("PPROF_ADDR"),
			User: os.Getenv("PPROF_USER"),
			Pass: os.Getenv("PPROF_PASS"),
		},
		Firebase: Firebase{
			ProjectID:       os.Getenv("FIREBASE_PROJECT_ID"),
			CredentialsFile: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
			WebAPIKey:       os.Getenv("FIREBASE_WEB_API_KEY"),
			AuthEndpoint:    envOr("FIREBASE_AUTH_ENDPOINT", defaultAuthEndpoint),
		},
		Session: Session{
			Secret: envOr("SESSION_SECRET", defaultSessionSecret),
			TTL:    DefaultSession().TTL,
		},
		Redis: Redis{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		DB: DB{
			Host: envOr("POSTGRES_HOST", defaultDB.Host),
			Port: envOr("POSTGRES_PORT", defaultDB.Port),
			User: envOr("POSTGRES_USER", defaultDB.User),
			Pass: envOr("POSTGRES_PASSWORD", defaultDB.Pass),
			Name: envOr("POSTGRES_DB", defaultDB.Name),
		},
		Kafka: Kafka{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_TOPIC", defaultKafka.Topic),
			GroupID: envOr("KAFKA_GROUP_ID", defaultKafka.GroupID),
		},
		Mail: Mail{
			SendGridKey: os.Getenv("SENDGRID_API_KEY"),
			From:        envOr("MAIL_FROM", defaultMail.From),
			FromName:    envOr("MAIL_FROM_NAME", defaultMail.FromName),
		},
		RateLimit: defaultRateLimit,
	}

	var err error
	if cfg.Port, err = envInt("PORT", cfg.Port); err != nil {
		return nil, err
	}
	if _, err = strconv.Atoi(cfg.DB.Port); err != nil {
		return nil, fmt.Errorf("invalid POSTGRES_PORT %q: %w", cfg.DB.Port, err)
	}
	if cfg.OperationTimeout, err = envDuration("OPERATION_TIMEOUT", cfg.OperationTimeout); err != nil {
		return nil, err
	}
	if cfg.Session.TTL, err = envDuration("SESSION_TTL", cfg.Session.TTL); err != nil {
		return nil, err
	}
	if cfg.Redis.DB, err = envInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if err = loadRateLimit(&cfg.RateLimit); err != nil {
		return nil, err
	}

	pflag.IntVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	pflag.StringVar(&cfg.Pprof.Addr, "pprof-addr", cfg.Pprof.Addr, "pprof listen address (empty disables)")
	pflag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	if err := pflag.CommandLine.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.OperationTimeout <= 0 {
		return fmt.Errorf("invalid operation timeout: %s", c.OperationTimeout)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("invalid session ttl: %s", c.Session.TTL)
	}
	if len(c.Session.Secret) < minSessionSecretLen {
		return fmt.Errorf("session secret must be at least %d bytes", minSessionSecretLen)
	}
	if c.Kafka.Enabled() && c.Kafka.Topic == "" {
		return errors.New("kafka topic is required when brokers are set")
	}
	return nil
}

func loadRateLimit(rl *RateLimit) error {
	var err error
	if v := os.Getenv("RATE_LIMIT_ENABLED"); v != "" {
		if rl.Enabled, err = strconv.ParseBool(v); err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_ENABLED %q: %w", v, err)
		}
	}
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if rl.Rate, err = strconv.ParseFloat(v, 64); err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_RPS %q: %w", v, err)
		}
	}
	if rl.Burst, err = envInt("RATE_LIMIT_BURST", rl.Burst); err != nil {
		return err
	}
	if rl.TTL, err = envDuration("RATE_LIMIT_TTL", rl.TTL); err != nil {
		return err
	}
	rl.MaxBuckets, err = envInt("RATE_LIMIT_MAX_BUCKETS", rl.MaxBuckets)
	return err
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
