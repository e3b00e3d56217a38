package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"virtual-vr-console/internal/config"
	"virtual-vr-console/internal/gateway/identity"
	"virtual-vr-console/internal/http/handlers"
	"virtual-vr-console/internal/http/middleware"
	"virtual-vr-console/internal/http/middleware/ratelimit"
	"virtual-vr-console/internal/http/pprofserver"
	"virtual-vr-console/internal/http/router"
	"virtual-vr-console/internal/logx"
	"virtual-vr-console/internal/repository"
	"virtual-vr-console/internal/service/admin"
	"virtual-vr-console/internal/service/auth"
	"virtual-vr-console/internal/service/console"
	"virtual-vr-console/internal/service/forms"
	"virtual-vr-console/internal/session"
	"virtual-vr-console/internal/transport/kafka"
)

type dbConnectFunc func(ctx context.Context, logger logx.Logger, dsn string, retries int, delay time.Duration) (*pgxpool.Pool, error)

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	dbConnect dbConnectFunc
	logFatalf func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		dbConnect: connectDbWithRetry,
		logFatalf: log.Fatalf,
	}
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds the HTTP service container
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds the audit worker container
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerFirebase(container); err != nil {
		return nil, fmt.Errorf("firebase: %w", err)
	}
	if err := registerDomainServices(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerFirebase(container); err != nil {
		return nil, fmt.Errorf("firebase: %w", err)
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds the HTTP service container
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds the audit worker container
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

type operationTimeout time.Duration

func registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		config.Load,
		NewLogger,
		provideMetrics,
		func(cfg *config.Config) operationTimeout { return operationTimeout(cfg.OperationTimeout) },
	)
}

func registerDb(container *dig.Container, dbConnect dbConnectFunc) error {
	providerDB := func(ctx context.Context, cfg *config.Config, logger logx.Logger) (*pgxpool.Pool, error) {
		return dbConnect(ctx, logger, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB, repository.NewAuditRepo)
}

func registerFirebase(container *dig.Container) error {
	return provideAll(container,
		func(ctx context.Context, cfg *config.Config) (*firebase.App, error) {
			return repository.NewFirebaseApp(ctx, cfg.Firebase)
		},
		repository.NewFirestore,
		repository.NewAuthClient,
		repository.NewCourierRepo,
		repository.NewCustomerRepo,
		repository.NewAdminRepo,
	)
}

type serviceMetricsIn struct {
	dig.In

	Actions         *prometheus.CounterVec `name:"moderation_actions_total"`
	PublishFailures prometheus.Counter     `name:"event_publish_failures_total"`
	Emissions       *prometheus.CounterVec `name:"console_emissions_total"`
	Sessions        prometheus.Gauge       `name:"console_sessions"`
}

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		newDenylist,
		func(cfg *config.Config, deny session.Denylist) *session.Manager {
			return session.NewManager(cfg.Session.Secret, cfg.Session.TTL, deny)
		},
		func(cfg *config.Config, client *firebaseauth.Client) *identity.Gateway {
			return identity.New(identity.Config{
				Endpoint: cfg.Firebase.AuthEndpoint,
				APIKey:   cfg.Firebase.WebAPIKey,
			}, &http.Client{Timeout: 10 * time.Second}, client)
		},
		newModerationPublisher,
		func(
			idp *identity.Gateway,
			customers *repository.CustomerRepo,
			couriers *repository.CourierRepo,
			admins *repository.AdminRepo,
			sessions *session.Manager,
			logger logx.Logger,
			timeout operationTimeout,
		) *auth.Service {
			stores := auth.Stores{Customers: customers, Couriers: couriers, Admins: admins}
			return auth.NewService(idp, stores, sessions, logger, time.Duration(timeout))
		},
		func(
			couriers *repository.CourierRepo,
			customers *repository.CustomerRepo,
			logger logx.Logger,
			m serviceMetricsIn,
			timeout operationTimeout,
		) *console.Service {
			return console.NewService(couriers, customers, logger, m.Emissions, m.Sessions, time.Duration(timeout))
		},
		func(
			couriers *repository.CourierRepo,
			customers *repository.CustomerRepo,
			publisher admin.Publisher,
			logger logx.Logger,
			m serviceMetricsIn,
			timeout operationTimeout,
		) *admin.Service {
			return admin.NewService(couriers, customers, publisher, logger,
				admin.Metrics{Actions: m.Actions, PublishFailures: m.PublishFailures}, time.Duration(timeout))
		},
	)
}

type authHandlerIn struct {
	dig.In

	Logger   logx.Logger
	Service  *auth.Service
	Forms    *forms.Validator
	Failures *prometheus.CounterVec `name:"auth_failures_total"`
}

type routesIn struct {
	dig.In

	Logger    logx.Logger
	Base      *handlers.Handlers
	Auth      *handlers.AuthHandler
	Admin     *handlers.AdminHandler
	Stream    *handlers.StreamHandler
	Pages     *handlers.PageHandler
	Sessions  *session.Manager
	RateLimit *ratelimit.Middleware
}

type pprofOut struct {
	dig.Out

	Server *http.Server `name:"pprof_server"`
}

func registerHTTP(container *dig.Container) error {
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	pprofProvider := func(cfg *config.Config, logger logx.Logger) pprofOut {
		return pprofOut{Server: pprofserver.New(cfg.Pprof, logger)}
	}
	routesProvider := func(in routesIn) http.Handler {
		return router.New(router.Routes{
			Logger:    in.Logger,
			Base:      in.Base,
			Auth:      in.Auth,
			Admin:     in.Admin,
			Stream:    in.Stream,
			Pages:     in.Pages,
			Authn:     middleware.Authenticate(in.Logger, in.Sessions),
			RateLimit: in.RateLimit.Handler,
		})
	}
	return provideAll(container,
		handlers.New,
		forms.New,
		handlers.NewConsoleUsecase,
		handlers.NewAdminUsecase,
		handlers.NewAuditHistory,
		func(in authHandlerIn) *handlers.AuthHandler {
			return handlers.NewAuthHandler(in.Logger, handlers.NewAuthUsecase(in.Service), in.Forms, in.Failures)
		},
		handlers.NewAdminHandler,
		handlers.NewStreamHandler,
		handlers.NewPageHandler,
		newRateLimitClock,
		newRateLimiter,
		newRateLimitMiddleware,
		routesProvider,
		serverProvider,
		pprofProvider,
	)
}

func newModerationPublisher(cfg *config.Config, logger logx.Logger) (admin.Publisher, error) {
	if !cfg.Kafka.Enabled() {
		logger.Info("kafka not configured, moderation events are not published")
		return kafka.NopPublisher{}, nil
	}
	return kafka.NewPublisher(logger, cfg.Kafka.Brokers, cfg.Kafka.Topic)
}
