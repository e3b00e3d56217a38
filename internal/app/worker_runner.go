package app

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"virtual-vr-console/internal/logx"
	"virtual-vr-console/internal/transport/kafka"
)

// WorkerRunner runs the audit worker
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun consumes moderation events until the container context is done
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

type schemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

type workerIn struct {
	dig.In

	Ctx       context.Context
	Logger    logx.Logger
	Consumer  *kafka.Consumer
	Schema    schemaEnsurer
	Pool      *pgxpool.Pool     `optional:"true"`
	Firestore *firestore.Client `optional:"true"`
}

func runWorker(container *dig.Container) error {
	return container.Invoke(func(in workerIn) error {
		defer closeFirestore(in.Firestore, in.Logger)
		return workerRun(in.Ctx, in.Logger, in.Consumer, in.Schema, in.Pool)
	})
}

func workerRun(ctx context.Context, logger logx.Logger, consumer *kafka.Consumer, schema schemaEnsurer, pool *pgxpool.Pool) error {
	if consumer == nil {
		return fmt.Errorf("kafka consumer is nil: set KAFKA_BROKERS and KAFKA_TOPIC")
	}
	defer closeWorker(pool, logger, consumer)

	if schema != nil {
		if err := schema.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure audit schema: %w", err)
		}
	}

	logger.Info("virtual-vr-audit-worker started")
	return consumer.Run(ctx)
}

func closeWorker(pool *pgxpool.Pool, logger logx.Logger, consumer *kafka.Consumer) {
	if err := consumer.Close(); err != nil {
		logger.Error("kafka close error", logx.Err(err))
	}
	if pool != nil {
		pool.Close()
	}
}

func closeFirestore(client *firestore.Client, logger logx.Logger) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		logger.Warn("firestore close error", logx.Err(err))
	}
}
