package app

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"virtual-vr-console/internal/apperr"
	"virtual-vr-console/internal/config"
	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/gateway/mail"
	"virtual-vr-console/internal/logx"
	"virtual-vr-console/internal/repository"
	"virtual-vr-console/internal/service/audit"
	"virtual-vr-console/internal/transport/kafka"
)

type processorIn struct {
	dig.In

	Log      *repository.AuditRepo
	Couriers *repository.CourierRepo
	Mailer   mail.Mailer
	Logger   logx.Logger
	Events   *prometheus.CounterVec `name:"audit_events_total"`
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		newMailer,
		func(r *repository.AuditRepo) schemaEnsurer { return r },
		func(in processorIn) *audit.Processor {
			return audit.NewProcessor(in.Log, in.Couriers, in.Mailer, in.Logger, in.Events)
		},
		func(cfg *config.Config, logger logx.Logger, p *audit.Processor) (*kafka.Consumer, error) {
			return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, handleModeration(p))
		},
	)
}

type mailerIn struct {
	dig.In

	Config  *config.Config
	Logger  logx.Logger
	Retries prometheus.Counter `name:"mail_retries_total" optional:"true"`
}

func newMailer(in mailerIn) mail.Mailer {
	if in.Config.Mail.SendGridKey == "" {
		in.Logger.Info("sendgrid not configured, notifications are logged only")
		return mail.NewLogMailer(in.Logger)
	}
	sg := mail.NewSendGrid(in.Config.Mail.SendGridKey, "", in.Config.Mail.FromName, in.Config.Mail.From)
	return mail.NewRetrying(sg, in.Logger, in.Retries, mail.DefaultRetryConfig())
}

type moderationHandler interface {
	Handle(ctx context.Context, ev domain.ModerationEvent) error
}

// handleModeration marks malformed events permanent so the consumer skips them
// instead of redelivering forever.
func handleModeration(p moderationHandler) kafka.HandleFunc {
	return func(ctx context.Context, ev domain.ModerationEvent) error {
		err := p.Handle(ctx, ev)
		if err != nil && errors.Is(err, apperr.ErrInvalid) {
			return kafka.Permanent(err)
		}
		return err
	}
}
