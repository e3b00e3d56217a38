package audit

import (
	"context"

	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/gateway/mail"
)

type auditLog interface {
	Append(ctx context.Context, ev domain.ModerationEvent) (bool, error)
}

type courierLookup interface {
	Get(ctx context.Context, id string) (*domain.Courier, error)
}

type mailer interface {
	Send(ctx context.Context, msg mail.Message) error
}
