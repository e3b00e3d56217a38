package admin

import (
	"context"

	"virtual-vr-console/internal/domain"
)

type courierStore interface {
	Get(ctx context.Context, id string) (*domain.Courier, error)
	Update(ctx context.Context, id string, fields map[string]any) error
}

type customerStore interface {
	Get(ctx context.Context, id string) (*domain.Customer, error)
	Update(ctx context.Context, id string, fields map[string]any) error
}
