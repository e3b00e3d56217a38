//go:generate mockgen -source=contracts.go -destination=admin_mocks_test.go -package=admin_test

package admin

import (
	"context"

	"virtual-vr-console/internal/domain"
)

// Publisher delivers moderation events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, ev domain.ModerationEvent) error
}
