package auth

import (
	"context"

	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/session"
)

// identityProvider verifies credentials and manages provider accounts.
type identityProvider interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	CreateAccount(ctx context.Context, email, password string) (string, error)
	DeleteAccount(ctx context.Context, uid string) error
	RevokeSessions(ctx context.Context, uid string) error
}

type customerStore interface {
	Get(ctx context.Context, id string) (*domain.Customer, error)
	Create(ctx context.Context, c *domain.Customer) error
}

type courierStore interface {
	Get(ctx context.Context, id string) (*domain.Courier, error)
	Create(ctx context.Context, c *domain.Courier) error
}

type adminStore interface {
	Get(ctx context.Context, id string) (*domain.Admin, error)
	Create(ctx context.Context, a *domain.Admin) error
}

type sessionIssuer interface {
	Issue(uid, email string, role domain.Role) (string, session.Session, error)
	Revoke(ctx context.Context, s session.Session) error
}

// Stores groups the per-role profile collections.
type Stores struct {
	Customers customerStore
	Couriers  courierStore
	Admins    adminStore
}
