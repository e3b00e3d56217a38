package handlers

import (
	"context"

	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/repository"
	"virtual-vr-console/internal/service/admin"
	"virtual-vr-console/internal/service/auth"
	"virtual-vr-console/internal/service/console"
	"virtual-vr-console/internal/session"
)

type authUsecase interface {
	SignIn(ctx context.Context, creds domain.Credentials, role domain.Role) (auth.Result, error)
	SignUpCustomer(ctx context.Context, reg domain.CustomerRegistration) (auth.Result, error)
	SignUpCourier(ctx context.Context, reg domain.CourierRegistration) (auth.Result, error)
	SignUpAdmin(ctx context.Context, reg domain.AdminRegistration) (auth.Result, error)
	SignOut(ctx context.Context, sess session.Session) error
	GetByRole(ctx context.Context, id string, role domain.Role) (any, error)
}

// NewAuthUsecase wires an auth Service into an authUsecase.
func NewAuthUsecase(svc *auth.Service) authUsecase {
	return svc
}

type consoleUsecase interface {
	ListCouriers(ctx context.Context, f console.CourierFilter) ([]domain.Courier, console.CourierStats, error)
	ListCustomers(ctx context.Context, f console.CustomerFilter) ([]domain.Customer, console.CustomerStats, error)
	Open(ctx context.Context, actor string) *console.Session
}

// NewConsoleUsecase wires a console Service into a consoleUsecase.
func NewConsoleUsecase(svc *console.Service) consoleUsecase {
	return svc
}

type adminUsecase interface {
	GetCourier(ctx context.Context, id string) (*domain.Courier, error)
	GetCustomer(ctx context.Context, id string) (*domain.Customer, error)
	ApproveCourier(ctx context.Context, actor, id string) (*domain.Courier, error)
	RejectCourier(ctx context.Context, actor, id string) (*domain.Courier, error)
	SetCourierActive(ctx context.Context, actor, id string, active bool) (*domain.Courier, error)
	UpdateCourier(ctx context.Context, actor, id string, patch map[string]any) (*domain.Courier, error)
	SetCustomerActive(ctx context.Context, actor, id string, active bool) (*domain.Customer, error)
	SetCustomerPreferential(ctx context.Context, actor, id string, preferential bool) (*domain.Customer, error)
	UpdateCustomer(ctx context.Context, actor, id string, patch map[string]any) (*domain.Customer, error)
}

type auditHistory interface {
	ListByTarget(ctx context.Context, kind domain.Role, targetID string, limit int) ([]repository.AuditEntry, error)
}

// NewAuditHistory wires the audit repository into an auditHistory.
func NewAuditHistory(repo *repository.AuditRepo) auditHistory {
	return repo
}

// NewAdminUsecase wires an admin Service into an adminUsecase.
func NewAdminUsecase(svc *admin.Service) adminUsecase {
	return svc
}
