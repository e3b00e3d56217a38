package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/repository"
	"virtual-vr-console/internal/service/auth"
	"virtual-vr-console/internal/service/console"
	"virtual-vr-console/internal/session"
)

type stubAuth struct {
	signInFn   func(ctx context.Context, creds domain.Credentials, role domain.Role) (auth.Result, error)
	customerFn func(ctx context.Context, reg domain.CustomerRegistration) (auth.Result, error)
	courierFn  func(ctx context.Context, reg domain.CourierRegistration) (auth.Result, error)
	adminFn    func(ctx context.Context, reg domain.AdminRegistration) (auth.Result, error)
	signOutFn  func(ctx context.Context, sess session.Session) error
	getFn      func(ctx context.Context, id string, role domain.Role) (any, error)
}

func (s *stubAuth) SignIn(ctx context.Context, creds domain.Credentials, role domain.Role) (auth.Result, error) {
	return s.signInFn(ctx, creds, role)
}

func (s *stubAuth) SignUpCustomer(ctx context.Context, reg domain.CustomerRegistration) (auth.Result, error) {
	return s.customerFn(ctx, reg)
}

func (s *stubAuth) SignUpCourier(ctx context.Context, reg domain.CourierRegistration) (auth.Result, error) {
	return s.courierFn(ctx, reg)
}

func (s *stubAuth) SignUpAdmin(ctx context.Context, reg domain.AdminRegistration) (auth.Result, error) {
	return s.adminFn(ctx, reg)
}

func (s *stubAuth) SignOut(ctx context.Context, sess session.Session) error {
	return s.signOutFn(ctx, sess)
}

func (s *stubAuth) GetByRole(ctx context.Context, id string, role domain.Role) (any, error) {
	return s.getFn(ctx, id, role)
}

type stubConsole struct {
	couriersFn  func(ctx context.Context, f console.CourierFilter) ([]domain.Courier, console.CourierStats, error)
	customersFn func(ctx context.Context, f console.CustomerFilter) ([]domain.Customer, console.CustomerStats, error)
	openFn      func(ctx context.Context, actor string) *console.Session
}

func (s *stubConsole) ListCouriers(ctx context.Context, f console.CourierFilter) ([]domain.Courier, console.CourierStats, error) {
	return s.couriersFn(ctx, f)
}

func (s *stubConsole) ListCustomers(ctx context.Context, f console.CustomerFilter) ([]domain.Customer, console.CustomerStats, error) {
	return s.customersFn(ctx, f)
}

func (s *stubConsole) Open(ctx context.Context, actor string) *console.Session {
	return s.openFn(ctx, actor)
}

type stubAdmin struct {
	getCourierFn   func(ctx context.Context, id string) (*domain.Courier, error)
	getCustomerFn  func(ctx context.Context, id string) (*domain.Customer, error)
	approveFn      func(ctx context.Context, actor, id string) (*domain.Courier, error)
	rejectFn       func(ctx context.Context, actor, id string) (*domain.Courier, error)
	courierActive  func(ctx context.Context, actor, id string, active bool) (*domain.Courier, error)
	updateCourier  func(ctx context.Context, actor, id string, patch map[string]any) (*domain.Courier, error)
	customerActive func(ctx context.Context, actor, id string, active bool) (*domain.Customer, error)
	preferentialFn func(ctx context.Context, actor, id string, preferential bool) (*domain.Customer, error)
	updateCustomer func(ctx context.Context, actor, id string, patch map[string]any) (*domain.Customer, error)
}

func (s *stubAdmin) GetCourier(ctx context.Context, id string) (*domain.Courier, error) {
	return s.getCourierFn(ctx, id)
}

func (s *stubAdmin) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	return s.getCustomerFn(ctx, id)
}

func (s *stubAdmin) ApproveCourier(ctx context.Context, actor, id string) (*domain.Courier, error) {
	return s.approveFn(ctx, actor, id)
}

func (s *stubAdmin) RejectCourier(ctx context.Context, actor, id string) (*domain.Courier, error) {
	return s.rejectFn(ctx, actor, id)
}

func (s *stubAdmin) SetCourierActive(ctx context.Context, actor, id string, active bool) (*domain.Courier, error) {
	return s.courierActive(ctx, actor, id, active)
}

func (s *stubAdmin) UpdateCourier(ctx context.Context, actor, id string, patch map[string]any) (*domain.Courier, error) {
	return s.updateCourier(ctx, actor, id, patch)
}

func (s *stubAdmin) SetCustomerActive(ctx context.Context, actor, id string, active bool) (*domain.Customer, error) {
	return s.customerActive(ctx, actor, id, active)
}

func (s *stubAdmin) SetCustomerPreferential(ctx context.Context, actor, id string, preferential bool) (*domain.Customer, error) {
	return s.preferentialFn(ctx, actor, id, preferential)
}

func (s *stubAdmin) UpdateCustomer(ctx context.Context, actor, id string, patch map[string]any) (*domain.Customer, error) {
	return s.updateCustomer(ctx, actor, id, patch)
}

type stubHistory struct {
	fn func(ctx context.Context, kind domain.Role, targetID string, limit int) ([]repository.AuditEntry, error)
}

func (s *stubHistory) ListByTarget(ctx context.Context, kind domain.Role, targetID string, limit int) ([]repository.AuditEntry, error) {
	return s.fn(ctx, kind, targetID, limit)
}

func adminSession() session.Session {
	return session.Session{
		UID:       "admin-1",
		Email:     "admin@virtualvr.co",
		Role:      domain.RoleAdmin,
		TokenID:   "tok-1",
		ExpiresAt: time.Now().Add(time.Hour).UTC(),
	}
}

func newRequest(method, target, body string, sess *session.Session) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if sess != nil {
		req = req.WithContext(session.WithSession(req.Context(), *sess))
	}
	return req
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return out
}
