package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"virtual-vr-console/internal/apperr"
	"virtual-vr-console/internal/authmsg"
	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/logx"
	"virtual-vr-console/internal/session"
)

// Result is what a successful sign-in or sign-up hands back to the client.
type Result struct {
	Token    string          `json:"token"`
	Session  session.Session `json:"session"`
	Redirect string          `json:"redirect"`
	Profile  any             `json:"profile"`
}

// Service coordinates the identity provider, the profile collections and session tokens.
type Service struct {
	idp              identityProvider
	stores           Stores
	sessions         sessionIssuer
	logger           logx.Logger
	now              func() time.Time
	operationTimeout time.Duration
}

// NewService creates and configures an auth Service.
func NewService(idp identityProvider, stores Stores, sessions sessionIssuer, logger logx.Logger, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = logx.Nop()
	}
	return &Service{
		idp:              idp,
		stores:           stores,
		sessions:         sessions,
		logger:           logger,
		now:              time.Now,
		operationTimeout: timeout,
	}
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.operationTimeout)
}

// SignIn verifies the credentials and requires a profile in the chosen role's collection.
// Without one the provider sessions are revoked and a role-specific message is returned.
func (s *Service) SignIn(ctx context.Context, creds domain.Credentials, role domain.Role) (Result, error) {
	if !role.Valid() {
		return Result{}, fmt.Errorf("%w: unknown role %q", apperr.ErrInvalid, role)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	uid, err := s.idp.SignIn(ctx, strings.TrimSpace(creds.Email), creds.Password)
	if err != nil {
		return Result{}, err
	}

	profile, err := s.getByRole(ctx, uid, role)
	if err != nil {
		return Result{}, authmsg.Error(authmsg.CodeUnknown, err)
	}
	if profile == nil {
		if rerr := s.idp.RevokeSessions(ctx, uid); rerr != nil {
			s.logger.Warn("revoke after missing profile failed", logx.String("uid", uid), logx.Err(rerr))
		}
		return Result{}, &apperr.AuthError{
			Code:    authmsg.CodeProfileNotFound,
			Message: authmsg.ProfileNotFound(role.DisplayName()),
			Err:     apperr.ErrNotFound,
		}
	}

	return s.issue(uid, emailOf(profile, creds.Email), role, profile)
}

// SignUpCustomer creates the account and its customer document.
func (s *Service) SignUpCustomer(ctx context.Context, reg domain.CustomerRegistration) (Result, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.signUp(ctx, reg.Credentials, domain.RoleUser, func(uid string) (any, error) {
		c := newCustomer(uid, reg, s.now())
		return c, s.stores.Customers.Create(ctx, c)
	})
}

// SignUpCourier creates the account and its courier document pending review.
func (s *Service) SignUpCourier(ctx context.Context, reg domain.CourierRegistration) (Result, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.signUp(ctx, reg.Credentials, domain.RoleDelivery, func(uid string) (any, error) {
		c := newCourier(uid, reg, s.now())
		return c, s.stores.Couriers.Create(ctx, c)
	})
}

// SignUpAdmin creates the account and its administrator document.
func (s *Service) SignUpAdmin(ctx context.Context, reg domain.AdminRegistration) (Result, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	return s.signUp(ctx, reg.Credentials, domain.RoleAdmin, func(uid string) (any, error) {
		a := newAdmin(uid, reg, s.now())
		return a, s.stores.Admins.Create(ctx, a)
	})
}

func (s *Service) signUp(ctx context.Context, creds domain.Credentials, role domain.Role, write func(uid string) (any, error)) (Result, error) {
	uid, err := s.idp.CreateAccount(ctx, creds.Email, creds.Password)
	if err != nil {
		return Result{}, err
	}

	profile, err := write(uid)
	if err != nil {
		if derr := s.idp.DeleteAccount(ctx, uid); derr != nil {
			s.logger.Error("orphaned account after failed profile write",
				logx.String("uid", uid), logx.String("role", string(role)), logx.Err(derr))
		}
		return Result{}, authmsg.Error(authmsg.CodeUnknown, err)
	}

	s.logger.Info("account registered", logx.String("uid", uid), logx.String("role", string(role)))
	return s.issue(uid, creds.Email, role, profile)
}

// SignOut revokes the session token and the provider refresh tokens.
func (s *Service) SignOut(ctx context.Context, sess session.Session) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.sessions.Revoke(ctx, sess); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	if err := s.idp.RevokeSessions(ctx, sess.UID); err != nil {
		s.logger.Warn("provider revoke failed", logx.String("uid", sess.UID), logx.Err(err))
	}
	return nil
}

// GetByRole returns the profile of id in the role's collection, or nil when absent.
func (s *Service) GetByRole(ctx context.Context, id string, role domain.Role) (any, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.getByRole(ctx, id, role)
}

func (s *Service) getByRole(ctx context.Context, id string, role domain.Role) (any, error) {
	switch role {
	case domain.RoleUser:
		c, err := s.stores.Customers.Get(ctx, id)
		if err != nil || c == nil {
			return nil, err
		}
		return c, nil
	case domain.RoleDelivery:
		c, err := s.stores.Couriers.Get(ctx, id)
		if err != nil || c == nil {
			return nil, err
		}
		return c, nil
	case domain.RoleAdmin:
		a, err := s.stores.Admins.Get(ctx, id)
		if err != nil || a == nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("%w: unknown role %q", apperr.ErrInvalid, role)
	}
}

func (s *Service) issue(uid, email string, role domain.Role, profile any) (Result, error) {
	token, sess, err := s.sessions.Issue(uid, email, role)
	if err != nil {
		return Result{}, err
	}
	return Result{Token: token, Session: sess, Redirect: role.LandingPath(), Profile: profile}, nil
}

func emailOf(profile any, fallback string) string {
	var email string
	switch p := profile.(type) {
	case *domain.Customer:
		email = p.Email
	case *domain.Courier:
		email = p.Email
	case *domain.Admin:
		email = p.Email
	}
	if email == "" {
		return strings.TrimSpace(fallback)
	}
	return email
}
