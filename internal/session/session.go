// Package session issues and verifies signed session tokens and keeps the
// revocation list for signed-out tokens.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"virtual-vr-console/internal/apperr"
	"virtual-vr-console/internal/domain"
)

// Session is the verified identity carried by a request.
type Session struct {
	UID       string      `json:"uid"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	TokenID   string      `json:"-"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// Claims represents the token payload.
type Claims struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Denylist stores revoked token ids until they expire.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

const issuer = "virtual-vr-console"

// Manager signs, verifies and revokes session tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	deny   Denylist
	now    func() time.Time
	newID  func() string
}

// NewManager creates a Manager with HS256 signing.
func NewManager(secret string, ttl time.Duration, deny Denylist) *Manager {
	if deny == nil {
		deny = NewMemoryDenylist(time.Now)
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		deny:   deny,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Issue signs a new token for the account.
func (m *Manager) Issue(uid, email string, role domain.Role) (string, Session, error) {
	now := m.now().UTC()
	s := Session{
		UID:       uid,
		Email:     email,
		Role:      role,
		TokenID:   m.newID(),
		ExpiresAt: now.Add(m.ttl).Truncate(time.Second),
	}
	claims := Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        s.TokenID,
			Subject:   uid,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", Session{}, fmt.Errorf("sign session: %w", err)
	}
	return token, s, nil
}

// Verify parses raw and checks signature, expiry, role and revocation.
func (m *Manager) Verify(ctx context.Context, raw string) (Session, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", apperr.ErrUnauthorized, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" || claims.ID == "" || !claims.Role.Valid() {
		return Session{}, fmt.Errorf("%w: invalid claims", apperr.ErrUnauthorized)
	}

	revoked, err := m.deny.IsRevoked(ctx, claims.ID)
	if err != nil {
		return Session{}, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return Session{}, fmt.Errorf("%w: session revoked", apperr.ErrUnauthorized)
	}

	return Session{
		UID:       claims.Subject,
		Email:     claims.Email,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
	}, nil
}

// Revoke denies s until its natural expiry.
func (m *Manager) Revoke(ctx context.Context, s Session) error {
	if s.TokenID == "" {
		return errors.New("revoke: empty token id")
	}
	if !s.ExpiresAt.After(m.now()) {
		return nil
	}
	return m.deny.Revoke(ctx, s.TokenID, s.ExpiresAt)
}

type ctxKey struct{}

// WithSession returns ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored by WithSession.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}
