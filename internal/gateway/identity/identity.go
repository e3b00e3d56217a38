// Package identity talks to Firebase Authentication: password sign-in over the
// Identity Toolkit REST API and account management over the Admin SDK.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"firebase.google.com/go/v4/auth"

	"virtual-vr-console/internal/authmsg"
)

// AdminClient is the subset of the Firebase Admin auth client used here.
type AdminClient interface {
	CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	DeleteUser(ctx context.Context, uid string) error
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// Config stores REST sign-in settings.
type Config struct {
	Endpoint string
	APIKey   string
}

// Gateway is the identity provider gateway.
type Gateway struct {
	cfg   Config
	http  *http.Client
	admin AdminClient
}

// New creates a Gateway. A nil httpClient selects http.DefaultClient.
func New(cfg Config, httpClient *http.Client, admin AdminClient) *Gateway {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	return &Gateway{cfg: cfg, http: httpClient, admin: admin}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
}

type restError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// SignIn verifies email and password and returns the account uid.
// Failures are *apperr.AuthError with a translated message.
func (g *Gateway) SignIn(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return "", fmt.Errorf("identity: encode sign-in: %w", err)
	}

	u := g.cfg.Endpoint + "/accounts:signInWithPassword?key=" + url.QueryEscape(g.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("identity: build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", authmsg.Error(authmsg.CodeNetworkFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", authmsg.Error(authmsg.CodeNetworkFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		var re restError
		if err := json.Unmarshal(raw, &re); err != nil || re.Error.Message == "" {
			return "", authmsg.Error(authmsg.CodeUnknown, fmt.Errorf("identity: sign-in status %d", resp.StatusCode))
		}
		return "", authmsg.Error(authmsg.FromREST(re.Error.Message), errors.New(re.Error.Message))
	}

	var out signInResponse
	if err := json.Unmarshal(raw, &out); err != nil || out.LocalID == "" {
		return "", authmsg.Error(authmsg.CodeUnknown, fmt.Errorf("identity: malformed sign-in response"))
	}
	return out.LocalID, nil
}

// CreateAccount registers a new email/password account and returns its uid.
func (g *Gateway) CreateAccount(ctx context.Context, email, password string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		Disabled(false)

	rec, err := g.admin.CreateUser(ctx, params)
	if err != nil {
		return "", authmsg.Error(adminCode(err), err)
	}
	return rec.UID, nil
}

// DeleteAccount removes an account; used to undo a sign-up whose profile write failed.
func (g *Gateway) DeleteAccount(ctx context.Context, uid string) error {
	if err := g.admin.DeleteUser(ctx, uid); err != nil && !auth.IsUserNotFound(err) {
		return fmt.Errorf("identity: delete %s: %w", uid, err)
	}
	return nil
}

// RevokeSessions invalidates the provider refresh tokens of uid.
func (g *Gateway) RevokeSessions(ctx context.Context, uid string) error {
	if err := g.admin.RevokeRefreshTokens(ctx, uid); err != nil {
		return fmt.Errorf("identity: revoke %s: %w", uid, err)
	}
	return nil
}

func adminCode(err error) string {
	var netErr net.Error
	switch {
	case auth.IsEmailAlreadyExists(err):
		return authmsg.CodeEmailInUse
	case auth.IsUserNotFound(err):
		return authmsg.CodeUserNotFound
	case errors.As(err, &netErr):
		return authmsg.CodeNetworkFailed
	}
	// The Admin SDK validates parameters locally and reports them as plain errors.
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "password must be"):
		return authmsg.CodeWeakPassword
	case strings.Contains(msg, "malformed email"):
		return authmsg.CodeInvalidEmail
	case strings.Contains(msg, "too_many_attempts"), strings.Contains(msg, "quota"):
		return authmsg.CodeTooManyRequests
	default:
		return authmsg.CodeUnknown
	}
}
