package identity_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/require"

	"virtual-vr-console/internal/apperr"
	"virtual-vr-console/internal/authmsg"
	"virtual-vr-console/internal/gateway/identity"
)

type stubAdmin struct {
	createFn func(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error)
	deleteFn func(ctx context.Context, uid string) error
	revokeFn func(ctx context.Context, uid string) error
}

func (s stubAdmin) CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error) {
	if s.createFn == nil {
		panic("CreateUser not expected")
	}
	return s.createFn(ctx, user)
}

func (s stubAdmin) DeleteUser(ctx context.Context, uid string) error {
	if s.deleteFn == nil {
		panic("DeleteUser not expected")
	}
	return s.deleteFn(ctx, uid)
}

func (s stubAdmin) RevokeRefreshTokens(ctx context.Context, uid string) error {
	if s.revokeFn == nil {
		panic("RevokeRefreshTokens not expected")
	}
	return s.revokeFn(ctx, uid)
}

func newSignInServer(t *testing.T, status int, body any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/accounts:signInWithPassword", r.URL.Path)
		require.Equal(t, "web-key", r.URL.Query().Get("key"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "ana@example.com", req["email"])
		require.Equal(t, true, req["returnSecureToken"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSignIn_Success(t *testing.T) {
	srv := newSignInServer(t, http.StatusOK, map[string]any{"localId": "uid-1", "email": "ana@example.com"})
	gw := identity.New(identity.Config{Endpoint: srv.URL + "/", APIKey: "web-key"}, srv.Client(), stubAdmin{})

	uid, err := gw.SignIn(context.Background(), "ana@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, "uid-1", uid)
}

func TestSignIn_TranslatesProviderError(t *testing.T) {
	cases := map[string]string{
		"INVALID_PASSWORD": "La contraseña es incorrecta",
		"EMAIL_NOT_FOUND":  "No existe una cuenta con este correo",
		"USER_DISABLED":    "Esta cuenta ha sido deshabilitada",
		"BRAND_NEW_CODE":   "Ha ocurrido un error. Intenta nuevamente",
	}
	for restMsg, want := range cases {
		t.Run(restMsg, func(t *testing.T) {
			body := map[string]any{"error": map[string]any{"code": 400, "message": restMsg}}
			srv := newSignInServer(t, http.StatusBadRequest, body)
			gw := identity.New(identity.Config{Endpoint: srv.URL, APIKey: "web-key"}, srv.Client(), stubAdmin{})

			uid, err := gw.SignIn(context.Background(), "ana@example.com", "bad")
			require.Empty(t, uid)
			ae, ok := apperr.AsAuth(err)
			require.True(t, ok)
			require.Equal(t, want, ae.Message)
		})
	}
}

func TestSignIn_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	gw := identity.New(identity.Config{Endpoint: srv.URL, APIKey: "k"}, nil, stubAdmin{})
	_, err := gw.SignIn(context.Background(), "ana@example.com", "secret1")

	ae, ok := apperr.AsAuth(err)
	require.True(t, ok)
	require.Equal(t, authmsg.CodeNetworkFailed, ae.Code)
}

func TestCreateAccount(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		gw := identity.New(identity.Config{}, nil, stubAdmin{
			createFn: func(_ context.Context, user *auth.UserToCreate) (*auth.UserRecord, error) {
				require.NotNil(t, user)
				return &auth.UserRecord{UserInfo: &auth.UserInfo{UID: "new-uid"}}, nil
			},
		})
		uid, err := gw.CreateAccount(context.Background(), "ana@example.com", "secret1")
		require.NoError(t, err)
		require.Equal(t, "new-uid", uid)
	})

	t.Run("weak password", func(t *testing.T) {
		gw := identity.New(identity.Config{}, nil, stubAdmin{
			createFn: func(context.Context, *auth.UserToCreate) (*auth.UserRecord, error) {
				return nil, errors.New("password must be a string at least 6 characters long")
			},
		})
		_, err := gw.CreateAccount(context.Background(), "ana@example.com", "123")
		ae, ok := apperr.AsAuth(err)
		require.True(t, ok)
		require.Equal(t, authmsg.CodeWeakPassword, ae.Code)
	})

	t.Run("unknown", func(t *testing.T) {
		gw := identity.New(identity.Config{}, nil, stubAdmin{
			createFn: func(context.Context, *auth.UserToCreate) (*auth.UserRecord, error) {
				return nil, errors.New("backend exploded")
			},
		})
		_, err := gw.CreateAccount(context.Background(), "ana@example.com", "secret1")
		require.EqualError(t, err, "Ha ocurrido un error. Intenta nuevamente")
	})
}

func TestDeleteAndRevoke(t *testing.T) {
	var deleted, revoked string
	gw := identity.New(identity.Config{}, nil, stubAdmin{
		deleteFn: func(_ context.Context, uid string) error { deleted = uid; return nil },
		revokeFn: func(_ context.Context, uid string) error {
			revoked = uid
			return errors.New("offline")
		},
	})

	require.NoError(t, gw.DeleteAccount(context.Background(), "u1"))
	require.Equal(t, "u1", deleted)

	err := gw.RevokeSessions(context.Background(), "u2")
	require.Error(t, err)
	require.Equal(t, "u2", revoked)
}
