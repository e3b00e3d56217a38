package middleware

import (
	"context"
	"io"
	"net/http"
	"strings"

	"virtual-vr-console/internal/domain"
	"virtual-vr-console/internal/logx"
	"virtual-vr-console/internal/session"
)

type sessionVerifier interface {
	Verify(ctx context.Context, raw string) (session.Session, error)
}

// Authenticate requires a valid session token and puts the session on the
// request context. Browsers cannot set headers on a WebSocket handshake, so
// upgrade requests may pass the token as the access_token query parameter.
func Authenticate(logger logx.Logger, verifier sessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				writeStatus(logger, w, http.StatusUnauthorized, `{"error":"unauthorized"}`)
				return
			}
			s, err := verifier.Verify(r.Context(), raw)
			if err != nil {
				logger.Info("session rejected",
					logx.String("path", r.URL.Path),
					logx.Err(err),
				)
				writeStatus(logger, w, http.StatusUnauthorized, `{"error":"unauthorized"}`)
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), s)))
		})
	}
}

// RequireRole rejects sessions whose role is not one of roles.
func RequireRole(logger logx.Logger, roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, ok := session.FromContext(r.Context())
			if !ok {
				writeStatus(logger, w, http.StatusUnauthorized, `{"error":"unauthorized"}`)
				return
			}
			for _, role := range roles {
				if s.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			logger.Warn("role not allowed",
				logx.String("uid", s.UID),
				logx.String("role", string(s.Role)),
				logx.String("path", r.URL.Path),
			)
			writeStatus(logger, w, http.StatusForbidden, `{"error":"forbidden"}`)
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return r.URL.Query().Get("access_token")
	}
	return ""
}

func writeStatus(logger logx.Logger, w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := io.WriteString(w, body); err != nil {
		logger.Debug("response write failed", logx.Err(err))
	}
}
