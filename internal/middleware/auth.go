package middleware

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jotter/jotter/internal/auth"
	"github.com/jotter/jotter/internal/metrics"
	"github.com/jotter/jotter/internal/model"
	"github.com/jotter/jotter/internal/session"
)

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger   *slog.Logger
	Sessions session.Holder
	Metrics  metrics.Recorder
}

// Session resolves the bearer token into the current session and enforces
// the route guard. Requests that CanAccess denies are rejected with a
// uniform 401 before any handler runs.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoop()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, reason := resolve(cfg, r)

			if !CanAccess(r.Method, r.URL.Path, sess != nil) {
				cfg.Logger.Warn("request denied",
					slog.String("reason", reason),
					slog.String("ip", r.RemoteAddr),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeAuthError(w)
				return
			}

			if sess != nil {
				r = r.WithContext(auth.ContextWithSession(r.Context(), sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolve extracts and validates the bearer token. A nil session with a
// reason string means the request is anonymous.
func resolve(cfg SessionConfig, r *http.Request) (*model.Session, string) {
	token := extractToken(r)
	if token == "" {
		return nil, "missing_token"
	}

	if !auth.ValidateTokenFormat(token) {
		return nil, "invalid_format"
	}

	sess, err := cfg.Sessions.Current(r.Context(), token)
	if err != nil {
		if !errors.Is(err, session.ErrNoSession) {
			cfg.Logger.Error("session lookup failed",
				slog.String("error", err.Error()),
				slog.String("request_id", GetRequestID(r.Context())),
			)
			return nil, "backend_error"
		}
		cfg.Metrics.IncSessionLookup("miss")
		return nil, "unknown_token"
	}

	cfg.Metrics.IncSessionLookup("hit")
	return sess, ""
}

// extractToken pulls the session token from the Authorization header.
// Format: "Authorization: Bearer nsk_...".
func extractToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}

	return strings.TrimSpace(header[len(prefix):])
}

// writeAuthError writes a uniform 401 response. The body never hints at
// whether the token was missing, malformed or revoked.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="api"`)
	w.WriteHeader(http.StatusUnauthorized)

	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": "authentication required",
		"code":  "UNAUTHENTICATED",
	})
}
