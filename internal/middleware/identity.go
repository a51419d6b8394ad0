package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/libris/libris/internal/auth"
)

// TokenVerifier resolves a bearer token to a user identifier.
type TokenVerifier interface {
	VerifyUserID(token string) (int64, error)
}

// IdentityConfig holds configuration for the identity middleware.
type IdentityConfig struct {
	Logger *slog.Logger
	Tokens TokenVerifier
}

// Identity returns a middleware that derives the caller's identity from the
// Authorization header, once per request, before any resolver runs.
//
// A missing header means an anonymous request and passes through. A header
// whose token is empty after stripping the Bearer prefix is rejected
// outright. A token that fails verification downgrades the request to
// anonymous rather than failing it; resolvers that require identity reject
// it themselves.
func Identity(cfg IdentityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimPrefix(header, "Bearer ")
			if strings.TrimSpace(token) == "" {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", "missing_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeIdentityError(w)
				return
			}

			userID, err := cfg.Tokens.VerifyUserID(token)
			if err != nil {
				cfg.Logger.Warn("token rejected",
					slog.String("reason", "invalid_token"),
					slog.String("ip", r.RemoteAddr),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.ContextWithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeIdentityError writes a 401 response in the GraphQL error shape.
func writeIdentityError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"errors":[{"message":"token does not exist"}]}`))
}
