// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/carterperez-dev/templates/booking-backend/internal/core"
)

const (
	UserIDKey contextKey = "user_id"

	SessionHeader = "X-Session-Token"
	SessionCookie = "session_token"
)

// SessionResolver maps a bearer token to the owning user id. Any failure
// to resolve must wrap core.ErrUnauthorized.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (string, error)
}

// Authenticator is the mandatory guard for every gated route. The caller
// identity it stores is the only identity handlers may act on.
func Authenticator(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				core.Unauthorized(w, "")
				return
			}

			userID, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				if !errors.Is(err, core.ErrUnauthorized) {
					slog.ErrorContext(r.Context(), "resolve session",
						"error", err,
						"request_id", GetRequestID(r.Context()),
					)
					core.JSONError(w, core.InternalError())
					return
				}
				core.Unauthorized(w, "")
				return
			}

			ctx := WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ExtractToken(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}

	if token := r.Header.Get(SessionHeader); token != "" {
		return strings.TrimSpace(token)
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}

	return ""
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func GetUserID(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}
