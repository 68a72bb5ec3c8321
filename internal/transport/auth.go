package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rpggio/teamportal/internal/domain/identity"
)

// ErrUnauthorized indicates invalid or missing credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ClaimResolver resolves a caller identity from a bearer token.
type ClaimResolver interface {
	ResolveClaim(ctx context.Context, token string) (identity.Claim, error)
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	if len(header) < len("Bearer ") || !strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("Bearer "):])
}

// AuthMiddleware enforces bearer token authentication and stores the
// verified claim in the request context.
func AuthMiddleware(resolver ClaimResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing bearer token"})
				return
			}

			claim, err := resolver.ResolveClaim(r.Context(), token)
			if err != nil || claim.Subject == "" {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid bearer token"})
				return
			}

			ctx := identity.WithClaim(r.Context(), claim)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
