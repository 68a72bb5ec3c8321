package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/teamportal/internal/domain/identity"
)

// ClaimResolver resolves a caller identity from a bearer token.
type ClaimResolver interface {
	ResolveClaim(ctx context.Context, token string) (identity.Claim, error)
}

// authMiddleware authenticates every non-protocol call and admits only
// administrators. The verified claim is stored in the context for tools.
func authMiddleware(resolver ClaimResolver, logger *slog.Logger) sdkmcp.Middleware {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if method == "initialize" || method == "ping" || strings.HasPrefix(method, "notifications/") {
				return next(ctx, method, req)
			}
			if resolver == nil {
				return nil, fmt.Errorf("unauthorized: authentication is not configured")
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("unauthorized: missing headers")
			}

			auth := extra.Header.Get("Authorization")
			token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if token == "" {
				return nil, fmt.Errorf("unauthorized: missing bearer token")
			}

			claim, err := resolver.ResolveClaim(ctx, token)
			if err != nil {
				return nil, fmt.Errorf("unauthorized: %w", err)
			}
			if !claim.IsAdmin() {
				logger.Warn("mcp call rejected", "method", method, "subject", claim.Subject, "role", claim.Role)
				return nil, fmt.Errorf("forbidden: admin role required")
			}

			ctx = identity.WithClaim(ctx, claim)
			return next(ctx, method, req)
		}
	}
}
