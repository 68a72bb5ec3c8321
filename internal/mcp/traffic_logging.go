package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/teamportal/internal/domain/identity"
)

// maxLoggedPayload caps logged params and results. Project listings carry
// full descriptions, rosters and milestones.
const maxLoggedPayload = 4096

// trafficLoggingMiddleware logs each MCP exchange at debug level, tagged with
// the caller's subject and role and, for tool calls, the tool name.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil || !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			attrs := trafficAttrs(ctx, direction, method, req)
			logger.LogAttrs(ctx, slog.LevelDebug, "mcp request",
				slices.Concat(attrs, []slog.Attr{slog.String("params", formatPayload(safeParams(req)))})...)

			start := time.Now()
			result, err := next(ctx, method, req)
			if strings.HasPrefix(method, "notifications/") {
				return result, err
			}

			outcome := []slog.Attr{slog.Duration("elapsed", time.Since(start))}
			if err != nil {
				outcome = append(outcome, slog.String("error", err.Error()))
			} else {
				outcome = append(outcome, slog.String("result", formatPayload(result)))
			}
			logger.LogAttrs(ctx, slog.LevelDebug, "mcp response", slices.Concat(attrs, outcome)...)
			return result, err
		}
	}
}

func trafficAttrs(ctx context.Context, direction, method string, req sdkmcp.Request) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("direction", direction),
		slog.String("method", method),
		slog.String("session_id", safeSessionID(req)),
	}
	if claim, ok := identity.FromContext(ctx); ok {
		attrs = append(attrs,
			slog.String("subject", claim.Subject),
			slog.String("role", string(claim.Role)),
		)
	}
	if tool := toolName(safeParams(req)); tool != "" {
		attrs = append(attrs, slog.String("tool", tool))
	}
	return attrs
}

func toolName(params any) string {
	switch p := params.(type) {
	case *sdkmcp.CallToolParamsRaw:
		if p != nil {
			return p.Name
		}
	case *sdkmcp.CallToolParams:
		if p != nil {
			return p.Name
		}
	}
	return ""
}

func safeSessionID(req sdkmcp.Request) (id string) {
	if req == nil {
		return ""
	}
	defer func() {
		if recover() != nil {
			id = ""
		}
	}()
	session := req.GetSession()
	if session == nil {
		return ""
	}
	return session.ID()
}

func safeParams(req sdkmcp.Request) (params any) {
	if req == nil {
		return nil
	}
	defer func() {
		if recover() != nil {
			params = nil
		}
	}()
	return req.GetParams()
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	if len(data) > maxLoggedPayload {
		return fmt.Sprintf("%s...(%d bytes)", data[:maxLoggedPayload], len(data))
	}
	return string(data)
}
