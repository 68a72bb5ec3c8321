package mcp

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/teamportal/internal/domain/identity"
	"github.com/rpggio/teamportal/internal/domain/project"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	List(ctx context.Context, claim identity.Claim, q project.Query) ([]project.Project, error)
	Get(ctx context.Context, claim identity.Claim, id string) (*project.Project, error)
	AssignEmployees(ctx context.Context, claim identity.Claim, projectID string, employeeIDs []string) (*project.Project, error)
	RecomputeHours(ctx context.Context, projectID string) (*project.Project, error)
	RecomputeAllHours(ctx context.Context) (int, error)
	ReconcileClientLinks(ctx context.Context) (project.ReconcileReport, error)
}

// Services contains all domain services needed by MCP.
type Services struct {
	Projects ProjectService
}

// Config contains server configuration.
type Config struct {
	Services Services
	Resolver ClaimResolver
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools and middleware.
func NewServer(cfg Config) *sdkmcp.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "teamportal",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       logger,
	})

	registerDocResources(server)

	server.AddReceivingMiddleware(authMiddleware(cfg.Resolver, logger))
	server.AddReceivingMiddleware(trafficLoggingMiddleware(logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
