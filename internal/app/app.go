// Package app wires storage, domain services and authentication from a
// loaded configuration.
package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rpggio/teamportal/internal/auth"
	"github.com/rpggio/teamportal/internal/authz"
	"github.com/rpggio/teamportal/internal/config"
	"github.com/rpggio/teamportal/internal/domain/checklist"
	"github.com/rpggio/teamportal/internal/domain/client"
	"github.com/rpggio/teamportal/internal/domain/employee"
	"github.com/rpggio/teamportal/internal/domain/project"
	"github.com/rpggio/teamportal/internal/domain/training"
	"github.com/rpggio/teamportal/internal/mcp"
	"github.com/rpggio/teamportal/internal/sqlite"
	"github.com/rpggio/teamportal/internal/transport"
)

// App holds the wired services.
type App struct {
	DB         *sqlite.DB
	Tokens     *auth.Tokens
	Authorizer *authz.Authorizer
	Projects   *project.Service
	Clients    *client.Service
	Employees  *employee.Service
	Checklists *checklist.Service
	Training   *training.Service
	Logger     *slog.Logger
}

// Open opens the database, applies migrations and builds the services.
func Open(cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := ensureDBDir(cfg.DB.Path); err != nil {
		return nil, fmt.Errorf("preparing database path: %w", err)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.RunMigrations(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	a, err := build(db, cfg, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return a, nil
}

func build(db *sqlite.DB, cfg config.Config, logger *slog.Logger) (*App, error) {
	authorizer, err := authz.New(logger)
	if err != nil {
		return nil, err
	}

	projectRepo := sqlite.NewProjectRepository(db)
	clientRepo := sqlite.NewClientRepository(db)
	employeeRepo := sqlite.NewEmployeeRepository(db)
	updateRepo := sqlite.NewDailyUpdateRepository(db)
	checklistRepo := sqlite.NewChecklistRepository(db)

	resolver := project.NewResolver(project.EmployeeScope(cfg.Visibility.EmployeeScope))

	return &App{
		DB:         db,
		Tokens:     auth.NewTokens(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL),
		Authorizer: authorizer,
		Projects: project.NewService(
			projectRepo, clientRepo, employeeRepo, updateRepo, db, resolver,
			logger.With("component", "project"),
		),
		Clients:    client.NewService(clientRepo, logger.With("component", "client")),
		Employees:  employee.NewService(employeeRepo, logger.With("component", "employee")),
		Checklists: checklist.NewService(checklistRepo, employeeRepo, logger.With("component", "checklist")),
		Training:   training.NewService(sqlite.NewTrainingRepository(db), logger.With("component", "training")),
		Logger:     logger,
	}, nil
}

// Router builds the HTTP router, including the admin MCP endpoint when enabled.
func (a *App) Router(cfg config.Config) http.Handler {
	var mcpHandler http.Handler
	if cfg.MCP.Enabled {
		mcpServer := mcp.NewServer(mcp.Config{
			Services: mcp.Services{Projects: a.Projects},
			Resolver: a.Tokens,
			Logger:   a.Logger.With("component", "mcp"),
		})
		mcpHandler = mcp.NewHTTPHandler(mcpServer)
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	return transport.NewServer(transport.Config{
		Services: transport.Services{
			Projects:   a.Projects,
			Clients:    a.Clients,
			Employees:  a.Employees,
			Checklists: a.Checklists,
			Training:   a.Training,
		},
		Resolver:    a.Tokens,
		Authorizer:  a.Authorizer,
		Logger:      a.Logger.With("component", "http"),
		CORSOrigins: cfg.Server.CORSOrigins,
		MetricsPath: metricsPath,
		MCP:         mcpHandler,
		MCPPath:     cfg.MCP.Path,
	})
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" || filepath.Dir(path) == "." {
		return nil
	}
	if strings.HasPrefix(path, "file:") {
		return nil
	}
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
