package transport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/rpggio/teamportal/internal/authz"
	"github.com/rpggio/teamportal/internal/domain/checklist"
	"github.com/rpggio/teamportal/internal/domain/client"
	"github.com/rpggio/teamportal/internal/domain/dailyupdate"
	"github.com/rpggio/teamportal/internal/domain/employee"
	"github.com/rpggio/teamportal/internal/domain/identity"
	"github.com/rpggio/teamportal/internal/domain/project"
	"github.com/rpggio/teamportal/internal/domain/training"
)

// ProjectService defines project operations needed by HTTP handlers.
type ProjectService interface {
	Create(ctx context.Context, claim identity.Claim, req project.CreateRequest) (*project.Project, error)
	CreateForClient(ctx context.Context, claim identity.Claim, clientID string, req project.CreateRequest) (*project.Project, error)
	Get(ctx context.Context, claim identity.Claim, id string) (*project.Project, error)
	List(ctx context.Context, claim identity.Claim, q project.Query) ([]project.Project, error)
	Update(ctx context.Context, claim identity.Claim, id string, req project.UpdateRequest) (*project.Project, error)
	AssignEmployees(ctx context.Context, claim identity.Claim, projectID string, employeeIDs []string) (*project.Project, error)
	ClientProjects(ctx context.Context, claim identity.Claim, clientID string) ([]project.Project, error)
	Assignments(ctx context.Context, claim identity.Claim, employeeID string) ([]project.Project, error)
	AddDailyUpdate(ctx context.Context, claim identity.Claim, projectID string, req project.DailyUpdateRequest) (*dailyupdate.DailyUpdate, error)
	ProjectUpdates(ctx context.Context, claim identity.Claim, projectID string) ([]dailyupdate.DailyUpdate, error)
	DailyUpdates(ctx context.Context, claim identity.Claim, projectID, employeeID string) ([]dailyupdate.DailyUpdate, error)
	MyDailyUpdates(ctx context.Context, claim identity.Claim) ([]dailyupdate.DailyUpdate, error)
	RecomputeHours(ctx context.Context, projectID string) (*project.Project, error)
	RecomputeAllHours(ctx context.Context) (int, error)
	ReconcileClientLinks(ctx context.Context) (project.ReconcileReport, error)
}

// ClientService defines client directory operations needed by HTTP handlers.
type ClientService interface {
	Create(ctx context.Context, req client.CreateRequest) (*client.Client, error)
	Get(ctx context.Context, claim identity.Claim, id string) (*client.Client, error)
	List(ctx context.Context) ([]client.Client, error)
	AddComment(ctx context.Context, claim identity.Claim, clientID string, req client.CommentRequest) (*client.Comment, error)
}

// EmployeeService defines employee operations needed by HTTP handlers.
type EmployeeService interface {
	Create(ctx context.Context, req employee.CreateRequest) (*employee.Employee, error)
	List(ctx context.Context) ([]employee.Employee, error)
	Profile(ctx context.Context, claim identity.Claim) (*employee.Employee, error)
	UpdateProfile(ctx context.Context, claim identity.Claim, upd employee.ProfileUpdate) (*employee.Employee, error)
}

// ChecklistService defines checklist operations needed by HTTP handlers.
type ChecklistService interface {
	Save(ctx context.Context, claim identity.Claim, req checklist.SaveRequest) (*checklist.Status, error)
	Mine(ctx context.Context, claim identity.Claim) ([]checklist.Status, error)
	ForEmployee(ctx context.Context, employeeID string) ([]checklist.Status, error)
}

// TrainingService defines training log operations needed by HTTP handlers.
type TrainingService interface {
	Create(ctx context.Context, claim identity.Claim, req training.CreateRequest) (*training.Update, error)
	List(ctx context.Context, claim identity.Claim, opts training.ListOptions) ([]training.Update, error)
}

// Services contains all domain services needed by HTTP handlers.
type Services struct {
	Projects   ProjectService
	Clients    ClientService
	Employees  EmployeeService
	Checklists ChecklistService
	Training   TrainingService
}

// Config contains HTTP server configuration.
type Config struct {
	Services    Services
	Resolver    ClaimResolver
	Authorizer  *authz.Authorizer
	Logger      *slog.Logger
	CORSOrigins []string

	// MetricsPath serves Prometheus metrics when set.
	MetricsPath string

	// MCP is mounted at MCPPath when set. It authenticates on its own.
	MCP     http.Handler
	MCPPath string
}

// Server wires HTTP handlers.
type Server struct {
	services   Services
	authorizer *authz.Authorizer
	logger     *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	srv := &Server{services: cfg.Services, authorizer: cfg.Authorizer, logger: logger}

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(metricsMiddleware)
	r.Use(requestLogMiddleware(logger))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins:   cfg.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", RequestIDHeader},
			ExposedHeaders:   []string{RequestIDHeader},
			AllowCredentials: true,
		}).Handler)
	}

	r.Get("/health", srv.handleHealth)
	if cfg.MetricsPath != "" {
		r.Method(http.MethodGet, cfg.MetricsPath, promhttp.Handler())
	}
	if cfg.MCP != nil && cfg.MCPPath != "" {
		r.Handle(cfg.MCPPath, cfg.MCP)
	}

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Resolver))

		r.Route("/projects", func(r chi.Router) {
			r.With(srv.require(authz.ObjectProject, authz.ActionList)).Get("/", srv.handleListProjects)
			r.With(srv.require(authz.ObjectProject, authz.ActionCreate)).Post("/", srv.handleCreateProject)
			r.Route("/{id}", func(r chi.Router) {
				r.With(srv.require(authz.ObjectProject, authz.ActionRead)).Get("/", srv.handleGetProject)
				r.With(srv.require(authz.ObjectProject, authz.ActionUpdate)).Put("/", srv.handleUpdateProject)
				r.With(srv.require(authz.ObjectProjectAssignees, authz.ActionUpdate)).Put("/assignees", srv.handleAssignProject)
				r.With(srv.require(authz.ObjectProjectHours, authz.ActionUpdate)).Post("/recompute-hours", srv.handleRecomputeProjectHours)
				r.With(srv.require(authz.ObjectDailyUpdate, authz.ActionCreate)).Post("/updates", srv.handleAddProjectUpdate)
				r.With(srv.require(authz.ObjectProjectUpdates, authz.ActionRead)).Get("/updates", srv.handleListProjectUpdates)
			})
		})

		r.Route("/daily-updates", func(r chi.Router) {
			r.With(srv.require(authz.ObjectDailyUpdate, authz.ActionList)).Get("/", srv.handleListDailyUpdates)
			r.With(srv.require(authz.ObjectDailyUpdate, authz.ActionCreate)).Post("/", srv.handleCreateDailyUpdate)
		})

		r.Route("/clients", func(r chi.Router) {
			r.With(srv.require(authz.ObjectClient, authz.ActionList)).Get("/", srv.handleListClients)
			r.With(srv.require(authz.ObjectClient, authz.ActionCreate)).Post("/", srv.handleCreateClient)
			r.With(srv.require(authz.ObjectClient, authz.ActionRead)).Get("/{id}", srv.handleGetClient)
			r.With(srv.require(authz.ObjectClient, authz.ActionRead)).Get("/{id}/projects", srv.handleListClientProjects)
			r.With(srv.require(authz.ObjectClientProjects, authz.ActionCreate)).Post("/{id}/projects", srv.handleCreateClientProject)
			r.With(srv.require(authz.ObjectClientComments, authz.ActionCreate)).Post("/{id}/comments", srv.handleAddClientComment)
		})

		r.Route("/employees", func(r chi.Router) {
			r.With(srv.require(authz.ObjectEmployee, authz.ActionList)).Get("/", srv.handleListEmployees)
			r.With(srv.require(authz.ObjectEmployee, authz.ActionCreate)).Post("/", srv.handleCreateEmployee)
			r.With(srv.require(authz.ObjectProfile, authz.ActionRead)).Get("/me", srv.handleGetProfile)
			r.With(srv.require(authz.ObjectProfile, authz.ActionUpdate)).Put("/me", srv.handleUpdateProfile)
			r.With(srv.require(authz.ObjectDailyUpdate, authz.ActionReadOwn)).Get("/daily-updates", srv.handleMyDailyUpdates)
			r.With(srv.require(authz.ObjectChecklist, authz.ActionRead)).Get("/checklist-status", srv.handleMyChecklists)
			r.With(srv.require(authz.ObjectChecklist, authz.ActionUpdate)).Post("/checklist-status", srv.handleSaveChecklist)
			r.With(srv.require(authz.ObjectEmployeeChecklist, authz.ActionRead)).Get("/{id}/checklist-status", srv.handleEmployeeChecklists)
			r.With(srv.require(authz.ObjectEmployeeAssignments, authz.ActionRead)).Get("/{id}/assignments", srv.handleEmployeeAssignments)
		})

		r.Route("/training-updates", func(r chi.Router) {
			r.With(srv.require(authz.ObjectTraining, authz.ActionList)).Get("/", srv.handleListTraining)
			r.With(srv.require(authz.ObjectTraining, authz.ActionCreate)).Post("/", srv.handleCreateTraining)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(srv.require(authz.ObjectMaintenance, authz.ActionRun))
			r.Post("/reconcile-client-links", srv.handleReconcileClientLinks)
			r.Post("/recompute-hours", srv.handleRecomputeAllHours)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// require rejects callers whose role may not perform action on object.
func (s *Server) require(object, action string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claim, ok := identity.FromContext(r.Context())
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
				return
			}
			if s.authorizer != nil {
				if err := s.authorizer.Authorize(claim, object, action); err != nil {
					s.fail(w, r, err)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, s.logger, err)
}

func claimFrom(r *http.Request) identity.Claim {
	claim, _ := identity.FromContext(r.Context())
	return claim
}
