package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/teamportal/internal/apperr"
	"github.com/rpggio/teamportal/internal/authz"
	"github.com/rpggio/teamportal/internal/domain/client"
	"github.com/rpggio/teamportal/internal/domain/dailyupdate"
	"github.com/rpggio/teamportal/internal/domain/identity"
	"github.com/rpggio/teamportal/internal/domain/project"
	"github.com/rpggio/teamportal/internal/domain/training"
)

// stubProjects satisfies ProjectService; methods a test does not override
// panic through the nil embedded interface.
type stubProjects struct {
	ProjectService
	list   func(identity.Claim, project.Query) ([]project.Project, error)
	get    func(string) (*project.Project, error)
	create func(identity.Claim, project.CreateRequest) (*project.Project, error)
	update func(string, project.UpdateRequest) (*project.Project, error)
	daily  func(projectID, employeeID string) ([]dailyupdate.DailyUpdate, error)
}

func (s *stubProjects) List(_ context.Context, claim identity.Claim, q project.Query) ([]project.Project, error) {
	return s.list(claim, q)
}

func (s *stubProjects) Get(_ context.Context, _ identity.Claim, id string) (*project.Project, error) {
	return s.get(id)
}

func (s *stubProjects) Create(_ context.Context, claim identity.Claim, req project.CreateRequest) (*project.Project, error) {
	return s.create(claim, req)
}

func (s *stubProjects) Update(_ context.Context, _ identity.Claim, id string, req project.UpdateRequest) (*project.Project, error) {
	return s.update(id, req)
}

func (s *stubProjects) DailyUpdates(_ context.Context, _ identity.Claim, projectID, employeeID string) ([]dailyupdate.DailyUpdate, error) {
	return s.daily(projectID, employeeID)
}

func (s *stubProjects) RecomputeAllHours(context.Context) (int, error) {
	return 3, nil
}

type stubClients struct {
	ClientService
	addComment func(identity.Claim, string, client.CommentRequest) (*client.Comment, error)
}

func (s *stubClients) AddComment(_ context.Context, claim identity.Claim, clientID string, req client.CommentRequest) (*client.Comment, error) {
	return s.addComment(claim, clientID, req)
}

type stubTraining struct {
	create func(identity.Claim, training.CreateRequest) (*training.Update, error)
	list   func(identity.Claim, training.ListOptions) ([]training.Update, error)
}

func (s *stubTraining) Create(_ context.Context, claim identity.Claim, req training.CreateRequest) (*training.Update, error) {
	return s.create(claim, req)
}

func (s *stubTraining) List(_ context.Context, claim identity.Claim, opts training.ListOptions) ([]training.Update, error) {
	return s.list(claim, opts)
}

func newTestServer(t *testing.T, projects ProjectService) *httptest.Server {
	t.Helper()
	return newTestServerWith(t, Services{Projects: projects})
}

func newTestServerWith(t *testing.T, services Services) *httptest.Server {
	t.Helper()
	authorizer, err := authz.New(nil)
	require.NoError(t, err)

	resolver := &testResolver{claims: map[string]identity.Claim{
		"admin":    {Subject: "a1", Role: identity.RoleAdmin},
		"client":   {Subject: "c1", Role: identity.RoleClient, ClientRef: "cl1"},
		"employee": {Subject: "u1", Role: identity.RoleEmployee, EmployeeRef: "e1"},
	}}
	server := httptest.NewServer(NewServer(Config{
		Services:    services,
		Resolver:    resolver,
		Authorizer:  authorizer,
		MetricsPath: "/metrics",
	}))
	t.Cleanup(server.Close)
	return server
}

func do(t *testing.T, server *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, server.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestHTTPServer_Health(t *testing.T) {
	server := newTestServer(t, &stubProjects{})

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, resp.Header.Get(RequestIDHeader))
}

func TestHTTPServer_Metrics(t *testing.T) {
	server := newTestServer(t, &stubProjects{})

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_RequiresToken(t *testing.T) {
	server := newTestServer(t, &stubProjects{})

	resp, _ := do(t, server, http.MethodGet, "/projects", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, server, http.MethodGet, "/projects", "bogus", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHTTPServer_ListProjects(t *testing.T) {
	var got project.Query
	server := newTestServer(t, &stubProjects{
		list: func(_ identity.Claim, q project.Query) ([]project.Project, error) {
			got = q
			return []project.Project{{ID: "p1", ClientName: "Acme"}}, nil
		},
	})

	resp, body := do(t, server, http.MethodGet, "/projects?status=Active&assigned=true&search=%20web%20", "employee", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["projects"], 1)
	require.Equal(t, project.StatusActive, got.Status)
	require.NotNil(t, got.Assigned)
	require.True(t, *got.Assigned)
	require.Equal(t, "web", got.Search)
}

func TestHTTPServer_ListProjectsByClient(t *testing.T) {
	var got project.Query
	server := newTestServer(t, &stubProjects{
		list: func(_ identity.Claim, q project.Query) ([]project.Project, error) {
			got = q
			return []project.Project{}, nil
		},
	})

	resp, _ := do(t, server, http.MethodGet, "/projects?clientId=cl2&priority=High", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "cl2", got.ClientID)
	require.Equal(t, project.PriorityHigh, got.Priority)
}

func TestHTTPServer_ListDailyUpdatesFilters(t *testing.T) {
	var gotProject, gotEmployee string
	server := newTestServer(t, &stubProjects{
		daily: func(projectID, employeeID string) ([]dailyupdate.DailyUpdate, error) {
			gotProject, gotEmployee = projectID, employeeID
			return []dailyupdate.DailyUpdate{{ID: "u1", ProjectID: projectID}}, nil
		},
	})

	resp, body := do(t, server, http.MethodGet, "/daily-updates?projectId=p2&employeeId=e7", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["updates"], 1)
	require.Equal(t, "p2", gotProject)
	require.Equal(t, "e7", gotEmployee)

	resp, _ = do(t, server, http.MethodGet, "/daily-updates", "client", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, gotProject)
	require.Empty(t, gotEmployee)
}

func TestHTTPServer_ListProjectsBadBool(t *testing.T) {
	server := newTestServer(t, &stubProjects{})

	resp, body := do(t, server, http.MethodGet, "/projects?assigned=maybe", "admin", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "assigned", body["field"])
}

func TestHTTPServer_CreateProject(t *testing.T) {
	server := newTestServer(t, &stubProjects{
		create: func(claim identity.Claim, req project.CreateRequest) (*project.Project, error) {
			require.Equal(t, identity.RoleClient, claim.Role)
			return &project.Project{ID: "p1", ClientName: req.ClientName}, nil
		},
	})

	resp, body := do(t, server, http.MethodPost, "/projects", "client", map[string]any{"clientName": "Acme"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "p1", body["id"])
}

func TestHTTPServer_CreateProjectDeniedForEmployee(t *testing.T) {
	server := newTestServer(t, &stubProjects{})

	resp, body := do(t, server, http.MethodPost, "/projects", "employee", map[string]any{"clientName": "Acme"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "forbidden", body["error"])
}

func TestHTTPServer_InvalidJSON(t *testing.T) {
	server := newTestServer(t, &stubProjects{})

	req, err := http.NewRequest(http.MethodPut, server.URL+"/projects/p1", bytes.NewBufferString("{"))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer admin")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTPServer_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"not found", project.ErrProjectNotFound, http.StatusNotFound, "not found"},
		{"forbidden", project.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"validation", apperr.Invalid("status", "status is invalid"), http.StatusBadRequest, "status is invalid"},
		{"consistency", fmt.Errorf("linking: %w", apperr.ErrConsistencyRisk), http.StatusInternalServerError, ""},
		{"internal", fmt.Errorf("disk on fire"), http.StatusInternalServerError, "internal error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(t, &stubProjects{
				get: func(string) (*project.Project, error) { return nil, tc.err },
			})

			resp, body := do(t, server, http.MethodGet, "/projects/p1", "admin", nil)
			require.Equal(t, tc.status, resp.StatusCode)
			if tc.msg != "" {
				require.Equal(t, tc.msg, body["error"])
			}
			require.NotContains(t, body["error"], "disk")
		})
	}
}

func TestHTTPServer_AdminRoutes(t *testing.T) {
	server := newTestServer(t, &stubProjects{})

	resp, _ := do(t, server, http.MethodPost, "/admin/recompute-hours", "client", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := do(t, server, http.MethodPost, "/admin/recompute-hours", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.EqualValues(t, 3, body["projects"])
}

func TestHTTPServer_AddClientComment(t *testing.T) {
	server := newTestServerWith(t, Services{
		Projects: &stubProjects{},
		Clients: &stubClients{
			addComment: func(claim identity.Claim, clientID string, req client.CommentRequest) (*client.Comment, error) {
				require.Equal(t, "cl1", clientID)
				return &client.Comment{ID: "k1", Message: req.Message, CreatedBy: claim.Subject}, nil
			},
		},
	})

	resp, body := do(t, server, http.MethodPost, "/clients/cl1/comments", "client", map[string]any{"message": "hello"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "hello", body["message"])
	require.Equal(t, "c1", body["createdBy"])

	resp, _ = do(t, server, http.MethodPost, "/clients/cl1/comments", "employee", map[string]any{"message": "hello"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHTTPServer_TrainingUpdates(t *testing.T) {
	var gotOpts training.ListOptions
	server := newTestServerWith(t, Services{
		Projects: &stubProjects{},
		Training: &stubTraining{
			create: func(claim identity.Claim, req training.CreateRequest) (*training.Update, error) {
				return &training.Update{ID: "t1", EmployeeID: claim.EmployeeRef, Course: req.Course}, nil
			},
			list: func(_ identity.Claim, opts training.ListOptions) ([]training.Update, error) {
				gotOpts = opts
				return []training.Update{{ID: "t1"}}, nil
			},
		},
	})

	resp, body := do(t, server, http.MethodPost, "/training-updates", "employee", map[string]any{"course": "Go", "tasksDone": "ch1"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "e1", body["employee"])
	require.Equal(t, "Go", body["course"])

	resp, body = do(t, server, http.MethodGet, "/training-updates?employeeId=e1", "employee", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, body["updates"], 1)
	require.Equal(t, "e1", gotOpts.EmployeeID)

	resp, _ = do(t, server, http.MethodGet, "/training-updates", "client", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}
