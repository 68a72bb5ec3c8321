package integration_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/teamportal/internal/domain/client"
	"github.com/rpggio/teamportal/internal/domain/employee"
	"github.com/rpggio/teamportal/internal/domain/identity"
	"github.com/rpggio/teamportal/internal/domain/project"
	"github.com/rpggio/teamportal/internal/testserver"
)

type env struct {
	ts    *testserver.TestServer
	admin string
}

func newEnv(t *testing.T, opts ...testserver.Option) *env {
	t.Helper()
	ts := testserver.New(t, opts...)
	return &env{ts: ts, admin: ts.Token(t, identity.Claim{Subject: "admin-1", Role: identity.RoleAdmin})}
}

func (e *env) createClient(t *testing.T, org string) client.Client {
	t.Helper()
	var c client.Client
	status := e.ts.Do(t, http.MethodPost, "/clients", e.admin, map[string]any{
		"organization": org,
		"email":        "ops@" + org + ".test",
	}, &c)
	require.Equal(t, http.StatusCreated, status)
	return c
}

func (e *env) createEmployee(t *testing.T, name string) employee.Employee {
	t.Helper()
	var emp employee.Employee
	status := e.ts.Do(t, http.MethodPost, "/employees", e.admin, map[string]any{"name": name}, &emp)
	require.Equal(t, http.StatusCreated, status)
	return emp
}

func (e *env) createProject(t *testing.T, token string, body map[string]any) project.Project {
	t.Helper()
	var p project.Project
	status := e.ts.Do(t, http.MethodPost, "/projects", token, body, &p)
	require.Equal(t, http.StatusCreated, status)
	return p
}

func (e *env) getClient(t *testing.T, id string) client.Client {
	t.Helper()
	var c client.Client
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodGet, "/clients/"+id, e.admin, nil, &c))
	return c
}

func TestIntegration_ClientRosterFollowsProject(t *testing.T) {
	e := newEnv(t)
	acme := e.createClient(t, "acme")
	globex := e.createClient(t, "globex")

	p := e.createProject(t, e.admin, map[string]any{"clientName": "Acme site", "client": acme.ID})
	require.Equal(t, []string{p.ID}, e.getClient(t, acme.ID).Projects)
	require.Empty(t, e.getClient(t, globex.ID).Projects)

	var moved project.Project
	status := e.ts.Do(t, http.MethodPut, "/projects/"+p.ID, e.admin, map[string]any{"client": globex.ID}, &moved)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, globex.ID, moved.ClientID)

	require.Empty(t, e.getClient(t, acme.ID).Projects)
	require.Equal(t, []string{p.ID}, e.getClient(t, globex.ID).Projects)

	var listed struct {
		Projects []project.Project `json:"projects"`
	}
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodGet, "/clients/"+globex.ID+"/projects", e.admin, nil, &listed))
	require.Len(t, listed.Projects, 1)
}

func TestIntegration_TotalHoursFollowDailyUpdates(t *testing.T) {
	e := newEnv(t)
	emp := e.createEmployee(t, "Ada")
	p := e.createProject(t, e.admin, map[string]any{"clientName": "Acme", "assignees": []string{emp.ID}})
	staff := e.ts.Token(t, identity.Claim{Subject: "user-ada", Role: identity.RoleEmployee, EmployeeRef: emp.ID})

	for _, hours := range []float64{4, 3.5} {
		status := e.ts.Do(t, http.MethodPost, "/projects/"+p.ID+"/updates", staff, map[string]any{
			"summary":     "worked on the site",
			"hoursLogged": hours,
		}, nil)
		require.Equal(t, http.StatusCreated, status)
	}

	var got project.Project
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodGet, "/projects/"+p.ID, staff, nil, &got))
	require.InDelta(t, 7.5, got.TotalHoursSpent, 1e-9)

	status := e.ts.Do(t, http.MethodPost, "/projects/"+p.ID+"/updates", staff, map[string]any{
		"summary":     "oops",
		"hoursLogged": -1,
	}, nil)
	require.Equal(t, http.StatusBadRequest, status)

	var mine struct {
		Updates []map[string]any `json:"updates"`
	}
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodGet, "/employees/daily-updates", staff, nil, &mine))
	require.Len(t, mine.Updates, 2)
}

func TestIntegration_AssignmentLeadAndUnknownEmployee(t *testing.T) {
	e := newEnv(t)
	e1 := e.createEmployee(t, "Ada")
	e2 := e.createEmployee(t, "Grace")
	p := e.createProject(t, e.admin, map[string]any{"clientName": "Acme"})
	require.False(t, p.Assigned)

	var got project.Project
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodPut, "/projects/"+p.ID+"/assignees", e.admin,
		map[string]any{"assignees": []string{e2.ID, e1.ID}}, &got))
	require.True(t, got.Assigned)
	require.Equal(t, e2.ID, got.LeadAssignee)
	require.Len(t, got.Team, 2)

	status := e.ts.Do(t, http.MethodPut, "/projects/"+p.ID+"/assignees", e.admin,
		map[string]any{"assignees": []string{e1.ID, "ghost"}}, nil)
	require.Equal(t, http.StatusNotFound, status)

	var unchanged project.Project
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodGet, "/projects/"+p.ID, e.admin, nil, &unchanged))
	require.Equal(t, []string{e2.ID, e1.ID}, unchanged.Assignees)

	// leadAssignee is omitted when empty, so decode into a fresh value.
	var cleared project.Project
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodPut, "/projects/"+p.ID+"/assignees", e.admin,
		map[string]any{"assignees": []string{}}, &cleared))
	require.False(t, cleared.Assigned)
	require.Empty(t, cleared.LeadAssignee)
	require.Empty(t, cleared.Assignees)
}

func TestIntegration_UpdateDerivesAssignment(t *testing.T) {
	e := newEnv(t)
	e1 := e.createEmployee(t, "Ada")
	e2 := e.createEmployee(t, "Grace")
	p := e.createProject(t, e.admin, map[string]any{"clientName": "Acme"})

	var updated project.Project
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodPut, "/projects/"+p.ID, e.admin, map[string]any{
		"assignees":    []string{e2.ID, e1.ID},
		"assigned":     false,
		"leadAssignee": e1.ID,
	}, &updated))
	require.True(t, updated.Assigned)
	require.Equal(t, e2.ID, updated.LeadAssignee)

	status := e.ts.Do(t, http.MethodPut, "/projects/"+p.ID, e.admin, map[string]any{
		"assignees":          []string{e1.ID, "ghost"},
		"projectDescription": "must not stick",
	}, nil)
	require.Equal(t, http.StatusNotFound, status)

	var after project.Project
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodGet, "/projects/"+p.ID, e.admin, nil, &after))
	require.Equal(t, []string{e2.ID, e1.ID}, after.Assignees)
	require.Equal(t, e2.ID, after.LeadAssignee)
	require.Empty(t, after.Description)
}

func TestIntegration_ListFilters(t *testing.T) {
	e := newEnv(t)
	acme := e.createClient(t, "acme")
	globex := e.createClient(t, "globex")
	emp := e.createEmployee(t, "Ada")
	p1 := e.createProject(t, e.admin, map[string]any{"clientName": "Acme", "client": acme.ID, "assignees": []string{emp.ID}})
	p2 := e.createProject(t, e.admin, map[string]any{"clientName": "Globex", "client": globex.ID, "assignees": []string{emp.ID}})

	var listed struct {
		Projects []project.Project `json:"projects"`
	}
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodGet, "/projects?clientId="+globex.ID, e.admin, nil, &listed))
	require.Len(t, listed.Projects, 1)
	require.Equal(t, p2.ID, listed.Projects[0].ID)

	for _, id := range []string{p1.ID, p2.ID} {
		require.Equal(t, http.StatusCreated, e.ts.Do(t, http.MethodPost, "/daily-updates", e.admin, map[string]any{
			"project":     id,
			"employee":    emp.ID,
			"summary":     "work",
			"hoursLogged": 1,
		}, nil))
	}

	var updates struct {
		Updates []map[string]any `json:"updates"`
	}
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodGet, "/daily-updates?projectId="+p1.ID, e.admin, nil, &updates))
	require.Len(t, updates.Updates, 1)
	require.Equal(t, p1.ID, updates.Updates[0]["project"])
}

func TestIntegration_ClientOwnership(t *testing.T) {
	e := newEnv(t)
	acme := e.createClient(t, "acme")
	globex := e.createClient(t, "globex")
	globexProject := e.createProject(t, e.admin, map[string]any{"clientName": "Globex", "client": globex.ID})

	acmeUser := e.ts.Token(t, identity.Claim{Subject: "acme-user", Role: identity.RoleClient, ClientRef: acme.ID})
	own := e.createProject(t, acmeUser, map[string]any{"projectType": "website"})
	require.Equal(t, acme.ID, own.ClientID)
	require.Equal(t, project.StatusContactMade, own.Status)
	require.Equal(t, "acme", own.ClientName)

	require.Equal(t, http.StatusForbidden, e.ts.Do(t, http.MethodGet, "/projects/"+globexProject.ID, acmeUser, nil, nil))
	require.Equal(t, http.StatusForbidden, e.ts.Do(t, http.MethodGet, "/clients/"+globex.ID, acmeUser, nil, nil))

	var listed struct {
		Projects []project.Project `json:"projects"`
	}
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodGet, "/projects", acmeUser, nil, &listed))
	require.Len(t, listed.Projects, 1)
	require.Equal(t, own.ID, listed.Projects[0].ID)

	status := e.ts.Do(t, http.MethodPut, "/projects/"+own.ID, acmeUser, map[string]any{"status": "Active"}, nil)
	require.Equal(t, http.StatusForbidden, status)
}

func TestIntegration_ClientWithoutRefOwnsWhatItCreated(t *testing.T) {
	e := newEnv(t)
	creator := e.ts.Token(t, identity.Claim{Subject: "walk-in", Role: identity.RoleClient, Name: "Walk In"})
	other := e.ts.Token(t, identity.Claim{Subject: "someone-else", Role: identity.RoleClient})

	p := e.createProject(t, creator, map[string]any{"projectDescription": "landing page"})
	require.Equal(t, "Walk In", p.ClientName)

	var got project.Project
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodGet, "/projects/"+p.ID, creator, nil, &got))
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodPut, "/projects/"+p.ID, creator,
		map[string]any{"projectDescription": "landing page v2"}, &got))
	require.Equal(t, "landing page v2", got.Description)

	require.Equal(t, http.StatusForbidden, e.ts.Do(t, http.MethodGet, "/projects/"+p.ID, other, nil, nil))
}

func TestIntegration_ReconcileRepairsRoster(t *testing.T) {
	e := newEnv(t)
	acme := e.createClient(t, "acme")
	globex := e.createClient(t, "globex")
	p := e.createProject(t, e.admin, map[string]any{"clientName": "Acme", "client": acme.ID})

	ctx := context.Background()
	_, err := e.ts.App.DB.ExecContext(ctx, `DELETE FROM client_projects WHERE client_id = ?`, acme.ID)
	require.NoError(t, err)
	_, err = e.ts.App.DB.ExecContext(ctx, `INSERT INTO client_projects (client_id, project_id, position) VALUES (?, ?, 0)`, globex.ID, p.ID)
	require.NoError(t, err)

	var report project.ReconcileReport
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodPost, "/admin/reconcile-client-links", e.admin, nil, &report))
	require.Equal(t, 1, report.Added)
	require.Equal(t, 1, report.Removed)

	require.Equal(t, []string{p.ID}, e.getClient(t, acme.ID).Projects)
	require.Empty(t, e.getClient(t, globex.ID).Projects)

	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodPost, "/admin/reconcile-client-links", e.admin, nil, &report))
	require.False(t, report.Changed())
}

func TestIntegration_RoleGates(t *testing.T) {
	e := newEnv(t)
	emp := e.createEmployee(t, "Ada")
	staff := e.ts.Token(t, identity.Claim{Subject: "user-ada", Role: identity.RoleEmployee, EmployeeRef: emp.ID})
	applicant := e.ts.Token(t, identity.Claim{Subject: "applicant-1", Role: identity.RoleApplicant})

	require.Equal(t, http.StatusForbidden, e.ts.Do(t, http.MethodPost, "/projects", staff, map[string]any{"clientName": "x"}, nil))
	require.Equal(t, http.StatusForbidden, e.ts.Do(t, http.MethodGet, "/clients", staff, nil, nil))
	require.Equal(t, http.StatusForbidden, e.ts.Do(t, http.MethodPost, "/admin/recompute-hours", staff, nil, nil))
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodGet, "/projects", applicant, nil, nil))
	require.Equal(t, http.StatusUnauthorized, e.ts.Do(t, http.MethodGet, "/projects", "", nil, nil))
}

func TestIntegration_AssignedScopeLimitsStaff(t *testing.T) {
	e := newEnv(t, testserver.WithEmployeeScope("assigned"))
	emp := e.createEmployee(t, "Ada")
	mine := e.createProject(t, e.admin, map[string]any{"clientName": "Mine", "assignees": []string{emp.ID}})
	other := e.createProject(t, e.admin, map[string]any{"clientName": "Other"})
	staff := e.ts.Token(t, identity.Claim{Subject: "user-ada", Role: identity.RoleEmployee, EmployeeRef: emp.ID})

	var listed struct {
		Projects []project.Project `json:"projects"`
	}
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodGet, "/projects", staff, nil, &listed))
	require.Len(t, listed.Projects, 1)
	require.Equal(t, mine.ID, listed.Projects[0].ID)

	require.Equal(t, http.StatusForbidden, e.ts.Do(t, http.MethodGet, "/projects/"+other.ID, staff, nil, nil))
}

func TestIntegration_ChecklistStatus(t *testing.T) {
	e := newEnv(t)
	emp := e.createEmployee(t, "Ada")
	staff := e.ts.Token(t, identity.Claim{Subject: "user-ada", Role: identity.RoleEmployee, EmployeeRef: emp.ID})

	body := map[string]any{"date": "2026-10-19", "checklist": map[string]bool{"standup": true}}
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodPost, "/employees/checklist-status", staff, body, nil))
	body["checklist"] = map[string]bool{"standup": true, "report": true}
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodPost, "/employees/checklist-status", staff, body, nil))

	var listed struct {
		ChecklistStatuses []map[string]any `json:"checklistStatuses"`
	}
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodGet, "/employees/"+emp.ID+"/checklist-status", e.admin, nil, &listed))
	require.Len(t, listed.ChecklistStatuses, 1)
	require.Len(t, listed.ChecklistStatuses[0]["checklist"], 2)
}

func TestIntegration_ProjectDetails(t *testing.T) {
	e := newEnv(t)
	ada := e.createEmployee(t, "Ada")
	grace := e.createEmployee(t, "Grace")

	p := e.createProject(t, e.admin, map[string]any{
		"clientName":     "Acme",
		"vaIncharge":     ada.ID,
		"updateIncharge": grace.ID,
		"milestones": []map[string]any{
			{"name": "Design", "dueDate": "2026-11-01", "owner": grace.ID},
			{"name": "Launch", "status": "Blocked"},
		},
		"filesLinks": []map[string]any{{"label": "Brief", "url": "https://files.example.com/brief.pdf", "type": "file"}},
	})
	require.Len(t, p.Milestones, 2)
	require.Equal(t, project.MilestonePending, p.Milestones[0].Status)
	require.Equal(t, ada.ID, p.VAIncharge)
	require.Len(t, p.FilesLinks, 1)

	status := e.ts.Do(t, http.MethodPost, "/projects", e.admin, map[string]any{
		"clientName": "Acme",
		"milestones": []map[string]any{{"name": "Launch", "owner": "ghost"}},
	}, nil)
	require.Equal(t, http.StatusNotFound, status)

	var updated project.Project
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodPut, "/projects/"+p.ID, e.admin, map[string]any{
		"milestones": []map[string]any{{"id": p.Milestones[1].ID, "name": "Launch", "status": "Completed"}},
	}, &updated))
	require.Len(t, updated.Milestones, 1)
	require.Equal(t, p.Milestones[1].ID, updated.Milestones[0].ID)
	require.Equal(t, project.MilestoneCompleted, updated.Milestones[0].Status)
	require.Equal(t, ada.ID, updated.VAIncharge)

	var bad map[string]any
	status = e.ts.Do(t, http.MethodPut, "/projects/"+p.ID, e.admin, map[string]any{
		"milestones": []map[string]any{{"name": "Launch", "status": "Someday"}},
	}, &bad)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "milestones[0].status", bad["field"])
}

func TestIntegration_ClientComments(t *testing.T) {
	e := newEnv(t)
	acme := e.createClient(t, "acme")
	globex := e.createClient(t, "globex")
	acmeUser := e.ts.Token(t, identity.Claim{Subject: "acme-user", Role: identity.RoleClient, ClientRef: acme.ID})

	require.Equal(t, http.StatusCreated, e.ts.Do(t, http.MethodPost, "/clients/"+acme.ID+"/comments", acmeUser,
		map[string]any{"message": "Can we move the launch?"}, nil))
	require.Equal(t, http.StatusCreated, e.ts.Do(t, http.MethodPost, "/clients/"+acme.ID+"/comments", e.admin,
		map[string]any{"message": "Yes, next week."}, nil))
	require.Equal(t, http.StatusForbidden, e.ts.Do(t, http.MethodPost, "/clients/"+globex.ID+"/comments", acmeUser,
		map[string]any{"message": "hi"}, nil))
	require.Equal(t, http.StatusNotFound, e.ts.Do(t, http.MethodPost, "/clients/ghost/comments", e.admin,
		map[string]any{"message": "hi"}, nil))

	c := e.getClient(t, acme.ID)
	require.Len(t, c.Comments, 2)
	require.Equal(t, "acme-user", c.Comments[0].CreatedBy)
	require.Equal(t, "Yes, next week.", c.Comments[1].Message)
}

func TestIntegration_TrainingUpdates(t *testing.T) {
	e := newEnv(t)
	ada := e.createEmployee(t, "Ada")
	grace := e.createEmployee(t, "Grace")
	adaToken := e.ts.Token(t, identity.Claim{Subject: "user-ada", Role: identity.RoleEmployee, EmployeeRef: ada.ID})

	require.Equal(t, http.StatusCreated, e.ts.Do(t, http.MethodPost, "/training-updates", adaToken, map[string]any{
		"course":    "Go fundamentals",
		"date":      "2026-10-01",
		"tasksDone": "chapters 1-3",
	}, nil))
	require.Equal(t, http.StatusCreated, e.ts.Do(t, http.MethodPost, "/training-updates", e.admin, map[string]any{
		"employee":  grace.ID,
		"course":    "SQL",
		"tasksDone": "joins",
	}, nil))
	require.Equal(t, http.StatusForbidden, e.ts.Do(t, http.MethodPost, "/training-updates", adaToken, map[string]any{
		"employee":  grace.ID,
		"course":    "SQL",
		"tasksDone": "joins",
	}, nil))

	var listed struct {
		Updates []map[string]any `json:"updates"`
	}
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodGet, "/training-updates", adaToken, nil, &listed))
	require.Len(t, listed.Updates, 1)
	require.Equal(t, "Ada", listed.Updates[0]["employeeName"])
	require.Equal(t, "In Progress", listed.Updates[0]["status"])

	var all struct {
		Updates []map[string]any `json:"updates"`
	}
	require.Equal(t, http.StatusOK, e.ts.Do(t, http.MethodGet, "/training-updates", e.admin, nil, &all))
	require.Len(t, all.Updates, 2)

	outsider := e.ts.Token(t, identity.Claim{Subject: "c", Role: identity.RoleClient})
	require.Equal(t, http.StatusForbidden, e.ts.Do(t, http.MethodGet, "/training-updates", outsider, nil, nil))
}
