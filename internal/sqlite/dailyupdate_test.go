package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/teamportal/internal/domain/dailyupdate"
	"github.com/rpggio/teamportal/internal/domain/project"
)

func TestDailyUpdateRepository_List(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	updates := NewDailyUpdateRepository(db)
	projects := NewProjectRepository(db)
	employees := NewEmployeeRepository(db)
	clients := NewClientRepository(db)

	require.NoError(t, employees.Create(ctx, newEmployee("e1", "Ada")))
	require.NoError(t, employees.Create(ctx, newEmployee("e2", "Grace")))
	require.NoError(t, clients.Create(ctx, newClient("c1", "Acme")))

	base := time.Now().UTC()
	p1 := newProject("p1", "Acme", base)
	p1.ClientID = "c1"
	project.NewAssignment([]string{"e1"}).Apply(p1)
	p2 := newProject("p2", "Globex", base.Add(time.Second))
	p2.CreatedBy = "client-user"
	require.NoError(t, projects.Create(ctx, p1))
	require.NoError(t, projects.Create(ctx, p2))

	add := func(id, projectID, employeeID string, day int) {
		require.NoError(t, updates.Create(ctx, &dailyupdate.DailyUpdate{
			ID:          id,
			ProjectID:   projectID,
			EmployeeID:  employeeID,
			Date:        time.Date(2024, 5, day, 0, 0, 0, 0, time.UTC),
			Summary:     "did " + id,
			HoursLogged: 1,
			Visibility:  dailyupdate.VisibilityInternal,
			CreatedAt:   time.Now().UTC(),
		}))
	}
	add("u1", "p1", "e1", 1)
	add("u2", "p1", "e2", 3)
	add("u3", "p2", "e1", 2)

	ids := func(list []dailyupdate.DailyUpdate) []string {
		out := []string{}
		for _, u := range list {
			out = append(out, u.ID)
		}
		return out
	}

	all, err := updates.List(ctx, dailyupdate.ListOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"u2", "u3", "u1"}, ids(all))
	require.Equal(t, "Grace", all[0].EmployeeName)
	require.Equal(t, "Engineer", all[0].EmployeeRoleTitle)
	require.Equal(t, "Acme", all[0].ProjectClientName)

	cases := map[string]struct {
		opts dailyupdate.ListOptions
		want []string
	}{
		"by project":    {dailyupdate.ListOptions{ProjectID: "p1"}, []string{"u2", "u1"}},
		"by employee":   {dailyupdate.ListOptions{EmployeeID: "e1"}, []string{"u3", "u1"}},
		"client owned":  {dailyupdate.ListOptions{ProjectClientID: "c1"}, []string{"u2", "u1"}},
		"creator owned": {dailyupdate.ListOptions{ProjectCreatedBy: "client-user"}, []string{"u3"}},
		"assignee":      {dailyupdate.ListOptions{ProjectAssigneeID: "e1"}, []string{"u2", "u1"}},
		"none":          {dailyupdate.ListOptions{None: true}, []string{}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := updates.List(ctx, tc.opts)
			require.NoError(t, err)
			require.Equal(t, tc.want, ids(got))
		})
	}
}

func TestDailyUpdateRepository_RejectsNegativeHours(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	require.NoError(t, NewEmployeeRepository(db).Create(ctx, newEmployee("e1", "Ada")))
	require.NoError(t, NewProjectRepository(db).Create(ctx, newProject("p1", "Acme", time.Now().UTC())))

	err := NewDailyUpdateRepository(db).Create(ctx, &dailyupdate.DailyUpdate{
		ID:          "u1",
		ProjectID:   "p1",
		EmployeeID:  "e1",
		Date:        time.Now().UTC(),
		Summary:     "oops",
		HoursLogged: -2,
		Visibility:  dailyupdate.VisibilityInternal,
		CreatedAt:   time.Now().UTC(),
	})
	require.Error(t, err)
}

func TestDailyUpdateRepository_Attachments(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	updates := NewDailyUpdateRepository(db)
	require.NoError(t, NewEmployeeRepository(db).Create(ctx, newEmployee("e1", "Ada")))
	require.NoError(t, NewProjectRepository(db).Create(ctx, newProject("p1", "Acme", time.Now().UTC())))

	base := dailyupdate.DailyUpdate{
		ProjectID:   "p1",
		EmployeeID:  "e1",
		Date:        time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Summary:     "shipped",
		HoursLogged: 2,
		Visibility:  dailyupdate.VisibilityInternal,
		CreatedAt:   time.Now().UTC(),
	}
	withFiles := base
	withFiles.ID = "u1"
	withFiles.Attachments = []dailyupdate.Attachment{
		{Name: "screenshot.png", URL: "https://files.example.com/s.png", StorageKey: "u1/s.png", Type: "file"},
	}
	bare := base
	bare.ID = "u2"
	require.NoError(t, updates.Create(ctx, &withFiles))
	require.NoError(t, updates.Create(ctx, &bare))

	got, err := updates.List(ctx, dailyupdate.ListOptions{ProjectID: "p1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	byID := map[string]dailyupdate.DailyUpdate{got[0].ID: got[0], got[1].ID: got[1]}
	require.Equal(t, withFiles.Attachments, byID["u1"].Attachments)
	require.Equal(t, []dailyupdate.Attachment{}, byID["u2"].Attachments)
}
