package authz

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/teamportal/internal/apperr"
	"github.com/rpggio/teamportal/internal/domain/identity"
)

func newTestAuthorizer(t *testing.T) *Authorizer {
	t.Helper()
	a, err := New(nil)
	require.NoError(t, err)
	return a
}

func TestAuthorizer_Policy(t *testing.T) {
	a := newTestAuthorizer(t)

	cases := []struct {
		role   identity.Role
		object string
		action string
		want   bool
	}{
		{identity.RoleAdmin, ObjectMaintenance, ActionRun, true},
		{identity.RoleAdmin, ObjectProjectAssignees, ActionUpdate, true},
		{identity.RoleEmployee, ObjectProject, ActionList, true},
		{identity.RoleApplicant, ObjectProject, ActionRead, true},
		{identity.RoleClient, ObjectProject, ActionRead, true},
		{identity.RoleClient, ObjectProject, ActionCreate, true},
		{identity.RoleEmployee, ObjectProject, ActionCreate, false},
		{identity.RoleEmployee, ObjectProjectAssignees, ActionUpdate, false},
		{identity.RoleClient, ObjectProjectAssignees, ActionUpdate, false},
		{identity.RoleEmployee, ObjectDailyUpdate, ActionCreate, true},
		{identity.RoleApplicant, ObjectDailyUpdate, ActionCreate, false},
		{identity.RoleClient, ObjectDailyUpdate, ActionCreate, false},
		{identity.RoleClient, ObjectDailyUpdate, ActionList, true},
		{identity.RoleEmployee, ObjectDailyUpdate, ActionList, false},
		{identity.RoleClient, ObjectClient, ActionList, false},
		{identity.RoleClient, ObjectClient, ActionRead, true},
		{identity.RoleEmployee, ObjectEmployeeChecklist, ActionRead, false},
		{identity.RoleEmployee, ObjectMaintenance, ActionRun, false},
		{identity.RoleEmployee, ObjectTraining, ActionCreate, true},
		{identity.RoleApplicant, ObjectTraining, ActionCreate, false},
		{identity.RoleClient, ObjectTraining, ActionList, false},
		{identity.RoleClient, ObjectClientComments, ActionCreate, true},
		{identity.RoleEmployee, ObjectClientComments, ActionCreate, false},
	}

	for _, tc := range cases {
		got, err := a.Allowed(tc.role, tc.object, tc.action)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "%s %s %s", tc.role, tc.object, tc.action)
	}
}

func TestAuthorizer_UnknownRole(t *testing.T) {
	a := newTestAuthorizer(t)

	ok, err := a.Allowed("staff", ObjectProject, ActionList)
	require.NoError(t, err)
	require.False(t, ok, "internal group names are not roles")

	err = a.Authorize(identity.Claim{Subject: "u1", Role: "root"}, ObjectProject, ActionList)
	require.ErrorIs(t, err, apperr.ErrForbidden)
}
