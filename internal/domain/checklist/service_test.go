package checklist_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/teamportal/internal/apperr"
	"github.com/rpggio/teamportal/internal/domain/checklist"
	"github.com/rpggio/teamportal/internal/domain/employee"
	"github.com/rpggio/teamportal/internal/domain/identity"
	"github.com/rpggio/teamportal/internal/repository"
	"github.com/rpggio/teamportal/internal/repository/mocks"
)

var staff = identity.Claim{Subject: "u1", Role: identity.RoleEmployee, EmployeeRef: "e1"}

func TestChecklistService_Save(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ChecklistRepository{}
	day := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	items := map[string]bool{"standup": true}
	repo.On("Upsert", ctx, "e1", day, items).Return(&checklist.Status{EmployeeID: "e1", Date: day, Checklist: items}, nil)

	svc := checklist.NewService(repo, &mocks.EmployeeRepository{}, nil)
	status, err := svc.Save(ctx, staff, checklist.SaveRequest{Date: "2026-10-19", Checklist: items})
	require.NoError(t, err)
	require.Equal(t, day, status.Date)
	repo.AssertExpectations(t)
}

func TestChecklistService_SaveValidation(t *testing.T) {
	ctx := context.Background()
	svc := checklist.NewService(&mocks.ChecklistRepository{}, &mocks.EmployeeRepository{}, nil)

	_, err := svc.Save(ctx, staff, checklist.SaveRequest{Checklist: map[string]bool{}})
	require.ErrorIs(t, err, checklist.ErrDateRequired)

	_, err = svc.Save(ctx, staff, checklist.SaveRequest{Date: "yesterday", Checklist: map[string]bool{}})
	require.ErrorIs(t, err, apperr.ErrValidation)

	_, err = svc.Save(ctx, staff, checklist.SaveRequest{Date: "2026-10-19"})
	require.ErrorIs(t, err, checklist.ErrChecklistRequired)

	_, err = svc.Save(ctx, identity.Claim{Subject: "u2", Role: identity.RoleEmployee}, checklist.SaveRequest{Date: "2026-10-19", Checklist: map[string]bool{}})
	require.ErrorIs(t, err, employee.ErrNoEmployeeRef)
}

func TestChecklistService_SaveUnknownEmployee(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ChecklistRepository{}
	repo.On("Upsert", ctx, "e1", mock.Anything, mock.Anything).Return(nil, repository.ErrForeignKeyViolation)

	svc := checklist.NewService(repo, &mocks.EmployeeRepository{}, nil)
	_, err := svc.Save(ctx, staff, checklist.SaveRequest{Date: "2026-10-19", Checklist: map[string]bool{"a": true}})
	require.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestChecklistService_ForEmployee(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.ChecklistRepository{}
	employees := &mocks.EmployeeRepository{}
	employees.On("Missing", ctx, []string{"e1"}).Return([]string{}, nil)
	employees.On("Missing", ctx, []string{"ghost"}).Return([]string{"ghost"}, nil)
	repo.On("ListByEmployee", ctx, "e1").Return([]checklist.Status{{EmployeeID: "e1"}}, nil)

	svc := checklist.NewService(repo, employees, nil)
	list, err := svc.ForEmployee(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.ForEmployee(ctx, "ghost")
	require.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}
