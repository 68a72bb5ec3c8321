package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/rpggio/teamportal/internal/domain/checklist"
	"github.com/rpggio/teamportal/internal/domain/client"
	"github.com/rpggio/teamportal/internal/domain/dailyupdate"
	"github.com/rpggio/teamportal/internal/domain/employee"
	"github.com/rpggio/teamportal/internal/domain/project"
	"github.com/rpggio/teamportal/internal/domain/training"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*project.Project); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProjectRepository) List(ctx context.Context, f project.Filter) ([]project.Project, error) {
	args := m.Called(ctx, f)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) RecomputeTotalHours(ctx context.Context, id string) (float64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(float64), args.Error(1)
}

func (m *ProjectRepository) RecomputeAllTotalHours(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *ProjectRepository) ClientLinks(ctx context.Context) ([]project.ClientLink, error) {
	args := m.Called(ctx)
	if links, ok := args.Get(0).([]project.ClientLink); ok {
		return links, args.Error(1)
	}
	return nil, args.Error(1)
}

// ClientRepository is a mock for client.Repository.
type ClientRepository struct {
	mock.Mock
}

func (m *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *ClientRepository) Get(ctx context.Context, id string) (*client.Client, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*client.Client); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClientRepository) List(ctx context.Context) ([]client.Client, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]client.Client); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ClientRepository) AddProject(ctx context.Context, clientID, projectID string) error {
	args := m.Called(ctx, clientID, projectID)
	return args.Error(0)
}

func (m *ClientRepository) RemoveProject(ctx context.Context, clientID, projectID string) error {
	args := m.Called(ctx, clientID, projectID)
	return args.Error(0)
}

func (m *ClientRepository) AddComment(ctx context.Context, clientID string, c *client.Comment) error {
	args := m.Called(ctx, clientID, c)
	return args.Error(0)
}

// EmployeeRepository is a mock for employee.Repository.
type EmployeeRepository struct {
	mock.Mock
}

func (m *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *EmployeeRepository) Get(ctx context.Context, id string) (*employee.Employee, error) {
	args := m.Called(ctx, id)
	if e, ok := args.Get(0).(*employee.Employee); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]employee.Employee); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EmployeeRepository) Missing(ctx context.Context, ids []string) ([]string, error) {
	args := m.Called(ctx, ids)
	if missing, ok := args.Get(0).([]string); ok {
		return missing, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *EmployeeRepository) UpdateProfile(ctx context.Context, e *employee.Employee) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

// DailyUpdateRepository is a mock for dailyupdate.Repository.
type DailyUpdateRepository struct {
	mock.Mock
}

func (m *DailyUpdateRepository) Create(ctx context.Context, u *dailyupdate.DailyUpdate) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *DailyUpdateRepository) List(ctx context.Context, opts dailyupdate.ListOptions) ([]dailyupdate.DailyUpdate, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]dailyupdate.DailyUpdate); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// ChecklistRepository is a mock for checklist.Repository.
type ChecklistRepository struct {
	mock.Mock
}

func (m *ChecklistRepository) Upsert(ctx context.Context, employeeID string, day time.Time, items map[string]bool) (*checklist.Status, error) {
	args := m.Called(ctx, employeeID, day, items)
	if st, ok := args.Get(0).(*checklist.Status); ok {
		return st, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChecklistRepository) ListByEmployee(ctx context.Context, employeeID string) ([]checklist.Status, error) {
	args := m.Called(ctx, employeeID)
	if list, ok := args.Get(0).([]checklist.Status); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// TrainingRepository is a mock for training.Repository.
type TrainingRepository struct {
	mock.Mock
}

func (m *TrainingRepository) Create(ctx context.Context, u *training.Update) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *TrainingRepository) List(ctx context.Context, opts training.ListOptions) ([]training.Update, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]training.Update); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
