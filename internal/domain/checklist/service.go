package checklist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rpggio/teamportal/internal/domain/employee"
	"github.com/rpggio/teamportal/internal/domain/identity"
	"github.com/rpggio/teamportal/internal/repository"
	"github.com/rpggio/teamportal/internal/validate"
)

// Service stores daily checklists.
type Service struct {
	repo      Repository
	employees EmployeeLookup
	logger    *slog.Logger
}

// NewService creates a new checklist service.
func NewService(repo Repository, employees EmployeeLookup, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, employees: employees, logger: logger}
}

// SaveRequest is the upsert payload.
type SaveRequest struct {
	Date      string          `json:"date"`
	Checklist map[string]bool `json:"checklist"`
}

// Save upserts the caller's checklist for the given day.
func (s *Service) Save(ctx context.Context, claim identity.Claim, req SaveRequest) (*Status, error) {
	if claim.EmployeeRef == "" {
		return nil, employee.ErrNoEmployeeRef
	}
	if strings.TrimSpace(req.Date) == "" {
		return nil, ErrDateRequired
	}
	day, err := validate.ParseDay(req.Date)
	if err != nil {
		return nil, ErrDateRequired
	}
	if req.Checklist == nil {
		return nil, ErrChecklistRequired
	}

	status, err := s.repo.Upsert(ctx, claim.EmployeeRef, day, req.Checklist)
	if err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("saving checklist: %w", err)
	}
	s.logger.Debug("checklist saved", "employee_id", claim.EmployeeRef, "date", day.Format("2006-01-02"), "items", len(req.Checklist))
	return status, nil
}

// Mine lists the caller's checklists, newest day first.
func (s *Service) Mine(ctx context.Context, claim identity.Claim) ([]Status, error) {
	if claim.EmployeeRef == "" {
		return nil, employee.ErrNoEmployeeRef
	}
	return s.repo.ListByEmployee(ctx, claim.EmployeeRef)
}

// ForEmployee lists an employee's checklists for an administrator.
func (s *Service) ForEmployee(ctx context.Context, employeeID string) ([]Status, error) {
	missing, err := s.employees.Missing(ctx, []string{employeeID})
	if err != nil {
		return nil, fmt.Errorf("checking employee: %w", err)
	}
	if len(missing) > 0 {
		return nil, employee.ErrEmployeeNotFound
	}
	return s.repo.ListByEmployee(ctx, employeeID)
}
