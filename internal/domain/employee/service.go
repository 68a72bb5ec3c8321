package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rpggio/teamportal/internal/apperr"
	"github.com/rpggio/teamportal/internal/domain/identity"
	"github.com/rpggio/teamportal/internal/repository"
	"github.com/rpggio/teamportal/internal/validate"
)

// Service handles employee directory and profile operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new employee service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines employee creation inputs.
type CreateRequest struct {
	UserID       string   `json:"userId"`
	Name         string   `json:"name" validate:"notblank"`
	Status       Status   `json:"status" validate:"omitempty,oneof=Active Inactive"`
	RoleTitle    string   `json:"roleTitle"`
	Contact      string   `json:"contact"`
	Skills       []string `json:"skills"`
	Availability string   `json:"availability"`
	Location     string   `json:"location"`
}

// ProfileUpdate lists the profile fields an employee may edit.
type ProfileUpdate struct {
	Name           *string  `json:"name"`
	Contact        *string  `json:"contact"`
	RoleTitle      *string  `json:"roleTitle"`
	Skills         []string `json:"skills"`
	Availability   *string  `json:"availability"`
	Location       *string  `json:"location"`
	TelegramHandle *string  `json:"telegramHandle"`
	WhatsappNumber *string  `json:"whatsappNumber"`
}

// Create adds an employee.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Employee, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	status := req.Status
	if status == "" {
		status = StatusActive
	}
	availability := req.Availability
	if availability == "" {
		availability = "Full-time"
	}
	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}

	now := time.Now().UTC()
	e := &Employee{
		ID:             uuid.NewString(),
		UserID:         req.UserID,
		Name:           strings.TrimSpace(req.Name),
		Status:         status,
		RoleTitle:      req.RoleTitle,
		Contact:        req.Contact,
		Skills:         skills,
		Availability:   availability,
		Location:       req.Location,
		ActiveProjects: []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("creating employee: %w", err)
	}
	s.logger.Info("employee created", "employee_id", e.ID, "name", e.Name)
	return e, nil
}

// Get fetches an employee by ID.
func (s *Service) Get(ctx context.Context, id string) (*Employee, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("getting employee: %w", err)
	}
	return e, nil
}

// List returns all employees with their active projects.
func (s *Service) List(ctx context.Context) ([]Employee, error) {
	return s.repo.List(ctx)
}

// Profile returns the employee record linked to the caller.
func (s *Service) Profile(ctx context.Context, claim identity.Claim) (*Employee, error) {
	if claim.EmployeeRef == "" {
		return nil, ErrNoEmployeeRef
	}
	return s.Get(ctx, claim.EmployeeRef)
}

// UpdateProfile applies the caller's edits to their own employee record.
func (s *Service) UpdateProfile(ctx context.Context, claim identity.Claim, upd ProfileUpdate) (*Employee, error) {
	e, err := s.Profile(ctx, claim)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return nil, apperr.Invalid("name", "name must not be blank")
		}
		e.Name = name
	}
	if upd.Contact != nil {
		e.Contact = *upd.Contact
	}
	if upd.RoleTitle != nil {
		e.RoleTitle = *upd.RoleTitle
	}
	if upd.Skills != nil {
		e.Skills = upd.Skills
	}
	if upd.Availability != nil {
		e.Availability = *upd.Availability
	}
	if upd.Location != nil {
		e.Location = *upd.Location
	}
	if upd.TelegramHandle != nil {
		e.TelegramHandle = *upd.TelegramHandle
	}
	if upd.WhatsappNumber != nil {
		e.WhatsappNumber = *upd.WhatsappNumber
	}
	e.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateProfile(ctx, e); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	s.logger.Info("employee profile updated", "employee_id", e.ID)
	return e, nil
}
