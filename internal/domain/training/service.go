package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rpggio/teamportal/internal/apperr"
	"github.com/rpggio/teamportal/internal/domain/employee"
	"github.com/rpggio/teamportal/internal/domain/identity"
	"github.com/rpggio/teamportal/internal/repository"
	"github.com/rpggio/teamportal/internal/validate"
)

// ErrForbidden indicates the caller may not log or read this training entry.
var ErrForbidden = fmt.Errorf("training access %w", apperr.ErrForbidden)

// Service records training progress.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new training service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines a new training entry. Staff log for themselves and
// may leave Employee blank.
type CreateRequest struct {
	EmployeeID  string       `json:"employee"`
	Course      string       `json:"course" validate:"notblank"`
	Date        string       `json:"date" validate:"omitempty,day"`
	TasksDone   string       `json:"tasksDone" validate:"notblank"`
	Notes       string       `json:"notes"`
	Attachments []Attachment `json:"attachments" validate:"omitempty,dive"`
	Mentor      string       `json:"mentor"`
	Status      string       `json:"status"`
}

// Create records a training entry.
func (s *Service) Create(ctx context.Context, claim identity.Claim, req CreateRequest) (*Update, error) {
	if !claim.IsAdmin() && !claim.IsStaff() {
		return nil, ErrForbidden
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	employeeID := strings.TrimSpace(req.EmployeeID)
	if claim.IsStaff() {
		if claim.EmployeeRef == "" {
			return nil, employee.ErrNoEmployeeRef
		}
		if employeeID == "" {
			employeeID = claim.EmployeeRef
		}
		if employeeID != claim.EmployeeRef {
			return nil, ErrForbidden
		}
	}
	if employeeID == "" {
		return nil, apperr.Invalid("employee", "this field is required")
	}

	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if req.Date != "" {
		parsed, err := validate.ParseDay(req.Date)
		if err != nil {
			return nil, apperr.Invalid("date", "date must be a date (YYYY-MM-DD or RFC 3339)")
		}
		day = parsed
	}
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = DefaultStatus
	}
	attachments := make([]Attachment, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		a.URL = strings.TrimSpace(a.URL)
		attachments = append(attachments, a)
	}

	u := &Update{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		Course:      strings.TrimSpace(req.Course),
		Date:        day,
		TasksDone:   strings.TrimSpace(req.TasksDone),
		Notes:       req.Notes,
		Attachments: attachments,
		Mentor:      strings.TrimSpace(req.Mentor),
		Status:      status,
		CreatedBy:   claim.Subject,
		CreatedAt:   now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("creating training update: %w", err)
	}
	s.logger.Info("training update added", "update_id", u.ID, "employee_id", employeeID, "course", u.Course)
	return u, nil
}

// List returns training entries, newest first. Only administrators see
// everyone's entries; staff see their own.
func (s *Service) List(ctx context.Context, claim identity.Claim, opts ListOptions) ([]Update, error) {
	switch {
	case claim.IsAdmin():
	case claim.IsStaff():
		if claim.EmployeeRef == "" {
			return nil, employee.ErrNoEmployeeRef
		}
		if opts.EmployeeID != "" && opts.EmployeeID != claim.EmployeeRef {
			return nil, ErrForbidden
		}
		opts.EmployeeID = claim.EmployeeRef
	default:
		return nil, ErrForbidden
	}
	updates, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing training updates: %w", err)
	}
	return updates, nil
}
