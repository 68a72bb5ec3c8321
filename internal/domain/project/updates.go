package project

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rpggio/teamportal/internal/apperr"
	"github.com/rpggio/teamportal/internal/domain/dailyupdate"
	"github.com/rpggio/teamportal/internal/domain/employee"
	"github.com/rpggio/teamportal/internal/domain/identity"
	"github.com/rpggio/teamportal/internal/validate"
)

// DailyUpdateRequest defines daily update inputs. ProjectID is only read
// when the project isn't given by the route.
type DailyUpdateRequest struct {
	ProjectID   string                   `json:"project"`
	EmployeeID  string                   `json:"employee"`
	Date        string                   `json:"date" validate:"omitempty,day"`
	Summary     string                   `json:"summary" validate:"notblank"`
	NextPlan    string                   `json:"nextPlan"`
	Blockers    string                   `json:"blockers"`
	HoursLogged float64                  `json:"hoursLogged" validate:"gte=0"`
	Visibility  dailyupdate.Visibility   `json:"visibility"`
	Attachments []dailyupdate.Attachment `json:"attachments" validate:"omitempty,dive"`
}

// AddDailyUpdate records work against a project and refreshes the project's
// total hours. Staff log for themselves.
func (s *Service) AddDailyUpdate(ctx context.Context, claim identity.Claim, projectID string, req DailyUpdateRequest) (*dailyupdate.DailyUpdate, error) {
	if !claim.IsAdmin() && !claim.IsStaff() {
		return nil, ErrForbidden
	}
	if projectID == "" {
		projectID = strings.TrimSpace(req.ProjectID)
	}
	if projectID == "" {
		return nil, apperr.Invalid("project", "this field is required")
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}
	if req.Visibility == "" {
		req.Visibility = dailyupdate.VisibilityInternal
	}
	if !req.Visibility.Valid() {
		return nil, apperr.Invalid("visibility", fmt.Sprintf("unknown visibility %q", req.Visibility))
	}

	p, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !s.resolver.CanView(claim, p) {
		return nil, ErrForbidden
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
	if err := s.checkEmployees(ctx, []string{employeeID}); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if req.Date != "" {
		if day, err = validate.ParseDay(req.Date); err != nil {
			return nil, apperr.Invalid("date", "date must be a date (YYYY-MM-DD or RFC 3339)")
		}
	}

	u := &dailyupdate.DailyUpdate{
		ID:          uuid.NewString(),
		ProjectID:   p.ID,
		EmployeeID:  employeeID,
		Date:        day,
		Summary:     strings.TrimSpace(req.Summary),
		NextPlan:    req.NextPlan,
		Blockers:    req.Blockers,
		HoursLogged: req.HoursLogged,
		Visibility:  req.Visibility,
		Attachments: attachments(req.Attachments),
		CreatedBy:   claim.Subject,
		CreatedAt:   now,
	}
	if err := s.updates.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("creating daily update: %w", err)
	}
	s.logger.Info("daily update added", "update_id", u.ID, "project_id", p.ID, "employee_id", employeeID, "hours", u.HoursLogged)

	s.refreshTotal(ctx, p.ID)
	return u, nil
}

func attachments(in []dailyupdate.Attachment) []dailyupdate.Attachment {
	out := make([]dailyupdate.Attachment, 0, len(in))
	for _, a := range in {
		a.URL = strings.TrimSpace(a.URL)
		if a.Type == "" {
			a.Type = "file"
		}
		out = append(out, a)
	}
	return out
}

// ProjectUpdates lists a visible project's daily updates, newest first.
func (s *Service) ProjectUpdates(ctx context.Context, claim identity.Claim, projectID string) ([]dailyupdate.DailyUpdate, error) {
	if _, err := s.Get(ctx, claim, projectID); err != nil {
		return nil, err
	}
	updates, err := s.updates.List(ctx, dailyupdate.ListOptions{ProjectID: projectID})
	if err != nil {
		return nil, fmt.Errorf("listing daily updates: %w", err)
	}
	return updates, nil
}

// DailyUpdates lists updates across every project the caller may see,
// optionally narrowed to one project or employee.
func (s *Service) DailyUpdates(ctx context.Context, claim identity.Claim, projectID, employeeID string) ([]dailyupdate.DailyUpdate, error) {
	f := s.resolver.ListFilter(claim, Query{})
	opts := dailyupdate.ListOptions{
		ProjectID:         projectID,
		EmployeeID:        employeeID,
		ProjectClientID:   f.ClientID,
		ProjectCreatedBy:  f.CreatedBy,
		ProjectAssigneeID: f.AssigneeID,
		None:              f.None,
	}
	if opts.None {
		return []dailyupdate.DailyUpdate{}, nil
	}
	updates, err := s.updates.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("listing daily updates: %w", err)
	}
	return updates, nil
}

// MyDailyUpdates lists the caller's own updates, newest first.
func (s *Service) MyDailyUpdates(ctx context.Context, claim identity.Claim) ([]dailyupdate.DailyUpdate, error) {
	if claim.EmployeeRef == "" {
		return nil, employee.ErrNoEmployeeRef
	}
	updates, err := s.updates.List(ctx, dailyupdate.ListOptions{EmployeeID: claim.EmployeeRef})
	if err != nil {
		return nil, fmt.Errorf("listing daily updates: %w", err)
	}
	return updates, nil
}
