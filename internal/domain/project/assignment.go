package project

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rpggio/teamportal/internal/domain/identity"
	"github.com/rpggio/teamportal/internal/repository"
)

// Assignment is the roster state derived from an ordered list of employee ids.
type Assignment struct {
	Assignees    []string
	Assigned     bool
	LeadAssignee string
}

// NewAssignment dedupes ids keeping the first occurrence of each. The lead is
// the first remaining id.
func NewAssignment(ids []string) Assignment {
	seen := make(map[string]struct{}, len(ids))
	roster := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		roster = append(roster, id)
	}

	a := Assignment{Assignees: roster, Assigned: len(roster) > 0}
	if a.Assigned {
		a.LeadAssignee = roster[0]
	}
	return a
}

// Apply writes the roster state onto p.
func (a Assignment) Apply(p *Project) {
	p.Assignees = a.Assignees
	p.Assigned = a.Assigned
	p.LeadAssignee = a.LeadAssignee
}

// AssignEmployees replaces a project's roster. Every id must name an existing
// employee; otherwise nothing is written.
func (s *Service) AssignEmployees(ctx context.Context, claim identity.Claim, projectID string, employeeIDs []string) (*Project, error) {
	if !claim.IsAdmin() {
		return nil, ErrForbidden
	}
	p, err := s.load(ctx, projectID)
	if err != nil {
		return nil, err
	}

	a := NewAssignment(employeeIDs)
	if err := s.checkEmployees(ctx, a.Assignees); err != nil {
		return nil, err
	}
	a.Apply(p)
	p.UpdatedBy = claim.Subject
	p.UpdatedAt = time.Now().UTC()

	if err := s.projects.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("assigning employees: %w", err)
	}

	s.logger.Info("project roster replaced", "project_id", p.ID, "assignees", len(a.Assignees), "lead", a.LeadAssignee)
	return s.load(ctx, p.ID)
}
