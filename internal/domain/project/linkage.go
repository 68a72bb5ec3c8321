package project

import (
	"context"
	"fmt"

	"github.com/rpggio/teamportal/internal/apperr"
)

// ReconcileReport summarizes a roster repair pass.
type ReconcileReport struct {
	LinkedProjects int `json:"linkedProjects"`
	ClientsScanned int `json:"clientsScanned"`
	Added          int `json:"added"`
	Removed        int `json:"removed"`
}

// Changed reports whether the pass modified any roster.
func (r ReconcileReport) Changed() bool {
	return r.Added > 0 || r.Removed > 0
}

// link moves projectID from the previous client's roster to the next one's.
// Adding is idempotent.
func (s *Service) link(ctx context.Context, projectID, previousClientID, nextClientID string) error {
	if previousClientID != "" && previousClientID != nextClientID {
		if err := s.clients.RemoveProject(ctx, previousClientID, projectID); err != nil {
			return s.dependentWrite("unlink_client", err, "project_id", projectID, "client_id", previousClientID)
		}
	}
	if nextClientID != "" {
		if err := s.clients.AddProject(ctx, nextClientID, projectID); err != nil {
			return s.dependentWrite("link_client", err, "project_id", projectID, "client_id", nextClientID)
		}
	}
	return nil
}

// ReconcileClientLinks rebuilds every client's project roster from the
// client reference stored on each project. Running it twice changes nothing
// the second time.
func (s *Service) ReconcileClientLinks(ctx context.Context) (ReconcileReport, error) {
	var report ReconcileReport
	err := s.inTx(ctx, func(ctx context.Context) error {
		report = ReconcileReport{}

		links, err := s.projects.ClientLinks(ctx)
		if err != nil {
			return fmt.Errorf("listing client links: %w", err)
		}
		report.LinkedProjects = len(links)
		want := make(map[string][]string)
		for _, l := range links {
			want[l.ClientID] = append(want[l.ClientID], l.ProjectID)
		}

		clients, err := s.clients.List(ctx)
		if err != nil {
			return fmt.Errorf("listing clients: %w", err)
		}
		for _, c := range clients {
			report.ClientsScanned++
			wanted := toSet(want[c.ID])
			have := toSet(c.Projects)

			for _, projectID := range c.Projects {
				if _, ok := wanted[projectID]; ok {
					continue
				}
				if err := s.clients.RemoveProject(ctx, c.ID, projectID); err != nil {
					return fmt.Errorf("removing %s from client %s: %w", projectID, c.ID, err)
				}
				report.Removed++
			}
			for _, projectID := range want[c.ID] {
				if _, ok := have[projectID]; ok {
					continue
				}
				if err := s.clients.AddProject(ctx, c.ID, projectID); err != nil {
					return fmt.Errorf("adding %s to client %s: %w", projectID, c.ID, err)
				}
				report.Added++
			}
		}
		return nil
	})
	if err != nil {
		return ReconcileReport{}, err
	}

	s.logger.Info("client links reconciled",
		"linked_projects", report.LinkedProjects,
		"clients", report.ClientsScanned,
		"added", report.Added,
		"removed", report.Removed,
	)
	return report, nil
}

// dependentWrite handles a failure in a write that follows the primary one.
// Inside a transaction the error rolls everything back. Without one the
// primary write has already landed, so the divergence is reported.
func (s *Service) dependentWrite(operation string, err error, attrs ...any) error {
	if s.tx != nil {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return s.consistencyRisk(operation, err, attrs...)
}

func (s *Service) consistencyRisk(operation string, err error, attrs ...any) error {
	consistencyRisks.WithLabelValues(operation).Inc()
	args := append([]any{"kind", "consistency_risk", "operation", operation, "error", err}, attrs...)
	s.logger.Error("dependent write failed after primary write", args...)
	return fmt.Errorf("%s: %w: %v", operation, apperr.ErrConsistencyRisk, err)
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
