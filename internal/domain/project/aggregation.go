package project

import (
	"context"
	"errors"
	"fmt"

	"github.com/rpggio/teamportal/internal/repository"
)

// RecomputeHours resets a project's total to the sum of its daily updates.
func (s *Service) RecomputeHours(ctx context.Context, projectID string) (*Project, error) {
	total, err := s.projects.RecomputeTotalHours(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProjectNotFound
		}
		hoursRecomputes.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("recomputing hours: %w", err)
	}
	hoursRecomputes.WithLabelValues("ok").Inc()
	s.logger.Info("project hours recomputed", "project_id", projectID, "total_hours", total)
	return s.load(ctx, projectID)
}

// RecomputeAllHours recomputes every project's total and returns how many
// projects were touched.
func (s *Service) RecomputeAllHours(ctx context.Context) (int, error) {
	n, err := s.projects.RecomputeAllTotalHours(ctx)
	if err != nil {
		hoursRecomputes.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("recomputing all hours: %w", err)
	}
	hoursRecomputes.WithLabelValues("ok").Inc()
	s.logger.Info("all project hours recomputed", "projects", n)
	return n, nil
}

// refreshTotal runs after a daily update commits. The update stays even if
// the recompute fails.
func (s *Service) refreshTotal(ctx context.Context, projectID string) {
	total, err := s.projects.RecomputeTotalHours(ctx, projectID)
	if err != nil {
		hoursRecomputes.WithLabelValues("error").Inc()
		_ = s.consistencyRisk("recompute_hours", err, "project_id", projectID)
		return
	}
	hoursRecomputes.WithLabelValues("ok").Inc()
	s.logger.Debug("project hours refreshed", "project_id", projectID, "total_hours", total)
}
