package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/teamportal/internal/domain/employee"
	"github.com/rpggio/teamportal/internal/domain/project"
	"github.com/rpggio/teamportal/internal/repository"
)

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

var _ project.Repository = (*ProjectRepository)(nil)

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `
	p.id, p.client_name, p.status, p.priority, p.project_type, p.description,
	p.client_type, p.start_date, p.end_date, p.est_hours_required,
	p.total_hours_spent, p.assigned, p.lead_assignee, p.client_id,
	p.created_by, p.updated_by, p.tags, p.stock_market_flag,
	p.telegram_group_link, p.whatsapp_link, p.va_incharge, p.freelancer,
	p.update_incharge, p.milestone_details, p.files_links,
	p.created_at, p.updated_at,
	COALESCE(c.organization, '')`

const projectFrom = `
	FROM projects p
	LEFT JOIN clients c ON c.id = p.client_id`

// Create inserts a project with its assignee roster and milestones
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	tags, files, err := encodeProjectLists(p)
	if err != nil {
		return err
	}

	return r.db.InTx(ctx, func(ctx context.Context) error {
		_, err := r.db.conn(ctx).ExecContext(ctx, `
			INSERT INTO projects (
				id, client_name, status, priority, project_type, description,
				client_type, start_date, end_date, est_hours_required,
				total_hours_spent, assigned, lead_assignee, client_id,
				created_by, updated_by, tags, stock_market_flag,
				telegram_group_link, whatsapp_link, va_incharge, freelancer,
				update_incharge, milestone_details, files_links,
				created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.ID,
			p.ClientName,
			p.Status,
			p.Priority,
			p.ProjectType,
			p.Description,
			p.ClientType,
			nullTime(p.StartDate),
			nullTime(p.EndDate),
			p.EstHoursRequired,
			boolToInt(p.Assigned),
			nullString(p.LeadAssignee),
			nullString(p.ClientID),
			p.CreatedBy,
			p.UpdatedBy,
			tags,
			boolToInt(p.StockMarketFlag),
			p.TelegramGroupLink,
			p.WhatsappLink,
			nullString(p.VAIncharge),
			nullString(p.Freelancer),
			nullString(p.UpdateIncharge),
			p.MilestoneDetails,
			files,
			p.CreatedAt,
			p.UpdatedAt,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrForeignKeyViolation
			}
			return fmt.Errorf("failed to create project: %w", err)
		}
		if err := r.writeAssignees(ctx, p.ID, p.Assignees); err != nil {
			return err
		}
		return r.writeMilestones(ctx, p.ID, p.Milestones)
	})
}

// Get retrieves a populated project by ID
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	row := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT `+projectColumns+projectFrom+` WHERE p.id = ?`, id)

	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	projects := []project.Project{*p}
	if err := r.populate(ctx, projects); err != nil {
		return nil, err
	}
	return &projects[0], nil
}

// Update writes every caller-owned field and replaces the assignee roster
// and milestones. total_hours_spent is left alone.
func (r *ProjectRepository) Update(ctx context.Context, p *project.Project) error {
	tags, files, err := encodeProjectLists(p)
	if err != nil {
		return err
	}

	return r.db.InTx(ctx, func(ctx context.Context) error {
		result, err := r.db.conn(ctx).ExecContext(ctx, `
			UPDATE projects
			SET client_name = ?, status = ?, priority = ?, project_type = ?,
			    description = ?, client_type = ?, start_date = ?, end_date = ?,
			    est_hours_required = ?, assigned = ?, lead_assignee = ?,
			    client_id = ?, updated_by = ?, tags = ?, stock_market_flag = ?,
			    telegram_group_link = ?, whatsapp_link = ?, va_incharge = ?,
			    freelancer = ?, update_incharge = ?, milestone_details = ?,
			    files_links = ?, updated_at = ?
			WHERE id = ?`,
			p.ClientName,
			p.Status,
			p.Priority,
			p.ProjectType,
			p.Description,
			p.ClientType,
			nullTime(p.StartDate),
			nullTime(p.EndDate),
			p.EstHoursRequired,
			boolToInt(p.Assigned),
			nullString(p.LeadAssignee),
			nullString(p.ClientID),
			p.UpdatedBy,
			tags,
			boolToInt(p.StockMarketFlag),
			p.TelegramGroupLink,
			p.WhatsappLink,
			nullString(p.VAIncharge),
			nullString(p.Freelancer),
			nullString(p.UpdateIncharge),
			p.MilestoneDetails,
			files,
			p.UpdatedAt,
			p.ID,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrForeignKeyViolation
			}
			return fmt.Errorf("failed to update project: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return repository.ErrNotFound
		}

		if err := r.writeAssignees(ctx, p.ID, p.Assignees); err != nil {
			return err
		}
		return r.writeMilestones(ctx, p.ID, p.Milestones)
	})
}

// List returns populated projects matching f, newest first
func (r *ProjectRepository) List(ctx context.Context, f project.Filter) ([]project.Project, error) {
	if f.None {
		return []project.Project{}, nil
	}

	where, args := projectWhere(f)
	rows, err := r.db.conn(ctx).QueryContext(ctx,
		`SELECT `+projectColumns+projectFrom+where+` ORDER BY p.created_at DESC, p.rowid DESC`,
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}
	rows.Close()

	if err := r.populate(ctx, projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// RecomputeTotalHours sets total_hours_spent to the sum of the project's
// daily updates in one statement
func (r *ProjectRepository) RecomputeTotalHours(ctx context.Context, id string) (float64, error) {
	q := r.db.conn(ctx)
	result, err := q.ExecContext(ctx, `
		UPDATE projects
		SET total_hours_spent = (
			SELECT COALESCE(SUM(d.hours_logged), 0)
			FROM daily_updates d
			WHERE d.project_id = projects.id
		)
		WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to recompute hours: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return 0, repository.ErrNotFound
	}

	var total float64
	if err := q.QueryRowContext(ctx,
		`SELECT total_hours_spent FROM projects WHERE id = ?`, id,
	).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to read total hours: %w", err)
	}
	return total, nil
}

// RecomputeAllTotalHours recomputes every project's total and returns the
// number of projects updated
func (r *ProjectRepository) RecomputeAllTotalHours(ctx context.Context) (int, error) {
	result, err := r.db.conn(ctx).ExecContext(ctx, `
		UPDATE projects
		SET total_hours_spent = (
			SELECT COALESCE(SUM(d.hours_logged), 0)
			FROM daily_updates d
			WHERE d.project_id = projects.id
		)`)
	if err != nil {
		return 0, fmt.Errorf("failed to recompute hours: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rowsAffected), nil
}

// ClientLinks lists every project that references a client, oldest first
func (r *ProjectRepository) ClientLinks(ctx context.Context) ([]project.ClientLink, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx, `
		SELECT id, client_id FROM projects
		WHERE client_id IS NOT NULL
		ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to list client links: %w", err)
	}
	defer rows.Close()

	var links []project.ClientLink
	for rows.Next() {
		var l project.ClientLink
		if err := rows.Scan(&l.ProjectID, &l.ClientID); err != nil {
			return nil, fmt.Errorf("failed to scan client link: %w", err)
		}
		links = append(links, l)
	}
	return links, rows.Err()
}

func (r *ProjectRepository) writeAssignees(ctx context.Context, projectID string, assignees []string) error {
	q := r.db.conn(ctx)
	if _, err := q.ExecContext(ctx,
		`DELETE FROM project_assignees WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("failed to clear assignees: %w", err)
	}
	for i, employeeID := range assignees {
		_, err := q.ExecContext(ctx,
			`INSERT INTO project_assignees (project_id, employee_id, position) VALUES (?, ?, ?)`,
			projectID, employeeID, i)
		if err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrForeignKeyViolation
			}
			return fmt.Errorf("failed to add assignee: %w", err)
		}
	}
	return nil
}

func (r *ProjectRepository) writeMilestones(ctx context.Context, projectID string, milestones []project.Milestone) error {
	q := r.db.conn(ctx)
	if _, err := q.ExecContext(ctx,
		`DELETE FROM project_milestones WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("failed to clear milestones: %w", err)
	}
	for i, m := range milestones {
		_, err := q.ExecContext(ctx, `
			INSERT INTO project_milestones (id, project_id, position, name, due_date, owner_id, status, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			m.ID, projectID, i, m.Name, nullTime(m.DueDate), nullString(m.Owner), m.Status, m.Notes)
		if err != nil {
			if isForeignKeyViolation(err) {
				return repository.ErrForeignKeyViolation
			}
			return fmt.Errorf("failed to add milestone: %w", err)
		}
	}
	return nil
}

func (r *ProjectRepository) populate(ctx context.Context, projects []project.Project) error {
	if err := r.populateTeams(ctx, projects); err != nil {
		return err
	}
	return r.populateMilestones(ctx, projects)
}

// populateMilestones fills Milestones for every project in stored order.
func (r *ProjectRepository) populateMilestones(ctx context.Context, projects []project.Project) error {
	if len(projects) == 0 {
		return nil
	}

	index := make(map[string]int, len(projects))
	args := make([]any, len(projects))
	for i := range projects {
		index[projects[i].ID] = i
		args[i] = projects[i].ID
		projects[i].Milestones = []project.Milestone{}
	}

	rows, err := r.db.conn(ctx).QueryContext(ctx, `
		SELECT project_id, id, name, due_date, owner_id, status, notes
		FROM project_milestones
		WHERE project_id IN (`+placeholders(len(args))+`)
		ORDER BY project_id, position`, args...)
	if err != nil {
		return fmt.Errorf("failed to load milestones: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID string
		var m project.Milestone
		var due sql.NullTime
		var owner sql.NullString
		if err := rows.Scan(&projectID, &m.ID, &m.Name, &due, &owner, &m.Status, &m.Notes); err != nil {
			return fmt.Errorf("failed to scan milestone: %w", err)
		}
		m.DueDate = timePtr(due)
		m.Owner = owner.String
		p := &projects[index[projectID]]
		p.Milestones = append(p.Milestones, m)
	}
	return rows.Err()
}

// populateTeams fills Assignees and Team for every project in roster order.
func (r *ProjectRepository) populateTeams(ctx context.Context, projects []project.Project) error {
	if len(projects) == 0 {
		return nil
	}

	index := make(map[string]int, len(projects))
	args := make([]any, len(projects))
	for i := range projects {
		index[projects[i].ID] = i
		args[i] = projects[i].ID
		projects[i].Assignees = []string{}
		projects[i].Team = []project.Member{}
	}

	rows, err := r.db.conn(ctx).QueryContext(ctx, `
		SELECT pa.project_id, e.id, e.name, e.status
		FROM project_assignees pa
		JOIN employees e ON e.id = pa.employee_id
		WHERE pa.project_id IN (`+placeholders(len(args))+`)
		ORDER BY pa.project_id, pa.position`, args...)
	if err != nil {
		return fmt.Errorf("failed to load assignees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID string
		var m project.Member
		var status string
		if err := rows.Scan(&projectID, &m.ID, &m.Name, &status); err != nil {
			return fmt.Errorf("failed to scan assignee: %w", err)
		}
		m.Status = employee.Status(status)
		p := &projects[index[projectID]]
		p.Assignees = append(p.Assignees, m.ID)
		p.Team = append(p.Team, m)
	}
	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var p project.Project
	var startDate, endDate sql.NullTime
	var lead, clientID, vaIncharge, freelancer, updateIncharge sql.NullString
	var tags, files string

	err := row.Scan(
		&p.ID,
		&p.ClientName,
		&p.Status,
		&p.Priority,
		&p.ProjectType,
		&p.Description,
		&p.ClientType,
		&startDate,
		&endDate,
		&p.EstHoursRequired,
		&p.TotalHoursSpent,
		&p.Assigned,
		&lead,
		&clientID,
		&p.CreatedBy,
		&p.UpdatedBy,
		&tags,
		&p.StockMarketFlag,
		&p.TelegramGroupLink,
		&p.WhatsappLink,
		&vaIncharge,
		&freelancer,
		&updateIncharge,
		&p.MilestoneDetails,
		&files,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.ClientOrganization,
	)
	if err != nil {
		return nil, err
	}

	p.StartDate = timePtr(startDate)
	p.EndDate = timePtr(endDate)
	p.LeadAssignee = lead.String
	p.ClientID = clientID.String
	p.VAIncharge = vaIncharge.String
	p.Freelancer = freelancer.String
	p.UpdateIncharge = updateIncharge.String
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	if err := json.Unmarshal([]byte(tags), &p.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags: %w", err)
	}
	p.Tags = nonNil(p.Tags)
	if err := json.Unmarshal([]byte(files), &p.FilesLinks); err != nil {
		return nil, fmt.Errorf("failed to decode files links: %w", err)
	}
	if p.FilesLinks == nil {
		p.FilesLinks = []project.FileLink{}
	}
	return &p, nil
}

func encodeProjectLists(p *project.Project) (tags, files string, err error) {
	b, err := json.Marshal(nonNil(p.Tags))
	if err != nil {
		return "", "", fmt.Errorf("failed to encode tags: %w", err)
	}
	tags = string(b)
	links := p.FilesLinks
	if links == nil {
		links = []project.FileLink{}
	}
	if b, err = json.Marshal(links); err != nil {
		return "", "", fmt.Errorf("failed to encode files links: %w", err)
	}
	return tags, string(b), nil
}

// projectWhere translates f into a WHERE clause over alias p. It must agree
// with project.Filter.Matches.
func projectWhere(f project.Filter) (string, []any) {
	var conds []string
	var args []any

	if f.Status != "" {
		conds = append(conds, "p.status = ?")
		args = append(args, f.Status)
	}
	if f.Priority != "" {
		conds = append(conds, "p.priority = ?")
		args = append(args, f.Priority)
	}
	if f.ClientType != "" {
		conds = append(conds, "p.client_type = ?")
		args = append(args, f.ClientType)
	}
	if f.Assigned != nil {
		conds = append(conds, "p.assigned = ?")
		args = append(args, boolToInt(*f.Assigned))
	}
	if f.StockMarketFlag != nil {
		conds = append(conds, "p.stock_market_flag = ?")
		args = append(args, boolToInt(*f.StockMarketFlag))
	}
	if f.ClientID != "" {
		conds = append(conds, "p.client_id = ?")
		args = append(args, f.ClientID)
	}
	if f.CreatedBy != "" {
		conds = append(conds, "p.created_by = ?")
		args = append(args, f.CreatedBy)
	}
	if f.AssigneeID != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM project_assignees pa
			WHERE pa.project_id = p.id AND pa.employee_id = ?)`)
		args = append(args, f.AssigneeID)
	}
	if f.Search != "" {
		pattern := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		conds = append(conds, `(
			unicode_lower(p.client_name) LIKE ? ESCAPE '\' OR
			unicode_lower(p.description) LIKE ? ESCAPE '\' OR
			unicode_lower(p.project_type) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
