package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rpggio/teamportal/internal/domain/dailyupdate"
	"github.com/rpggio/teamportal/internal/repository"
)

// DailyUpdateRepository implements dailyupdate.Repository for SQLite
type DailyUpdateRepository struct {
	db *DB
}

var _ dailyupdate.Repository = (*DailyUpdateRepository)(nil)

// NewDailyUpdateRepository creates a new DailyUpdateRepository
func NewDailyUpdateRepository(db *DB) *DailyUpdateRepository {
	return &DailyUpdateRepository{db: db}
}

// Create inserts a daily update
func (r *DailyUpdateRepository) Create(ctx context.Context, u *dailyupdate.DailyUpdate) error {
	attachments := u.Attachments
	if attachments == nil {
		attachments = []dailyupdate.Attachment{}
	}
	encoded, err := json.Marshal(attachments)
	if err != nil {
		return fmt.Errorf("failed to encode attachments: %w", err)
	}

	_, err = r.db.conn(ctx).ExecContext(ctx, `
		INSERT INTO daily_updates (
			id, project_id, employee_id, date, summary, next_plan, blockers,
			hours_logged, visibility, attachments, created_by, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.ProjectID,
		u.EmployeeID,
		u.Date,
		u.Summary,
		u.NextPlan,
		u.Blockers,
		u.HoursLogged,
		u.Visibility,
		string(encoded),
		u.CreatedBy,
		u.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create daily update: %w", err)
	}
	return nil
}

// List returns updates matching opts, newest first
func (r *DailyUpdateRepository) List(ctx context.Context, opts dailyupdate.ListOptions) ([]dailyupdate.DailyUpdate, error) {
	if opts.None {
		return []dailyupdate.DailyUpdate{}, nil
	}

	var conds []string
	var args []any
	if opts.ProjectID != "" {
		conds = append(conds, "d.project_id = ?")
		args = append(args, opts.ProjectID)
	}
	if opts.EmployeeID != "" {
		conds = append(conds, "d.employee_id = ?")
		args = append(args, opts.EmployeeID)
	}
	if opts.ProjectClientID != "" {
		conds = append(conds, "p.client_id = ?")
		args = append(args, opts.ProjectClientID)
	}
	if opts.ProjectCreatedBy != "" {
		conds = append(conds, "p.created_by = ?")
		args = append(args, opts.ProjectCreatedBy)
	}
	if opts.ProjectAssigneeID != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM project_assignees pa
			WHERE pa.project_id = p.id AND pa.employee_id = ?)`)
		args = append(args, opts.ProjectAssigneeID)
	}

	query := `
		SELECT d.id, d.project_id, d.employee_id, d.date, d.summary, d.next_plan,
		       d.blockers, d.hours_logged, d.visibility, d.attachments, d.created_by, d.created_at,
		       e.name, e.role_title, p.client_name
		FROM daily_updates d
		JOIN projects p ON p.id = d.project_id
		JOIN employees e ON e.id = d.employee_id`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY d.date DESC, d.created_at DESC, d.rowid DESC"

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily updates: %w", err)
	}
	defer rows.Close()

	updates := []dailyupdate.DailyUpdate{}
	for rows.Next() {
		var u dailyupdate.DailyUpdate
		var attachments string
		if err := rows.Scan(
			&u.ID,
			&u.ProjectID,
			&u.EmployeeID,
			&u.Date,
			&u.Summary,
			&u.NextPlan,
			&u.Blockers,
			&u.HoursLogged,
			&u.Visibility,
			&attachments,
			&u.CreatedBy,
			&u.CreatedAt,
			&u.EmployeeName,
			&u.EmployeeRoleTitle,
			&u.ProjectClientName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan daily update: %w", err)
		}
		if err := json.Unmarshal([]byte(attachments), &u.Attachments); err != nil {
			return nil, fmt.Errorf("failed to decode attachments: %w", err)
		}
		if u.Attachments == nil {
			u.Attachments = []dailyupdate.Attachment{}
		}
		u.Date = u.Date.UTC()
		u.CreatedAt = u.CreatedAt.UTC()
		updates = append(updates, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily updates: %w", err)
	}
	return updates, nil
}
