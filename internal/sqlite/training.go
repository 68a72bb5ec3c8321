package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/teamportal/internal/domain/training"
	"github.com/rpggio/teamportal/internal/repository"
)

// TrainingRepository implements training.Repository for SQLite
type TrainingRepository struct {
	db *DB
}

var _ training.Repository = (*TrainingRepository)(nil)

// NewTrainingRepository creates a new TrainingRepository
func NewTrainingRepository(db *DB) *TrainingRepository {
	return &TrainingRepository{db: db}
}

// Create inserts a training update
func (r *TrainingRepository) Create(ctx context.Context, u *training.Update) error {
	attachments := u.Attachments
	if attachments == nil {
		attachments = []training.Attachment{}
	}
	encoded, err := json.Marshal(attachments)
	if err != nil {
		return fmt.Errorf("failed to encode attachments: %w", err)
	}

	_, err = r.db.conn(ctx).ExecContext(ctx, `
		INSERT INTO training_updates (
			id, employee_id, course, date, tasks_done, notes, attachments,
			mentor, status, created_by, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.EmployeeID,
		u.Course,
		u.Date,
		u.TasksDone,
		u.Notes,
		string(encoded),
		u.Mentor,
		u.Status,
		u.CreatedBy,
		u.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create training update: %w", err)
	}
	return nil
}

// List returns training updates with the employee's name, newest first
func (r *TrainingRepository) List(ctx context.Context, opts training.ListOptions) ([]training.Update, error) {
	query := `
		SELECT t.id, t.employee_id, t.course, t.date, t.tasks_done, t.notes,
		       t.attachments, t.mentor, t.status, t.created_by, t.created_at, e.name
		FROM training_updates t
		JOIN employees e ON e.id = t.employee_id`
	var args []any
	if opts.EmployeeID != "" {
		query += ` WHERE t.employee_id = ?`
		args = append(args, opts.EmployeeID)
	}
	query += ` ORDER BY t.date DESC, t.created_at DESC, t.rowid DESC`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list training updates: %w", err)
	}
	defer rows.Close()

	updates := []training.Update{}
	for rows.Next() {
		var u training.Update
		var attachments string
		if err := rows.Scan(
			&u.ID,
			&u.EmployeeID,
			&u.Course,
			&u.Date,
			&u.TasksDone,
			&u.Notes,
			&attachments,
			&u.Mentor,
			&u.Status,
			&u.CreatedBy,
			&u.CreatedAt,
			&u.EmployeeName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan training update: %w", err)
		}
		if err := json.Unmarshal([]byte(attachments), &u.Attachments); err != nil {
			return nil, fmt.Errorf("failed to decode attachments: %w", err)
		}
		if u.Attachments == nil {
			u.Attachments = []training.Attachment{}
		}
		u.Date = u.Date.UTC()
		u.CreatedAt = u.CreatedAt.UTC()
		updates = append(updates, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating training updates: %w", err)
	}
	return updates, nil
}
