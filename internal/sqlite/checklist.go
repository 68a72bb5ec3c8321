package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rpggio/teamportal/internal/domain/checklist"
	"github.com/rpggio/teamportal/internal/repository"
)

// ChecklistRepository implements checklist.Repository for SQLite
type ChecklistRepository struct {
	db *DB
}

var _ checklist.Repository = (*ChecklistRepository)(nil)

// NewChecklistRepository creates a new ChecklistRepository
func NewChecklistRepository(db *DB) *ChecklistRepository {
	return &ChecklistRepository{db: db}
}

// Upsert writes the checklist for (employeeID, day), replacing any earlier
// checklist for that day
func (r *ChecklistRepository) Upsert(ctx context.Context, employeeID string, day time.Time, items map[string]bool) (*checklist.Status, error) {
	body, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode checklist: %w", err)
	}

	date := day.UTC().Format(time.DateOnly)
	now := time.Now().UTC()
	q := r.db.conn(ctx)

	_, err = q.ExecContext(ctx, `
		INSERT INTO checklist_statuses (employee_id, date, checklist, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(employee_id, date) DO UPDATE
		SET checklist = excluded.checklist, updated_at = excluded.updated_at`,
		employeeID, date, string(body), now, now)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, repository.ErrForeignKeyViolation
		}
		return nil, fmt.Errorf("failed to save checklist: %w", err)
	}

	row := q.QueryRowContext(ctx, `
		SELECT employee_id, date, checklist, created_at, updated_at
		FROM checklist_statuses
		WHERE employee_id = ? AND date = ?`, employeeID, date)
	st, err := scanChecklist(row)
	if err != nil {
		return nil, fmt.Errorf("failed to read checklist: %w", err)
	}
	return st, nil
}

// ListByEmployee returns an employee's checklists, newest day first
func (r *ChecklistRepository) ListByEmployee(ctx context.Context, employeeID string) ([]checklist.Status, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx, `
		SELECT employee_id, date, checklist, created_at, updated_at
		FROM checklist_statuses
		WHERE employee_id = ?
		ORDER BY date DESC`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list checklists: %w", err)
	}
	defer rows.Close()

	statuses := []checklist.Status{}
	for rows.Next() {
		st, err := scanChecklist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checklist: %w", err)
		}
		statuses = append(statuses, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating checklists: %w", err)
	}
	return statuses, nil
}

func scanChecklist(row rowScanner) (*checklist.Status, error) {
	var st checklist.Status
	var date, body string
	if err := row.Scan(&st.EmployeeID, &date, &body, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return nil, err
	}
	day, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse checklist date: %w", err)
	}
	st.Date = day
	if err := json.Unmarshal([]byte(body), &st.Checklist); err != nil {
		return nil, fmt.Errorf("failed to decode checklist: %w", err)
	}
	if st.Checklist == nil {
		st.Checklist = map[string]bool{}
	}
	st.CreatedAt = st.CreatedAt.UTC()
	st.UpdatedAt = st.UpdatedAt.UTC()
	return &st, nil
}
