package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rpggio/teamportal/internal/domain/employee"
	"github.com/rpggio/teamportal/internal/repository"
)

// EmployeeRepository implements employee.Repository for SQLite
type EmployeeRepository struct {
	db *DB
}

var _ employee.Repository = (*EmployeeRepository)(nil)

// NewEmployeeRepository creates a new EmployeeRepository
func NewEmployeeRepository(db *DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `id, user_id, name, status, role_title, contact, skills,
	availability, location, telegram_handle, whatsapp_number, created_at, updated_at`

// Create inserts an employee
func (r *EmployeeRepository) Create(ctx context.Context, e *employee.Employee) error {
	skills, err := json.Marshal(nonNil(e.Skills))
	if err != nil {
		return fmt.Errorf("failed to encode skills: %w", err)
	}

	_, err = r.db.conn(ctx).ExecContext(ctx, `
		INSERT INTO employees (`+employeeColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.UserID,
		e.Name,
		e.Status,
		e.RoleTitle,
		e.Contact,
		string(skills),
		e.Availability,
		e.Location,
		e.TelegramHandle,
		e.WhatsappNumber,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// Get retrieves an employee with their active projects
func (r *EmployeeRepository) Get(ctx context.Context, id string) (*employee.Employee, error) {
	row := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = ?`, id)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	active, err := r.activeProjects(ctx, id)
	if err != nil {
		return nil, err
	}
	e.ActiveProjects = nonNil(active[id])
	return e, nil
}

// List returns every employee ordered by name
func (r *EmployeeRepository) List(ctx context.Context) ([]employee.Employee, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx,
		`SELECT `+employeeColumns+` FROM employees ORDER BY name, created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := []employee.Employee{}
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employees: %w", err)
	}
	rows.Close()

	active, err := r.activeProjects(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range employees {
		employees[i].ActiveProjects = nonNil(active[employees[i].ID])
	}
	return employees, nil
}

// Missing returns the ids with no employee row, in input order
func (r *EmployeeRepository) Missing(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.db.conn(ctx).QueryContext(ctx,
		`SELECT id FROM employees WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to look up employees: %w", err)
	}
	defer rows.Close()

	found := make(map[string]struct{}, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// UpdateProfile writes the self-editable profile fields
func (r *EmployeeRepository) UpdateProfile(ctx context.Context, e *employee.Employee) error {
	skills, err := json.Marshal(nonNil(e.Skills))
	if err != nil {
		return fmt.Errorf("failed to encode skills: %w", err)
	}

	result, err := r.db.conn(ctx).ExecContext(ctx, `
		UPDATE employees
		SET name = ?, contact = ?, role_title = ?, skills = ?, availability = ?,
		    location = ?, telegram_handle = ?, whatsapp_number = ?, updated_at = ?
		WHERE id = ?`,
		e.Name,
		e.Contact,
		e.RoleTitle,
		string(skills),
		e.Availability,
		e.Location,
		e.TelegramHandle,
		e.WhatsappNumber,
		e.UpdatedAt,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// activeProjects derives each employee's projects from assignee rosters,
// for one employee or all.
func (r *EmployeeRepository) activeProjects(ctx context.Context, employeeID string) (map[string][]string, error) {
	query := `
		SELECT pa.employee_id, pa.project_id
		FROM project_assignees pa
		JOIN projects p ON p.id = pa.project_id`
	var args []any
	if employeeID != "" {
		query += ` WHERE pa.employee_id = ?`
		args = append(args, employeeID)
	}
	query += ` ORDER BY pa.employee_id, p.created_at, p.rowid`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load active projects: %w", err)
	}
	defer rows.Close()

	active := make(map[string][]string)
	for rows.Next() {
		var eid, pid string
		if err := rows.Scan(&eid, &pid); err != nil {
			return nil, fmt.Errorf("failed to scan active project: %w", err)
		}
		active[eid] = append(active[eid], pid)
	}
	return active, rows.Err()
}

func scanEmployee(row rowScanner) (*employee.Employee, error) {
	var e employee.Employee
	var skills string
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Name,
		&e.Status,
		&e.RoleTitle,
		&e.Contact,
		&skills,
		&e.Availability,
		&e.Location,
		&e.TelegramHandle,
		&e.WhatsappNumber,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(skills), &e.Skills); err != nil {
		return nil, fmt.Errorf("failed to decode skills: %w", err)
	}
	e.Skills = nonNil(e.Skills)
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return &e, nil
}
