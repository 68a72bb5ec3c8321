package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/teamportal/internal/domain/client"
	"github.com/rpggio/teamportal/internal/repository"
)

// ClientRepository implements client.Repository for SQLite
type ClientRepository struct {
	db *DB
}

var _ client.Repository = (*ClientRepository)(nil)

// NewClientRepository creates a new ClientRepository
func NewClientRepository(db *DB) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `id, organization, primary_contact, email, phone, address,
	timezone, notes, created_at, updated_at`

// Create inserts a client
func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	_, err := r.db.conn(ctx).ExecContext(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID,
		c.Organization,
		c.PrimaryContact,
		c.Email,
		c.Phone,
		c.Address,
		c.Timezone,
		c.Notes,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

// Get retrieves a client and its project roster
func (r *ClientRepository) Get(ctx context.Context, id string) (*client.Client, error) {
	row := r.db.conn(ctx).QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	c, err := scanClient(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	rosters, err := r.rosters(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Projects = nonNil(rosters[id])

	comments, err := r.comments(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Comments = nonNilComments(comments[id])
	return c, nil
}

// List returns every client with its roster, ordered by organization
func (r *ClientRepository) List(ctx context.Context) ([]client.Client, error) {
	rows, err := r.db.conn(ctx).QueryContext(ctx,
		`SELECT `+clientColumns+` FROM clients ORDER BY organization, created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []client.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating clients: %w", err)
	}
	rows.Close()

	rosters, err := r.rosters(ctx, "")
	if err != nil {
		return nil, err
	}
	comments, err := r.comments(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range clients {
		clients[i].Projects = nonNil(rosters[clients[i].ID])
		clients[i].Comments = nonNilComments(comments[clients[i].ID])
	}
	return clients, nil
}

// AddProject appends projectID to the client's roster. Adding a project that
// is already there is a no-op.
func (r *ClientRepository) AddProject(ctx context.Context, clientID, projectID string) error {
	_, err := r.db.conn(ctx).ExecContext(ctx, `
		INSERT OR IGNORE INTO client_projects (client_id, project_id, position)
		SELECT ?, ?, COALESCE(MAX(position), -1) + 1
		FROM client_projects
		WHERE client_id = ?`,
		clientID, projectID, clientID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to add project to client: %w", err)
	}
	return nil
}

// RemoveProject drops projectID from the client's roster if present
func (r *ClientRepository) RemoveProject(ctx context.Context, clientID, projectID string) error {
	_, err := r.db.conn(ctx).ExecContext(ctx,
		`DELETE FROM client_projects WHERE client_id = ? AND project_id = ?`,
		clientID, projectID)
	if err != nil {
		return fmt.Errorf("failed to remove project from client: %w", err)
	}
	return nil
}

// AddComment appends a comment to the client's thread
func (r *ClientRepository) AddComment(ctx context.Context, clientID string, c *client.Comment) error {
	_, err := r.db.conn(ctx).ExecContext(ctx, `
		INSERT INTO client_comments (id, client_id, message, created_by, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		c.ID, clientID, c.Message, c.CreatedBy, c.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to add client comment: %w", err)
	}
	return nil
}

// comments loads comment threads keyed by client, for one client or all.
func (r *ClientRepository) comments(ctx context.Context, clientID string) (map[string][]client.Comment, error) {
	query := `SELECT client_id, id, message, created_by, created_at FROM client_comments`
	var args []any
	if clientID != "" {
		query += ` WHERE client_id = ?`
		args = append(args, clientID)
	}
	query += ` ORDER BY client_id, created_at, rowid`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load client comments: %w", err)
	}
	defer rows.Close()

	threads := make(map[string][]client.Comment)
	for rows.Next() {
		var cid string
		var c client.Comment
		if err := rows.Scan(&cid, &c.ID, &c.Message, &c.CreatedBy, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan client comment: %w", err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		threads[cid] = append(threads[cid], c)
	}
	return threads, rows.Err()
}

func nonNilComments(c []client.Comment) []client.Comment {
	if c == nil {
		return []client.Comment{}
	}
	return c
}

// rosters loads project rosters keyed by client, for one client or all.
func (r *ClientRepository) rosters(ctx context.Context, clientID string) (map[string][]string, error) {
	query := `SELECT client_id, project_id FROM client_projects`
	var args []any
	if clientID != "" {
		query += ` WHERE client_id = ?`
		args = append(args, clientID)
	}
	query += ` ORDER BY client_id, position`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load client rosters: %w", err)
	}
	defer rows.Close()

	rosters := make(map[string][]string)
	for rows.Next() {
		var cid, pid string
		if err := rows.Scan(&cid, &pid); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		rosters[cid] = append(rosters[cid], pid)
	}
	return rosters, rows.Err()
}

func scanClient(row rowScanner) (*client.Client, error) {
	var c client.Client
	err := row.Scan(
		&c.ID,
		&c.Organization,
		&c.PrimaryContact,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.Timezone,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}
