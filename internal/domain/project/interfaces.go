package project

import (
	"context"

	"github.com/rpggio/teamportal/internal/domain/client"
	"github.com/rpggio/teamportal/internal/domain/dailyupdate"
)

// Repository provides persistence for projects and their assignee rosters.
// Get and List return populated projects; List orders newest first.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	Get(ctx context.Context, id string) (*Project, error)
	Update(ctx context.Context, p *Project) error
	List(ctx context.Context, f Filter) ([]Project, error)
	// RecomputeTotalHours sets total_hours_spent from the sum of the
	// project's daily updates and returns the new total.
	RecomputeTotalHours(ctx context.Context, id string) (float64, error)
	RecomputeAllTotalHours(ctx context.Context) (int, error)
	ClientLinks(ctx context.Context) ([]ClientLink, error)
}

// ClientStore is the part of the client repository the linkage manager needs.
type ClientStore interface {
	Get(ctx context.Context, id string) (*client.Client, error)
	List(ctx context.Context) ([]client.Client, error)
	AddProject(ctx context.Context, clientID, projectID string) error
	RemoveProject(ctx context.Context, clientID, projectID string) error
}

// EmployeeLookup confirms employees exist.
type EmployeeLookup interface {
	Missing(ctx context.Context, ids []string) ([]string, error)
}

// UpdateStore persists daily updates.
type UpdateStore = dailyupdate.Repository

// TxRunner runs fn inside a single storage transaction.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}
