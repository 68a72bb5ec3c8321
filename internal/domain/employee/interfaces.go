package employee

import "context"

// Repository provides persistence for employees.
type Repository interface {
	Create(ctx context.Context, e *Employee) error
	Get(ctx context.Context, id string) (*Employee, error)
	List(ctx context.Context) ([]Employee, error)
	// Missing returns the subset of ids with no employee record, in input order.
	Missing(ctx context.Context, ids []string) ([]string, error)
	UpdateProfile(ctx context.Context, e *Employee) error
}
