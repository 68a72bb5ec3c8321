package training

import "context"

// Repository persists training updates. List orders newest first.
type Repository interface {
	Create(ctx context.Context, u *Update) error
	List(ctx context.Context, opts ListOptions) ([]Update, error)
}
