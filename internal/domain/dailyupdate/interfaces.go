package dailyupdate

import "context"

// Repository provides persistence for daily updates. List results are
// ordered newest first.
type Repository interface {
	Create(ctx context.Context, u *DailyUpdate) error
	List(ctx context.Context, opts ListOptions) ([]DailyUpdate, error)
}
