package checklist

import (
	"context"
	"time"
)

// Repository persists checklist statuses keyed by employee and day.
type Repository interface {
	Upsert(ctx context.Context, employeeID string, day time.Time, items map[string]bool) (*Status, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Status, error)
}

// EmployeeLookup confirms an employee exists.
type EmployeeLookup interface {
	Missing(ctx context.Context, ids []string) ([]string, error)
}
