package checklist

import "time"

// Status is an employee's checklist for one calendar day.
type Status struct {
	EmployeeID string          `json:"employee"`
	Date       time.Time       `json:"date"`
	Checklist  map[string]bool `json:"checklist"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
