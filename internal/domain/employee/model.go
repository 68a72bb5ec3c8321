package employee

import "time"

// Status is the employment state of an employee.
type Status string

const (
	StatusActive   Status = "Active"
	StatusInactive Status = "Inactive"
)

// Employee is a staff member who can be assigned to projects.
// ActiveProjects is derived from project assignee rosters at read time.
type Employee struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId,omitempty"`
	Name           string    `json:"name"`
	Status         Status    `json:"status"`
	RoleTitle      string    `json:"roleTitle,omitempty"`
	Contact        string    `json:"contact,omitempty"`
	Skills         []string  `json:"skills"`
	Availability   string    `json:"availability,omitempty"`
	Location       string    `json:"location,omitempty"`
	TelegramHandle string    `json:"telegramHandle,omitempty"`
	WhatsappNumber string    `json:"whatsappNumber,omitempty"`
	ActiveProjects []string  `json:"activeProjects"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
