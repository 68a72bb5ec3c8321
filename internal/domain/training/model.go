package training

import "time"

// DefaultStatus is assigned when an entry doesn't say otherwise.
const DefaultStatus = "In Progress"

// Update is an employee's log entry for a training course.
type Update struct {
	ID           string       `json:"id"`
	EmployeeID   string       `json:"employee"`
	Course       string       `json:"course"`
	Date         time.Time    `json:"date"`
	TasksDone    string       `json:"tasksDone"`
	Notes        string       `json:"notes,omitempty"`
	Attachments  []Attachment `json:"attachments"`
	Mentor       string       `json:"mentor,omitempty"`
	Status       string       `json:"status"`
	CreatedBy    string       `json:"createdBy"`
	CreatedAt    time.Time    `json:"createdAt"`
	EmployeeName string       `json:"employeeName,omitempty"`
}

// Attachment is a file or link referenced by a training entry.
type Attachment struct {
	Name       string `json:"name,omitempty"`
	URL        string `json:"url" validate:"required,url"`
	StorageKey string `json:"storageKey,omitempty"`
}

// ListOptions narrows a listing. Empty fields match everything.
type ListOptions struct {
	EmployeeID string
}
