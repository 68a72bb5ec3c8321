package project

import (
	"time"

	"github.com/rpggio/teamportal/internal/domain/employee"
)

// Status is the lifecycle stage of a project.
type Status string

const (
	StatusContactMade Status = "Contact Made"
	StatusActive      Status = "Active"
	StatusStalled     Status = "Stalled"
	StatusCompleted   Status = "Completed"
	StatusCancelled   Status = "Cancelled"
	StatusOnHold      Status = "On Hold"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusContactMade, StatusActive, StatusStalled, StatusCompleted, StatusCancelled, StatusOnHold:
		return true
	}
	return false
}

// Priority ranks projects for scheduling.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p == PriorityHigh || p == PriorityMedium || p == PriorityLow
}

// ClientType distinguishes first-time clients from returning ones.
type ClientType string

const (
	ClientTypeNew      ClientType = "New"
	ClientTypeExisting ClientType = "Existing"
)

// Valid reports whether c is a known client type.
func (c ClientType) Valid() bool {
	return c == ClientTypeNew || c == ClientTypeExisting
}

// Project is a piece of client work tracked by the organization.
//
// Assigned and LeadAssignee are derived from Assignees, and TotalHoursSpent
// is derived from the project's daily updates. Team and ClientOrganization
// are populated on read.
type Project struct {
	ID                string      `json:"id"`
	ClientName        string      `json:"clientName"`
	Status            Status      `json:"status"`
	Priority          Priority    `json:"priority"`
	ProjectType       string      `json:"projectType"`
	Description       string      `json:"projectDescription"`
	ClientType        ClientType  `json:"clientType"`
	StartDate         *time.Time  `json:"startDate,omitempty"`
	EndDate           *time.Time  `json:"endDate,omitempty"`
	EstHoursRequired  float64     `json:"estHoursRequired"`
	TotalHoursSpent   float64     `json:"totalHoursSpent"`
	Assigned          bool        `json:"assigned"`
	Assignees         []string    `json:"assignees"`
	LeadAssignee      string      `json:"leadAssignee,omitempty"`
	ClientID          string      `json:"client,omitempty"`
	CreatedBy         string      `json:"createdBy"`
	UpdatedBy         string      `json:"updatedBy,omitempty"`
	Tags              []string    `json:"tags"`
	StockMarketFlag   bool        `json:"stockMarketFlag"`
	TelegramGroupLink string      `json:"telegramGroupLink,omitempty"`
	WhatsappLink      string      `json:"whatsappLink,omitempty"`
	VAIncharge        string      `json:"vaIncharge,omitempty"`
	Freelancer        string      `json:"freelancer,omitempty"`
	UpdateIncharge    string      `json:"updateIncharge,omitempty"`
	Milestones        []Milestone `json:"milestones"`
	MilestoneDetails  string      `json:"milestoneDetails,omitempty"`
	FilesLinks        []FileLink  `json:"filesLinks"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`

	Team               []Member `json:"team,omitempty"`
	ClientOrganization string   `json:"clientOrganization,omitempty"`
}

// HasAssignee reports whether employeeID is on the roster.
func (p *Project) HasAssignee(employeeID string) bool {
	for _, id := range p.Assignees {
		if id == employeeID {
			return true
		}
	}
	return false
}

// StaffRefs returns the employee ids the project references outside its
// roster, in field order, skipping blanks.
func (p *Project) StaffRefs() []string {
	var ids []string
	for _, id := range []string{p.VAIncharge, p.Freelancer, p.UpdateIncharge} {
		if id != "" {
			ids = append(ids, id)
		}
	}
	for _, m := range p.Milestones {
		if m.Owner != "" {
			ids = append(ids, m.Owner)
		}
	}
	return ids
}

// MilestoneStatus tracks progress on one milestone.
type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "Pending"
	MilestoneInProgress MilestoneStatus = "In Progress"
	MilestoneCompleted  MilestoneStatus = "Completed"
	MilestoneBlocked    MilestoneStatus = "Blocked"
)

// Valid reports whether s is a known milestone status.
func (s MilestoneStatus) Valid() bool {
	switch s {
	case MilestonePending, MilestoneInProgress, MilestoneCompleted, MilestoneBlocked:
		return true
	}
	return false
}

// Milestone is a dated checkpoint, optionally owned by an employee.
type Milestone struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	DueDate *time.Time      `json:"dueDate,omitempty"`
	Owner   string          `json:"owner,omitempty"`
	Status  MilestoneStatus `json:"status"`
	Notes   string          `json:"notes,omitempty"`
}

// FileKind distinguishes stored uploads from plain links.
type FileKind string

const (
	FileKindFile FileKind = "file"
	FileKindLink FileKind = "link"
)

// FileLink is a document attached to a project.
type FileLink struct {
	Label      string   `json:"label,omitempty"`
	URL        string   `json:"url" validate:"required,url"`
	StorageKey string   `json:"storageKey,omitempty"`
	Type       FileKind `json:"type"`
}

// Member is the populated view of one assignee.
type Member struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Status employee.Status `json:"status"`
}

// ClientLink pairs a project with the client it references.
type ClientLink struct {
	ProjectID string
	ClientID  string
}
