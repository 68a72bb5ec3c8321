package dailyupdate

import "time"

// Visibility controls who a daily update is intended for.
type Visibility string

const (
	VisibilityAdmin    Visibility = "Admin"
	VisibilityClient   Visibility = "Client"
	VisibilityInternal Visibility = "Internal"
)

// DailyUpdate is one employee's work log entry against a project.
type DailyUpdate struct {
	ID                string       `json:"id"`
	ProjectID         string       `json:"project"`
	EmployeeID        string       `json:"employee"`
	Date              time.Time    `json:"date"`
	Summary           string       `json:"summary"`
	NextPlan          string       `json:"nextPlan"`
	Blockers          string       `json:"blockers,omitempty"`
	HoursLogged       float64      `json:"hoursLogged"`
	Visibility        Visibility   `json:"visibility"`
	Attachments       []Attachment `json:"attachments"`
	CreatedBy         string       `json:"createdBy"`
	CreatedAt         time.Time    `json:"createdAt"`
	EmployeeName      string       `json:"employeeName,omitempty"`
	EmployeeRoleTitle string       `json:"employeeRoleTitle,omitempty"`
	ProjectClientName string       `json:"projectClientName,omitempty"`
}

// Attachment is a file or link referenced by an update. Files are stored
// elsewhere; StorageKey names the stored object.
type Attachment struct {
	Name       string `json:"name,omitempty"`
	URL        string `json:"url" validate:"required,url"`
	StorageKey string `json:"storageKey,omitempty"`
	Type       string `json:"type,omitempty"`
}

// Valid reports whether v is a known visibility.
func (v Visibility) Valid() bool {
	return v == VisibilityAdmin || v == VisibilityClient || v == VisibilityInternal
}
