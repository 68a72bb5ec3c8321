package dailyupdate

// ListOptions filters daily updates. The Project* fields carry the caller's
// ownership predicate and are applied against the parent project.
type ListOptions struct {
	ProjectID         string
	EmployeeID        string
	ProjectClientID   string
	ProjectCreatedBy  string
	ProjectAssigneeID string

	// None short-circuits to an empty result.
	None bool
}
