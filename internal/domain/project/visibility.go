package project

import (
	"strings"

	"github.com/rpggio/teamportal/internal/domain/identity"
)

// EmployeeScope selects how much of the project list employees and
// applicants may see.
type EmployeeScope string

const (
	// EmployeeScopeAll lets staff see every project and narrow to their own
	// roster with assigned=true.
	EmployeeScopeAll EmployeeScope = "all"
	// EmployeeScopeAssigned always restricts staff to projects they are assigned to.
	EmployeeScopeAssigned EmployeeScope = "assigned"
)

// Valid reports whether s is a known scope.
func (s EmployeeScope) Valid() bool {
	return s == EmployeeScopeAll || s == EmployeeScopeAssigned
}

// Query holds the optional list filters a caller may request.
type Query struct {
	Status          Status
	Priority        Priority
	ClientType      ClientType
	Assigned        *bool
	StockMarketFlag *bool
	Search          string
	ClientID        string
}

// Filter is a resolved project predicate. The repository translates it to
// SQL and Matches evaluates it in memory; both must agree.
type Filter struct {
	Status          Status
	Priority        Priority
	ClientType      ClientType
	Assigned        *bool
	StockMarketFlag *bool
	Search          string
	ClientID        string
	CreatedBy       string
	AssigneeID      string

	// None matches nothing.
	None bool
}

// Matches reports whether p satisfies every constraint of f.
func (f Filter) Matches(p *Project) bool {
	if f.None || p == nil {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.Priority != "" && p.Priority != f.Priority {
		return false
	}
	if f.ClientType != "" && p.ClientType != f.ClientType {
		return false
	}
	if f.Assigned != nil && p.Assigned != *f.Assigned {
		return false
	}
	if f.StockMarketFlag != nil && p.StockMarketFlag != *f.StockMarketFlag {
		return false
	}
	if f.ClientID != "" && p.ClientID != f.ClientID {
		return false
	}
	if f.CreatedBy != "" && p.CreatedBy != f.CreatedBy {
		return false
	}
	if f.AssigneeID != "" && !p.HasAssignee(f.AssigneeID) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.ClientName), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) &&
			!strings.Contains(strings.ToLower(p.ProjectType), needle) {
			return false
		}
	}
	return true
}

// Resolver turns a caller identity into project visibility rules.
type Resolver struct {
	employeeScope EmployeeScope
}

// NewResolver creates a resolver. An unknown scope falls back to EmployeeScopeAll.
func NewResolver(scope EmployeeScope) *Resolver {
	if !scope.Valid() {
		scope = EmployeeScopeAll
	}
	return &Resolver{employeeScope: scope}
}

// ListFilter combines the caller's requested filters with the ownership
// predicate for their role. Ownership always wins over requested values.
func (r *Resolver) ListFilter(claim identity.Claim, q Query) Filter {
	f := Filter{
		Status:          q.Status,
		Priority:        q.Priority,
		ClientType:      q.ClientType,
		Assigned:        q.Assigned,
		StockMarketFlag: q.StockMarketFlag,
		Search:          strings.TrimSpace(q.Search),
		ClientID:        q.ClientID,
	}

	switch {
	case claim.IsAdmin():
	case claim.IsStaff():
		ownOnly := r.employeeScope == EmployeeScopeAssigned || (q.Assigned != nil && *q.Assigned)
		if !ownOnly {
			break
		}
		if claim.EmployeeRef == "" {
			f.None = true
			break
		}
		f.AssigneeID = claim.EmployeeRef
	case claim.IsClient():
		switch {
		case claim.ClientRef != "":
			f.ClientID = claim.ClientRef
		case claim.Subject != "":
			f.CreatedBy = claim.Subject
		default:
			f.None = true
		}
	default:
		f.None = true
	}
	return f
}

// CanView reports whether the caller may see p.
func (r *Resolver) CanView(claim identity.Claim, p *Project) bool {
	if p == nil {
		return false
	}
	switch {
	case claim.IsAdmin():
		return true
	case claim.IsStaff():
		if r.employeeScope != EmployeeScopeAssigned {
			return true
		}
		return claim.EmployeeRef != "" && p.HasAssignee(claim.EmployeeRef)
	case claim.IsClient():
		if claim.ClientRef != "" {
			return p.ClientID == claim.ClientRef
		}
		return claim.Subject != "" && p.CreatedBy == claim.Subject
	}
	return false
}
