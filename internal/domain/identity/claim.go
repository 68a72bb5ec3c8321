package identity

import "context"

// Role is the portal a user belongs to.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleEmployee  Role = "employee"
	RoleClient    Role = "client"
	RoleApplicant Role = "applicant"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEmployee, RoleClient, RoleApplicant:
		return true
	}
	return false
}

// Claim is the verified caller identity attached to every request.
type Claim struct {
	Subject     string `json:"sub"`
	Role        Role   `json:"role"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	EmployeeRef string `json:"employeeRef,omitempty"`
	ClientRef   string `json:"clientRef,omitempty"`
}

// IsAdmin reports whether the caller has the admin role.
func (c Claim) IsAdmin() bool { return c.Role == RoleAdmin }

// IsClient reports whether the caller has the client role.
func (c Claim) IsClient() bool { return c.Role == RoleClient }

// IsStaff reports whether the caller is an employee or applicant.
func (c Claim) IsStaff() bool { return c.Role == RoleEmployee || c.Role == RoleApplicant }

type claimKey struct{}

// WithClaim stores the claim in ctx.
func WithClaim(ctx context.Context, claim Claim) context.Context {
	return context.WithValue(ctx, claimKey{}, claim)
}

// FromContext returns the claim from ctx, if present.
func FromContext(ctx context.Context) (Claim, bool) {
	claim, ok := ctx.Value(claimKey{}).(Claim)
	return claim, ok
}
