// Package authz decides which roles may call which operations. The model
// and policy are embedded; roles are the identity roles plus "staff", which
// employees and applicants inherit from.
package authz

import (
	_ "embed"
	"fmt"
	"log/slog"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	stringadapter "github.com/casbin/casbin/v2/persist/string-adapter"

	"github.com/rpggio/teamportal/internal/apperr"
	"github.com/rpggio/teamportal/internal/domain/identity"
)

//go:embed model.conf
var modelText string

//go:embed policy.csv
var policyText string

// Objects guarded by the policy.
const (
	ObjectProject             = "project"
	ObjectProjectAssignees    = "project.assignees"
	ObjectProjectHours        = "project.hours"
	ObjectProjectUpdates      = "project.updates"
	ObjectDailyUpdate         = "daily_update"
	ObjectClient              = "client"
	ObjectClientProjects      = "client.projects"
	ObjectClientComments      = "client.comments"
	ObjectEmployee            = "employee"
	ObjectEmployeeAssignments = "employee.assignments"
	ObjectEmployeeChecklist   = "employee.checklist"
	ObjectProfile             = "profile"
	ObjectChecklist           = "checklist"
	ObjectTraining            = "training"
	ObjectMaintenance         = "maintenance"
)

// Actions.
const (
	ActionList    = "list"
	ActionRead    = "read"
	ActionReadOwn = "read_own"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionRun     = "run"
)

// ErrDenied is returned when the caller's role may not perform an action.
var ErrDenied = fmt.Errorf("role %w", apperr.ErrForbidden)

// Authorizer enforces the role policy.
type Authorizer struct {
	enforcer *casbin.SyncedEnforcer
	logger   *slog.Logger
}

// New builds an Authorizer from the embedded model and policy.
func New(logger *slog.Logger) (*Authorizer, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, fmt.Errorf("authz: failed to parse model: %w", err)
	}
	enf, err := casbin.NewSyncedEnforcer(m, stringadapter.NewAdapter(policyText))
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}
	return &Authorizer{enforcer: enf, logger: logger.With("component", "authz")}, nil
}

// Allowed reports whether role may perform action on object.
func (a *Authorizer) Allowed(role identity.Role, object, action string) (bool, error) {
	if !role.Valid() {
		return false, nil
	}
	ok, err := a.enforcer.Enforce(string(role), object, action)
	if err != nil {
		return false, fmt.Errorf("authz: enforce failed: %w", err)
	}
	return ok, nil
}

// Authorize returns ErrDenied when the claim's role may not perform action
// on object.
func (a *Authorizer) Authorize(claim identity.Claim, object, action string) error {
	ok, err := a.Allowed(claim.Role, object, action)
	if err != nil {
		return err
	}
	if !ok {
		a.logger.Warn("authz denied request",
			"subject", claim.Subject,
			"role", claim.Role,
			"object", object,
			"action", action,
		)
		return ErrDenied
	}
	return nil
}
