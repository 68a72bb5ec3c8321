package employee

import (
	"fmt"

	"github.com/rpggio/teamportal/internal/apperr"
)

var (
	// ErrEmployeeNotFound indicates the employee doesn't exist.
	ErrEmployeeNotFound = fmt.Errorf("employee %w", apperr.ErrNotFound)
	// ErrNoEmployeeRef indicates the caller's identity carries no employee link.
	ErrNoEmployeeRef = fmt.Errorf("employee reference missing: %w", apperr.ErrValidation)
)
