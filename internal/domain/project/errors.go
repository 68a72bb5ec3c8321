package project

import (
	"fmt"

	"github.com/rpggio/teamportal/internal/apperr"
)

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = fmt.Errorf("project %w", apperr.ErrNotFound)
	// ErrForbidden indicates the caller may not see or change the project.
	ErrForbidden = fmt.Errorf("project access %w", apperr.ErrForbidden)
)
