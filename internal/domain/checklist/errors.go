package checklist

import (
	"github.com/rpggio/teamportal/internal/apperr"
)

var (
	// ErrDateRequired indicates the date field is missing or malformed.
	ErrDateRequired = apperr.Invalid("date", "date is required")
	// ErrChecklistRequired indicates the checklist payload is missing.
	ErrChecklistRequired = apperr.Invalid("checklist", "checklist data is required")
)
