package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/teamportal/internal/apperr"
)

// APIError represents an MCP tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Field        string `json:"field,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain error kinds to MCP error codes. Unknown errors map to
// nil and are reported as-is.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		return &APIError{Code: "INVALID_ARGUMENT", Message: verr.Message, Field: verr.Field}
	case errors.Is(err, apperr.ErrNotFound):
		return &APIError{Code: "NOT_FOUND", Message: "not found", RecoveryHint: "Check ID spelling"}
	case errors.Is(err, apperr.ErrForbidden):
		return &APIError{Code: "FORBIDDEN", Message: "forbidden"}
	case errors.Is(err, apperr.ErrConsistencyRisk):
		return &APIError{Code: "CONSISTENCY_RISK", Message: err.Error(), RecoveryHint: "Run reconcile_client_links"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
