package client

import (
	"fmt"

	"github.com/rpggio/teamportal/internal/apperr"
)

var (
	// ErrClientNotFound indicates the client doesn't exist.
	ErrClientNotFound = fmt.Errorf("client %w", apperr.ErrNotFound)
	// ErrForbidden indicates the caller may not access this client.
	ErrForbidden = fmt.Errorf("client access %w", apperr.ErrForbidden)
)
