package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rpggio/teamportal/internal/domain/identity"
	"github.com/rpggio/teamportal/internal/repository"
	"github.com/rpggio/teamportal/internal/validate"
)

// Service handles client directory operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new client service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// CreateRequest defines client creation inputs.
type CreateRequest struct {
	Organization   string `json:"organization" validate:"notblank"`
	PrimaryContact string `json:"primaryContact"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	Timezone       string `json:"timezone"`
	Notes          string `json:"notes"`
}

// Create registers a new client with an empty project roster.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Client, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &Client{
		ID:             uuid.NewString(),
		Organization:   strings.TrimSpace(req.Organization),
		PrimaryContact: req.PrimaryContact,
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:          req.Phone,
		Address:        req.Address,
		Timezone:       req.Timezone,
		Notes:          req.Notes,
		Projects:       []string{},
		Comments:       []Comment{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	s.logger.Info("client created", "client_id", c.ID, "organization", c.Organization)
	return c, nil
}

// Get fetches a client. Client-role callers may only read their own record.
func (s *Service) Get(ctx context.Context, claim identity.Claim, id string) (*Client, error) {
	if err := Authorize(claim, id); err != nil {
		return nil, err
	}
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("getting client: %w", err)
	}
	return c, nil
}

// CommentRequest defines a new comment.
type CommentRequest struct {
	Message string `json:"message" validate:"notblank"`
}

// AddComment appends a comment to a client's thread. Client-role callers may
// only comment on their own record.
func (s *Service) AddComment(ctx context.Context, claim identity.Claim, clientID string, req CommentRequest) (*Comment, error) {
	if err := Authorize(claim, clientID); err != nil {
		return nil, err
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	c := &Comment{
		ID:        uuid.NewString(),
		Message:   strings.TrimSpace(req.Message),
		CreatedBy: claim.Subject,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.AddComment(ctx, clientID, c); err != nil {
		if errors.Is(err, repository.ErrForeignKeyViolation) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("adding client comment: %w", err)
	}
	s.logger.Info("client comment added", "client_id", clientID, "comment_id", c.ID, "created_by", c.CreatedBy)
	return c, nil
}

// List returns every client with its roster.
func (s *Service) List(ctx context.Context) ([]Client, error) {
	clients, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	return clients, nil
}

// Authorize rejects client-role callers addressing a client other than their own.
func Authorize(claim identity.Claim, clientID string) error {
	if claim.IsClient() && (claim.ClientRef == "" || claim.ClientRef != clientID) {
		return ErrForbidden
	}
	return nil
}
