package client

import "context"

// Repository provides persistence for clients, their project rosters and
// comment threads. Get and List return comments oldest first.
type Repository interface {
	Create(ctx context.Context, c *Client) error
	Get(ctx context.Context, id string) (*Client, error)
	List(ctx context.Context) ([]Client, error)
	AddProject(ctx context.Context, clientID, projectID string) error
	RemoveProject(ctx context.Context, clientID, projectID string) error
	AddComment(ctx context.Context, clientID string, c *Comment) error
}
