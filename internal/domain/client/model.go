package client

import "time"

// Client is an organization that commissions projects.
type Client struct {
	ID             string    `json:"id"`
	Organization   string    `json:"organization"`
	PrimaryContact string    `json:"primaryContact,omitempty"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone,omitempty"`
	Address        string    `json:"address,omitempty"`
	Timezone       string    `json:"timezone,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Projects       []string  `json:"projects"`
	Comments       []Comment `json:"comments"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// Comment is a note left on a client record.
type Comment struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasProject reports whether projectID is on the client's roster.
func (c *Client) HasProject(projectID string) bool {
	for _, id := range c.Projects {
		if id == projectID {
			return true
		}
	}
	return false
}
