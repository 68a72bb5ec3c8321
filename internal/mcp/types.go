package mcp

import "github.com/rpggio/teamportal/internal/domain/project"

// ListProjectsParams filters list_projects.
type ListProjectsParams struct {
	Status          string `json:"status,omitempty" jsonschema:"project status, e.g. Active or Contact Made"`
	Priority        string `json:"priority,omitempty" jsonschema:"High, Medium or Low"`
	ClientType      string `json:"client_type,omitempty" jsonschema:"New or Existing"`
	Assigned        *bool  `json:"assigned,omitempty" jsonschema:"only projects with or without assignees"`
	StockMarketFlag *bool  `json:"stock_market_flag,omitempty"`
	Search          string `json:"search,omitempty" jsonschema:"case-insensitive match on client name, description and project type"`
	ClientID        string `json:"client_id,omitempty"`
}

func (p ListProjectsParams) query() project.Query {
	return project.Query{
		Status:          project.Status(p.Status),
		Priority:        project.Priority(p.Priority),
		ClientType:      project.ClientType(p.ClientType),
		Assigned:        p.Assigned,
		StockMarketFlag: p.StockMarketFlag,
		Search:          p.Search,
		ClientID:        p.ClientID,
	}
}

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"project ID"`
}

type AssignEmployeesParams struct {
	ProjectID   string   `json:"project_id"`
	EmployeeIDs []string `json:"employee_ids" jsonschema:"ordered employee IDs; the first becomes lead, an empty list unassigns"`
}

type RecomputeProjectHoursParams struct {
	ProjectID string `json:"project_id"`
}

// NoParams is the input of tools that take no arguments.
type NoParams struct{}

// ProjectSummaryResponse is the compact project shape returned by list_projects.
type ProjectSummaryResponse struct {
	ID              string   `json:"id"`
	ClientName      string   `json:"client_name"`
	Status          string   `json:"status"`
	Priority        string   `json:"priority"`
	ClientID        string   `json:"client_id,omitempty"`
	Assignees       []string `json:"assignees"`
	LeadAssignee    string   `json:"lead_assignee,omitempty"`
	TotalHoursSpent float64  `json:"total_hours_spent"`
}

type ListProjectsResponse struct {
	Projects []ProjectSummaryResponse `json:"projects"`
}

type RecomputeAllHoursResponse struct {
	Projects int `json:"projects"`
}

func summarize(p project.Project) ProjectSummaryResponse {
	assignees := p.Assignees
	if assignees == nil {
		assignees = []string{}
	}
	return ProjectSummaryResponse{
		ID:              p.ID,
		ClientName:      p.ClientName,
		Status:          string(p.Status),
		Priority:        string(p.Priority),
		ClientID:        p.ClientID,
		Assignees:       assignees,
		LeadAssignee:    p.LeadAssignee,
		TotalHoursSpent: p.TotalHoursSpent,
	}
}
