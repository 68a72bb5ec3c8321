package mcp

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/teamportal/internal/domain/identity"
)

func registerTools(server *sdkmcp.Server, services Services) {
	projects := services.Projects

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List projects, optionally filtered by status, priority, client type, assignment or search text",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in ListProjectsParams) (*sdkmcp.CallToolResult, any, error) {
		list, err := projects.List(ctx, claimFrom(ctx), in.query())
		if err != nil {
			return nil, nil, mapError(err)
		}
		resp := ListProjectsResponse{Projects: make([]ProjectSummaryResponse, 0, len(list))}
		for _, p := range list {
			resp.Projects = append(resp.Projects, summarize(p))
		}
		return jsonResult(resp)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a project with its team and client organization",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in GetProjectParams) (*sdkmcp.CallToolResult, any, error) {
		p, err := projects.Get(ctx, claimFrom(ctx), in.ID)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return jsonResult(p)
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "assign_employees",
		Description: "Replace a project's assignee list. The first employee becomes lead; an empty list unassigns the project",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in AssignEmployeesParams) (*sdkmcp.CallToolResult, any, error) {
		p, err := projects.AssignEmployees(ctx, claimFrom(ctx), in.ProjectID, in.EmployeeIDs)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return jsonResult(summarize(*p))
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recompute_project_hours",
		Description: "Recompute a project's total hours from its daily updates",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, in RecomputeProjectHoursParams) (*sdkmcp.CallToolResult, any, error) {
		p, err := projects.RecomputeHours(ctx, in.ProjectID)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return jsonResult(summarize(*p))
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "recompute_all_hours",
		Description: "Recompute total hours for every project",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ NoParams) (*sdkmcp.CallToolResult, any, error) {
		n, err := projects.RecomputeAllHours(ctx)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return jsonResult(RecomputeAllHoursResponse{Projects: n})
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "reconcile_client_links",
		Description: "Rebuild every client's project roster from the projects' client references",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ NoParams) (*sdkmcp.CallToolResult, any, error) {
		report, err := projects.ReconcileClientLinks(ctx)
		if err != nil {
			return nil, nil, mapError(err)
		}
		return jsonResult(report)
	})
}

func claimFrom(ctx context.Context) identity.Claim {
	claim, _ := identity.FromContext(ctx)
	return claim
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil, nil
}
