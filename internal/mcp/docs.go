package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `teamportal exposes administrative maintenance for the project portal.

Every call needs an admin bearer token.

Tools:
- list_projects / get_project: browse projects (admin sees everything).
- assign_employees: replace a roster. The first id becomes lead; [] unassigns.
- recompute_project_hours / recompute_all_hours: rebuild totalHoursSpent from daily updates.
- reconcile_client_links: rebuild client project rosters from each project's client reference.

Docs:
- portal://docs/index
- portal://docs/consistency
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "portal://docs/index",
		Name:        "docs_index",
		Title:       "teamportal admin docs",
		Description: "What the admin tools do and when to use them.",
		Content: `# teamportal admin tools

## Projects

- ` + "`list_projects`" + ` accepts status, priority, client_type, assigned, stock_market_flag, search and client_id.
- ` + "`get_project`" + ` returns the project with its team (id, name, status) and client organization.

## Assignment

` + "`assign_employees`" + ` replaces the roster in the order given. Duplicates and blanks are dropped.
The first remaining id is the lead. Unknown employee ids fail the whole call and nothing is written.

## Derived data

- Total hours are the sum of the project's daily update hours.
- Client rosters mirror each project's client reference.

See ` + "`portal://docs/consistency`" + ` for repair.
`,
	},
	{
		URI:         "portal://docs/consistency",
		Name:        "docs_consistency",
		Title:       "Repairing derived data",
		Description: "When and how to run the reconciliation tools.",
		Content: `# Repairing derived data

A CONSISTENCY_RISK error means a primary write succeeded but a dependent write did not.
The server logs these with kind=consistency_risk.

- Client roster drift: run ` + "`reconcile_client_links`" + `. It is idempotent; a second run reports no changes.
- Hour totals drift: run ` + "`recompute_project_hours`" + ` for one project or ` + "`recompute_all_hours`" + `.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
