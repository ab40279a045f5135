package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common reporting workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("project_review").
		Description("Review a project's health using all four reports and suggest next steps.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			project := args["project_id"]
			if project == "" {
				project = "the project I pick from the doable://projects resource"
			}
			return &mcp.PromptResult{
				Description: "Project Review",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: fmt.Sprintf(`Review %s. Please:

1. Run reports.status and summarize task counts and overall health
2. Run reports.progress and explain the velocity and estimated completion date
3. Run reports.workload and call out any overallocation alerts
4. Run reports.time_tracking for the last month and note where the hours went

Finish with the three most important actions for the project manager.`, project),
						},
					},
				},
			}, nil
		})

	srv.Prompt("team_workload").
		Description("Check whether work is balanced across the team on a project.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return &mcp.PromptResult{
				Description: "Team Workload Check",
				Messages: []mcp.PromptMessage{
					{
						Role: string(mcp.RoleUser),
						Content: mcp.TextContent{
							Type: "text",
							Text: `Use reports.workload for the project I name and tell me:

- Who is most and least loaded
- Which employees have overallocation alerts and at what severity
- Which open tasks could move to someone with spare capacity`,
						},
					},
				},
			}, nil
		})

	return nil
}
