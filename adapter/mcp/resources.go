package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterResources registers MCP resources that expose doable data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	t := reportTools{app: deps.App}

	srv.Resource("doable://projects").
		Name("Projects").
		Description("Active projects with their ids, for use with the reports.* tools").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			projects, err := t.projects(ctx, struct{}{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, projects)
		})

	srv.Resource("doable://health").
		Name("Health").
		Description("Database and cache health").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			health, err := t.health(ctx, struct{}{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, health)
		})

	return nil
}

func jsonResource(uri string, value any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
