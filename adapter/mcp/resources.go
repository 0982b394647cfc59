package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/felixgeelhaar/mcp-go"
)

type templateResource struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Statuses    []string `json:"statuses"`
	Transitions int      `json:"transitions"`
}

// RegisterResources registers MCP resources that expose workflow data.
func RegisterResources(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}
	tools := workflowTools{app: deps.App}

	srv.Resource("fokus://workflow/templates").
		Name("Workflow Templates").
		Description("Workflow templates that can be applied to an empty project").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if deps.App == nil || deps.App.Templates == nil {
				return nil, fmt.Errorf("template registry requires initialization")
			}
			return jsonResource(uri, describeTemplates(deps.App.Templates.List()))
		})

	srv.Resource("fokus://workflow/overview").
		Name("Workflow Overview").
		Description("Statuses and transitions of the default project").
		MimeType("application/json").
		Handler(func(ctx context.Context, uri string, params map[string]string) (*mcp.ResourceContent, error) {
			if deps.App == nil {
				return nil, errNotInitialized
			}
			overview, err := tools.workflowOverview(ctx, projectInput{})
			if err != nil {
				return nil, err
			}
			return jsonResource(uri, overview)
		})

	return nil
}

func describeTemplates(blueprints []domain.Blueprint) []templateResource {
	out := make([]templateResource, 0, len(blueprints))
	for _, bp := range blueprints {
		names := make([]string, 0, len(bp.Statuses))
		for _, s := range bp.Statuses {
			names = append(names, s.Name)
		}
		out = append(out, templateResource{
			Name:        bp.Name,
			Description: bp.Description,
			Statuses:    names,
			Transitions: len(bp.Transitions),
		})
	}
	return out
}

func jsonResource(uri string, v any) (*mcp.ResourceContent, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcp.ResourceContent{
		URI:      uri,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}
