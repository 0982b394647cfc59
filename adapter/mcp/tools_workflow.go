package mcp

import (
	"context"

	"github.com/felixgeelhaar/fokus/internal/workflow/application/queries"
	"github.com/felixgeelhaar/mcp-go"
)

func registerWorkflowTools(srv *mcp.Server, w workflowTools) error {
	srv.Tool("workflow.overview").
		Description("Summarize a project's workflow: edges, unreachable statuses, dead ends").
		Handler(w.workflowOverview)
	return nil
}

func (w workflowTools) workflowOverview(ctx context.Context, input projectInput) (*queries.WorkflowOverviewDTO, error) {
	if w.app.WorkflowOverviewHandler == nil {
		return nil, errNotInitialized
	}
	projectID, err := w.project(input.ProjectID)
	if err != nil {
		return nil, err
	}
	return w.app.WorkflowOverviewHandler.Handle(ctx, queries.WorkflowOverviewQuery{ProjectID: projectID})
}
