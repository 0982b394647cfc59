package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/fokus/internal/workflow/application/commands"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/queries"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/felixgeelhaar/mcp-go"
)

type statusCreateInput struct {
	ProjectID   string `json:"project_id,omitempty"`
	Name        string `json:"name" jsonschema:"required"`
	Color       string `json:"color,omitempty"`
	Order       int    `json:"order,omitempty"`
	IsCompleted bool   `json:"is_completed,omitempty"`
}

type statusIDInput struct {
	ProjectID string `json:"project_id,omitempty"`
	StatusID  string `json:"status_id" jsonschema:"required"`
}

type statusReorderInput struct {
	ProjectID string `json:"project_id,omitempty"`
	// StatusIDs lists statuses in their new board order.
	StatusIDs []string `json:"status_ids" jsonschema:"required"`
	Strict    bool     `json:"strict,omitempty"`
}

type statusCreateOutput struct {
	StatusID string `json:"status_id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Order    int    `json:"order"`
}

func registerStatusTools(srv *mcp.Server, w workflowTools) error {
	srv.Tool("status.list").
		Description("List the statuses of a project in board order").
		Handler(w.statusList)

	srv.Tool("status.create").
		Description("Create a status; the slug gets a numeric suffix when taken").
		Handler(w.statusCreate)

	srv.Tool("status.delete").
		Description("Delete a status that no task is in, together with its transitions").
		Handler(w.statusDelete)

	srv.Tool("status.reorder").
		Description("Reorder statuses; statuses of other projects are skipped unless strict").
		Handler(w.statusReorder)

	return nil
}

func (w workflowTools) statusList(ctx context.Context, input projectInput) ([]queries.StatusDTO, error) {
	if w.app.ListStatusesHandler == nil {
		return nil, errNotInitialized
	}
	projectID, err := w.project(input.ProjectID)
	if err != nil {
		return nil, err
	}
	return w.app.ListStatusesHandler.Handle(ctx, queries.ListStatusesQuery{ProjectID: projectID})
}

func (w workflowTools) statusCreate(ctx context.Context, input statusCreateInput) (*statusCreateOutput, error) {
	if w.app.CreateStatusHandler == nil {
		return nil, errNotInitialized
	}
	if input.Name == "" {
		return nil, errors.New("name is required")
	}
	projectID, err := w.project(input.ProjectID)
	if err != nil {
		return nil, err
	}

	result, err := w.app.CreateStatusHandler.Handle(ctx, commands.CreateStatusCommand{
		ProjectID:   projectID,
		Name:        input.Name,
		Color:       input.Color,
		Order:       input.Order,
		IsCompleted: input.IsCompleted,
		ActorID:     w.app.CurrentUserID,
	})
	if err != nil {
		return nil, err
	}
	return &statusCreateOutput{
		StatusID: result.StatusID.String(),
		Name:     result.Name,
		Slug:     result.Slug,
		Order:    result.Order,
	}, nil
}

func (w workflowTools) statusDelete(ctx context.Context, input statusIDInput) (map[string]any, error) {
	if w.app.DeleteStatusHandler == nil {
		return nil, errNotInitialized
	}
	projectID, err := w.project(input.ProjectID)
	if err != nil {
		return nil, err
	}
	statusID, err := parseUUID(input.StatusID)
	if err != nil {
		return nil, err
	}

	result, err := w.app.DeleteStatusHandler.Handle(ctx, commands.DeleteStatusCommand{
		ProjectID: projectID,
		StatusID:  statusID,
		ActorID:   w.app.CurrentUserID,
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"status_id": statusID, "removed_edges": result.RemovedEdges}, nil
}

func (w workflowTools) statusReorder(ctx context.Context, input statusReorderInput) (*domain.ReorderResult, error) {
	if w.app.ReorderStatusesHandler == nil {
		return nil, errNotInitialized
	}
	projectID, err := w.project(input.ProjectID)
	if err != nil {
		return nil, err
	}

	changes := make([]domain.OrderChange, 0, len(input.StatusIDs))
	for i, raw := range input.StatusIDs {
		id, err := parseUUID(raw)
		if err != nil {
			return nil, err
		}
		changes = append(changes, domain.OrderChange{StatusID: id, Order: i})
	}
	return w.app.ReorderStatusesHandler.Handle(ctx, commands.ReorderStatusesCommand{
		ProjectID: projectID,
		Changes:   changes,
		Strict:    input.Strict,
		ActorID:   w.app.CurrentUserID,
	})
}
