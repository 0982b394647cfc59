package mcp

import (
	"context"
	"errors"

	"github.com/felixgeelhaar/fokus/internal/workflow/application/commands"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/queries"
	"github.com/felixgeelhaar/mcp-go"
)

type taskCreateInput struct {
	ProjectID string `json:"project_id,omitempty"`
	Title     string `json:"title" jsonschema:"required"`
	StatusID  string `json:"status_id,omitempty"`
}

type taskMoveInput struct {
	TaskID   string `json:"task_id" jsonschema:"required"`
	StatusID string `json:"status_id" jsonschema:"required"`
}

type taskIDInput struct {
	TaskID string `json:"task_id" jsonschema:"required"`
}

type taskCreateOutput struct {
	TaskID   string `json:"task_id"`
	StatusID string `json:"status_id"`
}

type taskMoveOutput struct {
	TaskID      string `json:"task_id"`
	OldStatusID string `json:"old_status_id"`
	StatusID    string `json:"status_id"`
	Changed     bool   `json:"changed"`
	Version     int    `json:"version"`
}

func registerTaskTools(srv *mcp.Server, w workflowTools) error {
	srv.Tool("task.create").
		Description("Create a task; without status_id it starts in the first status").
		Handler(w.taskCreate)

	srv.Tool("task.move").
		Description("Move a task along an allowed transition").
		Handler(w.taskMove)

	srv.Tool("task.targets").
		Description("List the statuses a task can move to").
		Handler(w.taskTargets)

	return nil
}

func (w workflowTools) taskCreate(ctx context.Context, input taskCreateInput) (*taskCreateOutput, error) {
	if w.app.CreateTaskHandler == nil {
		return nil, errNotInitialized
	}
	if input.Title == "" {
		return nil, errors.New("title is required")
	}
	projectID, err := w.project(input.ProjectID)
	if err != nil {
		return nil, err
	}
	statusID, err := parseOptionalUUID(input.StatusID)
	if err != nil {
		return nil, err
	}

	result, err := w.app.CreateTaskHandler.Handle(ctx, commands.CreateTaskCommand{
		ProjectID: projectID,
		Title:     input.Title,
		StatusID:  statusID,
		ActorID:   w.app.CurrentUserID,
	})
	if err != nil {
		return nil, err
	}
	return &taskCreateOutput{TaskID: result.TaskID.String(), StatusID: result.StatusID.String()}, nil
}

func (w workflowTools) taskMove(ctx context.Context, input taskMoveInput) (*taskMoveOutput, error) {
	if w.app.ChangeTaskStatusHandler == nil {
		return nil, errNotInitialized
	}
	taskID, err := parseUUID(input.TaskID)
	if err != nil {
		return nil, err
	}
	target, err := parseUUID(input.StatusID)
	if err != nil {
		return nil, err
	}

	result, err := w.app.ChangeTaskStatusHandler.Handle(ctx, commands.ChangeTaskStatusCommand{
		TaskID:         taskID,
		TargetStatusID: target,
		ActorID:        w.app.CurrentUserID,
	})
	if err != nil {
		return nil, err
	}
	return &taskMoveOutput{
		TaskID:      result.TaskID.String(),
		OldStatusID: result.OldStatusID.String(),
		StatusID:    result.StatusID.String(),
		Changed:     result.Changed,
		Version:     result.Version,
	}, nil
}

func (w workflowTools) taskTargets(ctx context.Context, input taskIDInput) (*queries.AllowedTargetsResult, error) {
	if w.app.AllowedTargetsHandler == nil {
		return nil, errNotInitialized
	}
	taskID, err := parseUUID(input.TaskID)
	if err != nil {
		return nil, err
	}
	return w.app.AllowedTargetsHandler.Handle(ctx, queries.AllowedTargetsQuery{TaskID: taskID})
}
