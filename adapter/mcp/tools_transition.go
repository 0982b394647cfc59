package mcp

import (
	"context"

	"github.com/felixgeelhaar/fokus/internal/workflow/application/commands"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/queries"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/felixgeelhaar/mcp-go"
)

type edgeInput struct {
	ProjectID    string `json:"project_id,omitempty"`
	FromStatusID string `json:"from_status_id" jsonschema:"required"`
	ToStatusID   string `json:"to_status_id" jsonschema:"required"`
}

type edgeCheckOutput struct {
	Allowed bool `json:"allowed"`
}

type edgeToggleOutput struct {
	State domain.EdgeState `json:"state"`
}

func registerTransitionTools(srv *mcp.Server, w workflowTools) error {
	srv.Tool("transition.list").
		Description("List the allowed transitions of a project").
		Handler(w.transitionList)

	srv.Tool("transition.toggle").
		Description("Add a transition if missing, remove it otherwise").
		Handler(w.transitionToggle)

	srv.Tool("transition.check").
		Description("Check whether a task may move between two statuses").
		Handler(w.transitionCheck)

	return nil
}

func (w workflowTools) transitionList(ctx context.Context, input projectInput) ([]queries.TransitionDTO, error) {
	if w.app.ListTransitionsHandler == nil {
		return nil, errNotInitialized
	}
	projectID, err := w.project(input.ProjectID)
	if err != nil {
		return nil, err
	}
	return w.app.ListTransitionsHandler.Handle(ctx, queries.ListTransitionsQuery{ProjectID: projectID})
}

func (w workflowTools) transitionToggle(ctx context.Context, input edgeInput) (*edgeToggleOutput, error) {
	if w.app.ToggleTransitionHandler == nil {
		return nil, errNotInitialized
	}
	cmd, err := w.edgeCommand(input)
	if err != nil {
		return nil, err
	}
	result, err := w.app.ToggleTransitionHandler.Handle(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return &edgeToggleOutput{State: result.State}, nil
}

func (w workflowTools) transitionCheck(ctx context.Context, input edgeInput) (*edgeCheckOutput, error) {
	if w.app.CheckTransitionHandler == nil {
		return nil, errNotInitialized
	}
	cmd, err := w.edgeCommand(input)
	if err != nil {
		return nil, err
	}
	allowed, err := w.app.CheckTransitionHandler.Handle(ctx, queries.CheckTransitionQuery{
		ProjectID:    cmd.ProjectID,
		FromStatusID: cmd.FromStatusID,
		ToStatusID:   cmd.ToStatusID,
	})
	if err != nil {
		return nil, err
	}
	return &edgeCheckOutput{Allowed: allowed}, nil
}

func (w workflowTools) edgeCommand(input edgeInput) (commands.ToggleTransitionCommand, error) {
	projectID, err := w.project(input.ProjectID)
	if err != nil {
		return commands.ToggleTransitionCommand{}, err
	}
	from, err := parseUUID(input.FromStatusID)
	if err != nil {
		return commands.ToggleTransitionCommand{}, err
	}
	to, err := parseUUID(input.ToStatusID)
	if err != nil {
		return commands.ToggleTransitionCommand{}, err
	}
	return commands.ToggleTransitionCommand{
		ProjectID:    projectID,
		FromStatusID: from,
		ToStatusID:   to,
		ActorID:      w.app.CurrentUserID,
	}, nil
}
