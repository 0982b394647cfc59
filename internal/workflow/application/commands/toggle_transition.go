package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/fokus/internal/shared/application"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// ToggleTransitionCommand flips one directed edge.
type ToggleTransitionCommand struct {
	ProjectID    uuid.UUID
	FromStatusID uuid.UUID
	ToStatusID   uuid.UUID
	ActorID      uuid.UUID
}

// ToggleTransitionResult reports the edge's state after the toggle.
type ToggleTransitionResult struct {
	State domain.EdgeState
}

// ToggleTransitionHandler handles ToggleTransitionCommand. It is the only
// way edges change.
type ToggleTransitionHandler struct {
	statusRepo     domain.StatusRepository
	transitionRepo domain.TransitionRepository
	uow            sharedApplication.UnitOfWork
	notifier       domain.WorkflowNotifier
}

// NewToggleTransitionHandler creates a new ToggleTransitionHandler.
func NewToggleTransitionHandler(
	statusRepo domain.StatusRepository,
	transitionRepo domain.TransitionRepository,
	uow sharedApplication.UnitOfWork,
	notifier domain.WorkflowNotifier,
) *ToggleTransitionHandler {
	return &ToggleTransitionHandler{
		statusRepo:     statusRepo,
		transitionRepo: transitionRepo,
		uow:            uow,
		notifier:       notifier,
	}
}

// Handle removes the edge when it exists and creates it otherwise. Losing
// a race to create the same edge still reports EdgeAdded.
func (h *ToggleTransitionHandler) Handle(ctx context.Context, cmd ToggleTransitionCommand) (*ToggleTransitionResult, error) {
	if cmd.FromStatusID == cmd.ToStatusID {
		return nil, domain.ErrSelfLoop
	}

	result, err := sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*ToggleTransitionResult, error) {
		for _, id := range []uuid.UUID{cmd.FromStatusID, cmd.ToStatusID} {
			if _, err := h.statusRepo.FindByID(txCtx, cmd.ProjectID, id); err != nil {
				return nil, err
			}
		}

		removed, err := h.transitionRepo.Delete(txCtx, cmd.ProjectID, cmd.FromStatusID, cmd.ToStatusID)
		if err != nil {
			return nil, err
		}
		if removed {
			return &ToggleTransitionResult{State: domain.EdgeRemoved}, nil
		}

		edge, err := domain.NewTransition(cmd.ProjectID, cmd.FromStatusID, cmd.ToStatusID)
		if err != nil {
			return nil, err
		}
		if _, err := h.transitionRepo.Create(txCtx, edge); err != nil {
			return nil, err
		}
		return &ToggleTransitionResult{State: domain.EdgeAdded}, nil
	})
	if err != nil {
		return nil, err
	}

	h.notifier.NotifyWorkflowUpdated(ctx,
		domain.NewWorkflowUpdated(cmd.ProjectID, domain.ChangeTransitionToggled, cmd.ActorID).
			ForEdge(cmd.FromStatusID, cmd.ToStatusID, result.State))
	return result, nil
}
