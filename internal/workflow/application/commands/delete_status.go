package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/fokus/internal/shared/application"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// DeleteStatusCommand removes a status and every edge touching it.
type DeleteStatusCommand struct {
	ProjectID uuid.UUID
	StatusID  uuid.UUID
	ActorID   uuid.UUID
}

// DeleteStatusResult reports how many edges went with the status.
type DeleteStatusResult struct {
	RemovedEdges int64
}

// DeleteStatusHandler handles DeleteStatusCommand.
type DeleteStatusHandler struct {
	statusRepo     domain.StatusRepository
	transitionRepo domain.TransitionRepository
	taskRepo       domain.TaskRepository
	uow            sharedApplication.UnitOfWork
	notifier       domain.WorkflowNotifier
}

// NewDeleteStatusHandler creates a new DeleteStatusHandler.
func NewDeleteStatusHandler(
	statusRepo domain.StatusRepository,
	transitionRepo domain.TransitionRepository,
	taskRepo domain.TaskRepository,
	uow sharedApplication.UnitOfWork,
	notifier domain.WorkflowNotifier,
) *DeleteStatusHandler {
	return &DeleteStatusHandler{
		statusRepo:     statusRepo,
		transitionRepo: transitionRepo,
		taskRepo:       taskRepo,
		uow:            uow,
		notifier:       notifier,
	}
}

// Handle fails with ErrStatusInUse while any task is still in the status.
func (h *DeleteStatusHandler) Handle(ctx context.Context, cmd DeleteStatusCommand) (*DeleteStatusResult, error) {
	result, err := sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*DeleteStatusResult, error) {
		if _, err := h.statusRepo.FindByID(txCtx, cmd.ProjectID, cmd.StatusID); err != nil {
			return nil, err
		}

		inUse, err := h.taskRepo.CountByStatus(txCtx, cmd.ProjectID, cmd.StatusID)
		if err != nil {
			return nil, err
		}
		if inUse > 0 {
			return nil, domain.ErrStatusInUse
		}

		removed, err := h.transitionRepo.DeleteByStatus(txCtx, cmd.ProjectID, cmd.StatusID)
		if err != nil {
			return nil, err
		}
		if err := h.statusRepo.Delete(txCtx, cmd.ProjectID, cmd.StatusID); err != nil {
			return nil, err
		}
		return &DeleteStatusResult{RemovedEdges: removed}, nil
	})
	if err != nil {
		return nil, err
	}

	h.notifier.NotifyWorkflowUpdated(ctx,
		domain.NewWorkflowUpdated(cmd.ProjectID, domain.ChangeStatusDeleted, cmd.ActorID).ForStatus(cmd.StatusID))
	return result, nil
}
