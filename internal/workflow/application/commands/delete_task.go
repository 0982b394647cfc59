package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/fokus/internal/shared/application"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// DeleteTaskCommand removes a task from the board.
type DeleteTaskCommand struct {
	TaskID  uuid.UUID
	ActorID uuid.UUID
}

// DeleteTaskHandler handles DeleteTaskCommand.
type DeleteTaskHandler struct {
	taskRepo   domain.TaskRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewDeleteTaskHandler creates a new DeleteTaskHandler.
func NewDeleteTaskHandler(taskRepo domain.TaskRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DeleteTaskHandler {
	return &DeleteTaskHandler{taskRepo: taskRepo, outboxRepo: outboxRepo, uow: uow}
}

func (h *DeleteTaskHandler) Handle(ctx context.Context, cmd DeleteTaskCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		task, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return err
		}

		task.MarkDeleted()
		if err := h.taskRepo.Delete(txCtx, task.ID()); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, task, cmd.ActorID)
	})
}
