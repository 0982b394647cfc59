package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/fokus/internal/shared/application"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// ChangeTaskStatusCommand moves a task to another status.
type ChangeTaskStatusCommand struct {
	TaskID         uuid.UUID
	TargetStatusID uuid.UUID
	ActorID        uuid.UUID
}

// ChangeTaskStatusResult describes the task after the move.
type ChangeTaskStatusResult struct {
	TaskID      uuid.UUID
	ProjectID   uuid.UUID
	OldStatusID uuid.UUID
	StatusID    uuid.UUID
	Version     int
	// Changed is false when the task already was in the target status.
	Changed bool
}

// ChangeTaskStatusHandler is the only path by which a task's status
// changes. It enforces the project's transition graph.
type ChangeTaskStatusHandler struct {
	taskRepo       domain.TaskRepository
	statusRepo     domain.StatusRepository
	transitionRepo domain.TransitionRepository
	outboxRepo     outbox.Repository
	uow            sharedApplication.UnitOfWork
}

// NewChangeTaskStatusHandler creates a new ChangeTaskStatusHandler.
func NewChangeTaskStatusHandler(
	taskRepo domain.TaskRepository,
	statusRepo domain.StatusRepository,
	transitionRepo domain.TransitionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *ChangeTaskStatusHandler {
	return &ChangeTaskStatusHandler{
		taskRepo:       taskRepo,
		statusRepo:     statusRepo,
		transitionRepo: transitionRepo,
		outboxRepo:     outboxRepo,
		uow:            uow,
	}
}

func (h *ChangeTaskStatusHandler) Handle(ctx context.Context, cmd ChangeTaskStatusCommand) (*ChangeTaskStatusResult, error) {
	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*ChangeTaskStatusResult, error) {
		task, err := h.taskRepo.FindByID(txCtx, cmd.TaskID)
		if err != nil {
			return nil, err
		}
		target, err := h.statusRepo.FindByID(txCtx, task.ProjectID(), cmd.TargetStatusID)
		if err != nil {
			return nil, err
		}

		result := &ChangeTaskStatusResult{
			TaskID:      task.ID(),
			ProjectID:   task.ProjectID(),
			OldStatusID: task.StatusID(),
			StatusID:    task.StatusID(),
			Version:     task.Version(),
		}
		if target.ID() == task.StatusID() {
			return result, nil
		}

		allowed, err := h.transitionRepo.Exists(txCtx, task.ProjectID(), task.StatusID(), target.ID())
		if err != nil {
			return nil, err
		}
		changed, err := task.ChangeStatus(target, allowed, cmd.ActorID)
		if err != nil {
			return nil, err
		}

		if err := h.taskRepo.Save(txCtx, task); err != nil {
			return nil, err
		}
		if err := saveEvents(txCtx, h.outboxRepo, task, cmd.ActorID); err != nil {
			return nil, err
		}

		result.StatusID = task.StatusID()
		result.Version = task.Version()
		result.Changed = changed
		return result, nil
	})
}
