package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/fokus/internal/shared/application"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// CreateTaskCommand places a new task on a project's board. A nil
// StatusID puts it in the lowest-ordered status.
type CreateTaskCommand struct {
	ProjectID uuid.UUID
	Title     string
	StatusID  *uuid.UUID
	ActorID   uuid.UUID
}

// CreateTaskResult contains the created task.
type CreateTaskResult struct {
	TaskID   uuid.UUID
	StatusID uuid.UUID
}

// CreateTaskHandler handles CreateTaskCommand.
type CreateTaskHandler struct {
	taskRepo   domain.TaskRepository
	statusRepo domain.StatusRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewCreateTaskHandler creates a new CreateTaskHandler.
func NewCreateTaskHandler(
	taskRepo domain.TaskRepository,
	statusRepo domain.StatusRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
) *CreateTaskHandler {
	return &CreateTaskHandler{taskRepo: taskRepo, statusRepo: statusRepo, outboxRepo: outboxRepo, uow: uow}
}

func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*CreateTaskResult, error) {
	return sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*CreateTaskResult, error) {
		status, err := h.initialStatus(txCtx, cmd)
		if err != nil {
			return nil, err
		}

		task, err := domain.NewTask(cmd.Title, status)
		if err != nil {
			return nil, err
		}
		if err := h.taskRepo.Save(txCtx, task); err != nil {
			return nil, err
		}
		if err := saveEvents(txCtx, h.outboxRepo, task, cmd.ActorID); err != nil {
			return nil, err
		}
		return &CreateTaskResult{TaskID: task.ID(), StatusID: task.StatusID()}, nil
	})
}

func (h *CreateTaskHandler) initialStatus(ctx context.Context, cmd CreateTaskCommand) (*domain.Status, error) {
	if cmd.StatusID != nil {
		return h.statusRepo.FindByID(ctx, cmd.ProjectID, *cmd.StatusID)
	}

	statuses, err := h.statusRepo.FindByProject(ctx, cmd.ProjectID)
	if err != nil {
		return nil, err
	}
	catalog, err := domain.NewCatalog(cmd.ProjectID, statuses)
	if err != nil {
		return nil, err
	}
	entry, ok := catalog.Entry()
	if !ok {
		return nil, domain.ErrStatusNotFound
	}
	return entry, nil
}
