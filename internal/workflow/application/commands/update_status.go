package commands

import (
	"context"
	"errors"

	sharedApplication "github.com/felixgeelhaar/fokus/internal/shared/application"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// UpdateStatusCommand edits a status. Nil fields are left unchanged.
type UpdateStatusCommand struct {
	ProjectID   uuid.UUID
	StatusID    uuid.UUID
	Name        *string
	Color       *string
	IsCompleted *bool
	ActorID     uuid.UUID
}

// UpdateStatusResult contains the status after the edit.
type UpdateStatusResult struct {
	StatusID    uuid.UUID
	Name        string
	Slug        string
	Color       string
	IsCompleted bool
}

// UpdateStatusHandler handles UpdateStatusCommand.
type UpdateStatusHandler struct {
	statusRepo domain.StatusRepository
	uow        sharedApplication.UnitOfWork
	notifier   domain.WorkflowNotifier
}

// NewUpdateStatusHandler creates a new UpdateStatusHandler.
func NewUpdateStatusHandler(
	statusRepo domain.StatusRepository,
	uow sharedApplication.UnitOfWork,
	notifier domain.WorkflowNotifier,
) *UpdateStatusHandler {
	return &UpdateStatusHandler{statusRepo: statusRepo, uow: uow, notifier: notifier}
}

func (h *UpdateStatusHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) (*UpdateStatusResult, error) {
	var (
		result *UpdateStatusResult
		err    error
	)
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		result, err = sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*UpdateStatusResult, error) {
			existing, err := h.statusRepo.FindByProject(txCtx, cmd.ProjectID)
			if err != nil {
				return nil, err
			}
			catalog, err := domain.NewCatalog(cmd.ProjectID, existing)
			if err != nil {
				return nil, err
			}

			status, ok := catalog.Find(cmd.StatusID)
			if !ok {
				return nil, domain.ErrStatusNotFound
			}
			if cmd.Name != nil {
				if status, err = catalog.Rename(cmd.StatusID, *cmd.Name); err != nil {
					return nil, err
				}
			}
			if cmd.Color != nil {
				status.SetColor(*cmd.Color)
			}
			if cmd.IsCompleted != nil {
				status.SetCompleted(*cmd.IsCompleted)
			}

			if err := h.statusRepo.Save(txCtx, status); err != nil {
				return nil, err
			}
			return &UpdateStatusResult{
				StatusID:    status.ID(),
				Name:        status.Name(),
				Slug:        status.Slug(),
				Color:       status.Color(),
				IsCompleted: status.IsCompleted(),
			}, nil
		})
		if !errors.Is(err, domain.ErrSlugTaken) {
			break
		}
	}
	if err != nil {
		return nil, err
	}

	h.notifier.NotifyWorkflowUpdated(ctx,
		domain.NewWorkflowUpdated(cmd.ProjectID, domain.ChangeStatusUpdated, cmd.ActorID).ForStatus(cmd.StatusID))
	return result, nil
}
