package commands

import (
	"context"
	"errors"

	sharedApplication "github.com/felixgeelhaar/fokus/internal/shared/application"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// CreateStatusCommand adds a status to a project's catalog.
type CreateStatusCommand struct {
	ProjectID   uuid.UUID
	Name        string
	Color       string
	Order       int
	IsCompleted bool
	ActorID     uuid.UUID
}

// CreateStatusResult contains the created status.
type CreateStatusResult struct {
	StatusID uuid.UUID
	Name     string
	Slug     string
	Order    int
}

// CreateStatusHandler handles CreateStatusCommand.
type CreateStatusHandler struct {
	statusRepo domain.StatusRepository
	uow        sharedApplication.UnitOfWork
	notifier   domain.WorkflowNotifier
}

// NewCreateStatusHandler creates a new CreateStatusHandler.
func NewCreateStatusHandler(
	statusRepo domain.StatusRepository,
	uow sharedApplication.UnitOfWork,
	notifier domain.WorkflowNotifier,
) *CreateStatusHandler {
	return &CreateStatusHandler{statusRepo: statusRepo, uow: uow, notifier: notifier}
}

// Handle creates the status, deriving a slug that is unique in the project.
func (h *CreateStatusHandler) Handle(ctx context.Context, cmd CreateStatusCommand) (*CreateStatusResult, error) {
	var (
		result *CreateStatusResult
		err    error
	)
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		result, err = sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*CreateStatusResult, error) {
			existing, err := h.statusRepo.FindByProject(txCtx, cmd.ProjectID)
			if err != nil {
				return nil, err
			}
			catalog, err := domain.NewCatalog(cmd.ProjectID, existing)
			if err != nil {
				return nil, err
			}

			status, err := catalog.Add(cmd.Name, cmd.Color, cmd.Order, cmd.IsCompleted)
			if err != nil {
				return nil, err
			}
			if err := h.statusRepo.Save(txCtx, status); err != nil {
				return nil, err
			}

			return &CreateStatusResult{
				StatusID: status.ID(),
				Name:     status.Name(),
				Slug:     status.Slug(),
				Order:    status.Order(),
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
		domain.NewWorkflowUpdated(cmd.ProjectID, domain.ChangeStatusCreated, cmd.ActorID).ForStatus(result.StatusID))
	return result, nil
}
