package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/fokus/internal/shared/application"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// ReorderStatusesCommand assigns new board positions.
type ReorderStatusesCommand struct {
	ProjectID uuid.UUID
	Changes   []domain.OrderChange
	// Strict rejects the whole call when any entry names a status outside
	// the project. The handler default applies when false.
	Strict  bool
	ActorID uuid.UUID
}

// ReorderStatusesHandler handles ReorderStatusesCommand.
type ReorderStatusesHandler struct {
	statusRepo domain.StatusRepository
	uow        sharedApplication.UnitOfWork
	notifier   domain.WorkflowNotifier
	strict     bool
}

// NewReorderStatusesHandler creates a new ReorderStatusesHandler. strict
// sets the default mode for every call.
func NewReorderStatusesHandler(
	statusRepo domain.StatusRepository,
	uow sharedApplication.UnitOfWork,
	notifier domain.WorkflowNotifier,
	strict bool,
) *ReorderStatusesHandler {
	return &ReorderStatusesHandler{statusRepo: statusRepo, uow: uow, notifier: notifier, strict: strict}
}

// Handle applies each change independently. In lenient mode a change for a
// foreign status is skipped and reported in the result.
func (h *ReorderStatusesHandler) Handle(ctx context.Context, cmd ReorderStatusesCommand) (*domain.ReorderResult, error) {
	strict := h.strict || cmd.Strict

	result, err := sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*domain.ReorderResult, error) {
		if strict {
			if err := h.requireAll(txCtx, cmd); err != nil {
				return nil, err
			}
		}

		result := &domain.ReorderResult{}
		for _, change := range cmd.Changes {
			applied, err := h.statusRepo.UpdateOrder(txCtx, cmd.ProjectID, change.StatusID, change.Order)
			if err != nil {
				return nil, err
			}
			if applied {
				result.Applied = append(result.Applied, change.StatusID)
			} else {
				result.Skipped = append(result.Skipped, change.StatusID)
			}
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.Applied) > 0 {
		h.notifier.NotifyWorkflowUpdated(ctx,
			domain.NewWorkflowUpdated(cmd.ProjectID, domain.ChangeStatusesReordered, cmd.ActorID))
	}
	return result, nil
}

func (h *ReorderStatusesHandler) requireAll(ctx context.Context, cmd ReorderStatusesCommand) error {
	statuses, err := h.statusRepo.FindByProject(ctx, cmd.ProjectID)
	if err != nil {
		return err
	}
	catalog, err := domain.NewCatalog(cmd.ProjectID, statuses)
	if err != nil {
		return err
	}
	for _, change := range cmd.Changes {
		if _, ok := catalog.Find(change.StatusID); !ok {
			return domain.ErrStatusNotFound
		}
	}
	return nil
}
