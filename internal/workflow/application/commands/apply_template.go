package commands

import (
	"context"
	"strings"

	sharedApplication "github.com/felixgeelhaar/fokus/internal/shared/application"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// ApplyTemplateCommand seeds an empty project from a blueprint.
type ApplyTemplateCommand struct {
	ProjectID uuid.UUID
	Blueprint domain.Blueprint
	ActorID   uuid.UUID
}

// ApplyTemplateResult reports what was created.
type ApplyTemplateResult struct {
	Template  string
	StatusIDs map[string]uuid.UUID
	EdgeCount int
}

// ApplyTemplateHandler handles ApplyTemplateCommand.
type ApplyTemplateHandler struct {
	statusRepo     domain.StatusRepository
	transitionRepo domain.TransitionRepository
	uow            sharedApplication.UnitOfWork
	notifier       domain.WorkflowNotifier
}

// NewApplyTemplateHandler creates a new ApplyTemplateHandler.
func NewApplyTemplateHandler(
	statusRepo domain.StatusRepository,
	transitionRepo domain.TransitionRepository,
	uow sharedApplication.UnitOfWork,
	notifier domain.WorkflowNotifier,
) *ApplyTemplateHandler {
	return &ApplyTemplateHandler{
		statusRepo:     statusRepo,
		transitionRepo: transitionRepo,
		uow:            uow,
		notifier:       notifier,
	}
}

// Handle fails with ErrWorkflowNotEmpty when the project has statuses.
// Statuses are ordered as the blueprint lists them.
func (h *ApplyTemplateHandler) Handle(ctx context.Context, cmd ApplyTemplateCommand) (*ApplyTemplateResult, error) {
	if err := cmd.Blueprint.Validate(); err != nil {
		return nil, err
	}

	result, err := sharedApplication.WithUnitOfWorkResult(ctx, h.uow, func(txCtx context.Context) (*ApplyTemplateResult, error) {
		existing, err := h.statusRepo.FindByProject(txCtx, cmd.ProjectID)
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			return nil, domain.ErrWorkflowNotEmpty
		}
		catalog, err := domain.NewCatalog(cmd.ProjectID, nil)
		if err != nil {
			return nil, err
		}

		result := &ApplyTemplateResult{
			Template:  cmd.Blueprint.Name,
			StatusIDs: make(map[string]uuid.UUID, len(cmd.Blueprint.Statuses)),
		}
		for i, bs := range cmd.Blueprint.Statuses {
			status, err := catalog.Add(bs.Name, bs.Color, i, bs.Completed)
			if err != nil {
				return nil, err
			}
			if err := h.statusRepo.Save(txCtx, status); err != nil {
				return nil, err
			}
			result.StatusIDs[status.Name()] = status.ID()
		}

		for _, bt := range cmd.Blueprint.Transitions {
			edge, err := domain.NewTransition(cmd.ProjectID,
				result.StatusIDs[strings.TrimSpace(bt.From)], result.StatusIDs[strings.TrimSpace(bt.To)])
			if err != nil {
				return nil, err
			}
			created, err := h.transitionRepo.Create(txCtx, edge)
			if err != nil {
				return nil, err
			}
			if created {
				result.EdgeCount++
			}
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}

	h.notifier.NotifyWorkflowUpdated(ctx,
		domain.NewWorkflowUpdated(cmd.ProjectID, domain.ChangeTemplateApplied, cmd.ActorID))
	return result, nil
}
