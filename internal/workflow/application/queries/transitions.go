package queries

import (
	"context"

	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// ListTransitionsQuery selects a project's edge set.
type ListTransitionsQuery struct {
	ProjectID uuid.UUID
}

// ListTransitionsHandler handles ListTransitionsQuery.
type ListTransitionsHandler struct {
	transitionRepo domain.TransitionRepository
}

// NewListTransitionsHandler creates a new ListTransitionsHandler.
func NewListTransitionsHandler(transitionRepo domain.TransitionRepository) *ListTransitionsHandler {
	return &ListTransitionsHandler{transitionRepo: transitionRepo}
}

func (h *ListTransitionsHandler) Handle(ctx context.Context, query ListTransitionsQuery) ([]TransitionDTO, error) {
	edges, err := h.transitionRepo.FindByProject(ctx, query.ProjectID)
	if err != nil {
		return nil, err
	}
	dtos := make([]TransitionDTO, 0, len(edges))
	for _, e := range edges {
		dtos = append(dtos, TransitionDTO{ID: e.ID(), FromStatusID: e.FromStatusID(), ToStatusID: e.ToStatusID()})
	}
	return dtos, nil
}

// CheckTransitionQuery asks whether one directed move is allowed.
type CheckTransitionQuery struct {
	ProjectID    uuid.UUID
	FromStatusID uuid.UUID
	ToStatusID   uuid.UUID
}

// CheckTransitionHandler handles CheckTransitionQuery.
type CheckTransitionHandler struct {
	transitionRepo domain.TransitionRepository
}

// NewCheckTransitionHandler creates a new CheckTransitionHandler.
func NewCheckTransitionHandler(transitionRepo domain.TransitionRepository) *CheckTransitionHandler {
	return &CheckTransitionHandler{transitionRepo: transitionRepo}
}

// Handle is an exact match on the ordered triple.
func (h *CheckTransitionHandler) Handle(ctx context.Context, query CheckTransitionQuery) (bool, error) {
	return h.transitionRepo.Exists(ctx, query.ProjectID, query.FromStatusID, query.ToStatusID)
}
