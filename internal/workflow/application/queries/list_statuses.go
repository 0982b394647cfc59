package queries

import (
	"context"

	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// ListStatusesQuery selects a project's catalog.
type ListStatusesQuery struct {
	ProjectID uuid.UUID
}

// ListStatusesHandler handles ListStatusesQuery.
type ListStatusesHandler struct {
	statusRepo domain.StatusRepository
}

// NewListStatusesHandler creates a new ListStatusesHandler.
func NewListStatusesHandler(statusRepo domain.StatusRepository) *ListStatusesHandler {
	return &ListStatusesHandler{statusRepo: statusRepo}
}

// Handle returns the statuses by ascending order, ties broken by name. An
// unknown project yields an empty list.
func (h *ListStatusesHandler) Handle(ctx context.Context, query ListStatusesQuery) ([]StatusDTO, error) {
	statuses, err := h.statusRepo.FindByProject(ctx, query.ProjectID)
	if err != nil {
		return nil, err
	}
	domain.SortStatuses(statuses)
	return toStatusDTOs(statuses), nil
}
