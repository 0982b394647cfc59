package queries

import (
	"context"

	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// WorkflowOverviewQuery selects a project's workflow summary.
type WorkflowOverviewQuery struct {
	ProjectID uuid.UUID
}

// StatusNodeDTO is a status with its edges.
type StatusNodeDTO struct {
	StatusDTO
	Outgoing []uuid.UUID `json:"outgoing"`
	Incoming []uuid.UUID `json:"incoming"`
}

// WorkflowOverviewDTO summarizes the graph of a project.
type WorkflowOverviewDTO struct {
	ProjectID           uuid.UUID       `json:"project_id"`
	Statuses            []StatusNodeDTO `json:"statuses"`
	EntryStatusID       *uuid.UUID      `json:"entry_status_id,omitempty"`
	Unreachable         []uuid.UUID     `json:"unreachable"`
	DeadEnds            []uuid.UUID     `json:"dead_ends"`
	CompletionReachable bool            `json:"completion_reachable"`
	EdgeCount           int             `json:"edge_count"`
}

// WorkflowOverviewHandler handles WorkflowOverviewQuery.
type WorkflowOverviewHandler struct {
	statusRepo     domain.StatusRepository
	transitionRepo domain.TransitionRepository
}

// NewWorkflowOverviewHandler creates a new WorkflowOverviewHandler.
func NewWorkflowOverviewHandler(statusRepo domain.StatusRepository, transitionRepo domain.TransitionRepository) *WorkflowOverviewHandler {
	return &WorkflowOverviewHandler{statusRepo: statusRepo, transitionRepo: transitionRepo}
}

func (h *WorkflowOverviewHandler) Handle(ctx context.Context, query WorkflowOverviewQuery) (*WorkflowOverviewDTO, error) {
	statuses, err := h.statusRepo.FindByProject(ctx, query.ProjectID)
	if err != nil {
		return nil, err
	}
	edges, err := h.transitionRepo.FindByProject(ctx, query.ProjectID)
	if err != nil {
		return nil, err
	}

	overview := domain.Analyze(query.ProjectID, statuses, edges)
	dto := &WorkflowOverviewDTO{
		ProjectID:           overview.ProjectID,
		Statuses:            make([]StatusNodeDTO, 0, len(overview.Nodes)),
		Unreachable:         nonNil(overview.Unreachable),
		DeadEnds:            nonNil(overview.DeadEnds),
		CompletionReachable: overview.CompletionReachable,
		EdgeCount:           overview.EdgeCount,
	}
	if overview.EntryID != uuid.Nil {
		entry := overview.EntryID
		dto.EntryStatusID = &entry
	}
	for _, n := range overview.Nodes {
		dto.Statuses = append(dto.Statuses, StatusNodeDTO{
			StatusDTO: toStatusDTO(n.Status),
			Outgoing:  nonNil(n.Outgoing),
			Incoming:  nonNil(n.Incoming),
		})
	}
	return dto, nil
}

func nonNil(ids []uuid.UUID) []uuid.UUID {
	if ids == nil {
		return []uuid.UUID{}
	}
	return ids
}
