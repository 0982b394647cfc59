package queries

import (
	"context"

	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// GetTaskQuery selects one task.
type GetTaskQuery struct {
	TaskID uuid.UUID
}

// GetTaskHandler handles GetTaskQuery.
type GetTaskHandler struct {
	taskRepo domain.TaskRepository
}

// NewGetTaskHandler creates a new GetTaskHandler.
func NewGetTaskHandler(taskRepo domain.TaskRepository) *GetTaskHandler {
	return &GetTaskHandler{taskRepo: taskRepo}
}

func (h *GetTaskHandler) Handle(ctx context.Context, query GetTaskQuery) (*TaskDTO, error) {
	task, err := h.taskRepo.FindByID(ctx, query.TaskID)
	if err != nil {
		return nil, err
	}
	dto := toTaskDTO(task)
	return &dto, nil
}

// ListTasksQuery selects a project's tasks, optionally in one status.
type ListTasksQuery struct {
	ProjectID uuid.UUID
	StatusID  *uuid.UUID
}

// ListTasksHandler handles ListTasksQuery.
type ListTasksHandler struct {
	taskRepo domain.TaskRepository
}

// NewListTasksHandler creates a new ListTasksHandler.
func NewListTasksHandler(taskRepo domain.TaskRepository) *ListTasksHandler {
	return &ListTasksHandler{taskRepo: taskRepo}
}

func (h *ListTasksHandler) Handle(ctx context.Context, query ListTasksQuery) ([]TaskDTO, error) {
	tasks, err := h.taskRepo.Find(ctx, domain.TaskFilter{ProjectID: query.ProjectID, StatusID: query.StatusID})
	if err != nil {
		return nil, err
	}
	dtos := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		dtos = append(dtos, toTaskDTO(t))
	}
	return dtos, nil
}

// AllowedTargetsQuery asks where a task may be dropped.
type AllowedTargetsQuery struct {
	TaskID uuid.UUID
}

// AllowedTargetsResult lists the current status and every status one edge away.
type AllowedTargetsResult struct {
	TaskID          uuid.UUID   `json:"task_id"`
	CurrentStatusID uuid.UUID   `json:"current_status_id"`
	Targets         []StatusDTO `json:"targets"`
}

// AllowedTargetsHandler handles AllowedTargetsQuery.
type AllowedTargetsHandler struct {
	taskRepo       domain.TaskRepository
	statusRepo     domain.StatusRepository
	transitionRepo domain.TransitionRepository
}

// NewAllowedTargetsHandler creates a new AllowedTargetsHandler.
func NewAllowedTargetsHandler(
	taskRepo domain.TaskRepository,
	statusRepo domain.StatusRepository,
	transitionRepo domain.TransitionRepository,
) *AllowedTargetsHandler {
	return &AllowedTargetsHandler{taskRepo: taskRepo, statusRepo: statusRepo, transitionRepo: transitionRepo}
}

func (h *AllowedTargetsHandler) Handle(ctx context.Context, query AllowedTargetsQuery) (*AllowedTargetsResult, error) {
	task, err := h.taskRepo.FindByID(ctx, query.TaskID)
	if err != nil {
		return nil, err
	}
	statuses, err := h.statusRepo.FindByProject(ctx, task.ProjectID())
	if err != nil {
		return nil, err
	}
	edges, err := h.transitionRepo.FindByProject(ctx, task.ProjectID())
	if err != nil {
		return nil, err
	}

	graph := domain.NewGraph(edges)
	var targets []*domain.Status
	for _, s := range statuses {
		if s.ID() == task.StatusID() || graph.Allows(task.StatusID(), s.ID()) {
			targets = append(targets, s)
		}
	}
	domain.SortStatuses(targets)

	return &AllowedTargetsResult{
		TaskID:          task.ID(),
		CurrentStatusID: task.StatusID(),
		Targets:         toStatusDTOs(targets),
	}, nil
}

// TaskHistoryQuery selects a task's activity log.
type TaskHistoryQuery struct {
	TaskID uuid.UUID
}

// TaskHistoryHandler handles TaskHistoryQuery.
type TaskHistoryHandler struct {
	historyRepo domain.HistoryRepository
}

// NewTaskHistoryHandler creates a new TaskHistoryHandler.
func NewTaskHistoryHandler(historyRepo domain.HistoryRepository) *TaskHistoryHandler {
	return &TaskHistoryHandler{historyRepo: historyRepo}
}

// Handle returns the log oldest first. Entries outlive deleted tasks.
func (h *TaskHistoryHandler) Handle(ctx context.Context, query TaskHistoryQuery) ([]HistoryEntryDTO, error) {
	entries, err := h.historyRepo.FindByTask(ctx, query.TaskID)
	if err != nil {
		return nil, err
	}
	dtos := make([]HistoryEntryDTO, 0, len(entries))
	for _, e := range entries {
		dtos = append(dtos, HistoryEntryDTO{
			EventID:     e.EventID,
			OldStatusID: e.OldStatusID,
			NewStatusID: e.NewStatusID,
			ActorID:     e.ActorID,
			ChangedAt:   e.ChangedAt,
		})
	}
	return dtos, nil
}
