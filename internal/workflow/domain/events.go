package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/fokus/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	TaskAggregateType     = "Task"
	WorkflowAggregateType = "Workflow"

	RoutingKeyTaskCreated       = "workflow.task.created"
	RoutingKeyTaskStatusChanged = "workflow.task.status_changed"
	RoutingKeyTaskDeleted       = "workflow.task.deleted"
	RoutingKeyWorkflowUpdated   = "workflow.updated"
)

// TaskCreated is raised when a task enters the workflow.
type TaskCreated struct {
	sharedDomain.BaseEvent
	TaskID    uuid.UUID `json:"task_id"`
	ProjectID uuid.UUID `json:"project_id"`
	StatusID  uuid.UUID `json:"status_id"`
	Title     string    `json:"title"`
}

func NewTaskCreated(t *Task) *TaskCreated {
	return &TaskCreated{
		BaseEvent: sharedDomain.NewBaseEvent(t.ID(), TaskAggregateType, RoutingKeyTaskCreated),
		TaskID:    t.ID(),
		ProjectID: t.ProjectID(),
		StatusID:  t.StatusID(),
		Title:     t.Title(),
	}
}

// TaskStatusChanged is raised exactly once per successful status change.
type TaskStatusChanged struct {
	sharedDomain.BaseEvent
	TaskID      uuid.UUID `json:"task_id"`
	ProjectID   uuid.UUID `json:"project_id"`
	OldStatusID uuid.UUID `json:"old_status_id"`
	NewStatusID uuid.UUID `json:"new_status_id"`
	ActorID     uuid.UUID `json:"actor_id"`
	ChangedAt   time.Time `json:"changed_at"`
}

func NewTaskStatusChanged(t *Task, oldStatusID, actorID uuid.UUID, at time.Time) *TaskStatusChanged {
	return &TaskStatusChanged{
		BaseEvent:   sharedDomain.NewBaseEventAt(t.ID(), TaskAggregateType, RoutingKeyTaskStatusChanged, at),
		TaskID:      t.ID(),
		ProjectID:   t.ProjectID(),
		OldStatusID: oldStatusID,
		NewStatusID: t.StatusID(),
		ActorID:     actorID,
		ChangedAt:   at.UTC(),
	}
}

// TaskDeleted is raised when a task leaves the workflow.
type TaskDeleted struct {
	sharedDomain.BaseEvent
	TaskID    uuid.UUID `json:"task_id"`
	ProjectID uuid.UUID `json:"project_id"`
	StatusID  uuid.UUID `json:"status_id"`
}

func NewTaskDeleted(t *Task) *TaskDeleted {
	return &TaskDeleted{
		BaseEvent: sharedDomain.NewBaseEvent(t.ID(), TaskAggregateType, RoutingKeyTaskDeleted),
		TaskID:    t.ID(),
		ProjectID: t.ProjectID(),
		StatusID:  t.StatusID(),
	}
}

// WorkflowChange names what kind of edit raised a WorkflowUpdated.
type WorkflowChange string

const (
	ChangeStatusCreated     WorkflowChange = "status_created"
	ChangeStatusUpdated     WorkflowChange = "status_updated"
	ChangeStatusDeleted     WorkflowChange = "status_deleted"
	ChangeStatusesReordered WorkflowChange = "statuses_reordered"
	ChangeTransitionToggled WorkflowChange = "transition_toggled"
	ChangeTemplateApplied   WorkflowChange = "template_applied"
)

// WorkflowUpdated tells listeners that a project's statuses or edges
// changed. It is a notification, not a durable event.
type WorkflowUpdated struct {
	sharedDomain.BaseEvent
	ProjectID    uuid.UUID      `json:"project_id"`
	Change       WorkflowChange `json:"change"`
	StatusID     *uuid.UUID     `json:"status_id,omitempty"`
	FromStatusID *uuid.UUID     `json:"from_status_id,omitempty"`
	ToStatusID   *uuid.UUID     `json:"to_status_id,omitempty"`
	EdgeState    EdgeState      `json:"edge_state,omitempty"`
	ActorID      uuid.UUID      `json:"actor_id"`
}

func NewWorkflowUpdated(projectID uuid.UUID, change WorkflowChange, actorID uuid.UUID) *WorkflowUpdated {
	return &WorkflowUpdated{
		BaseEvent: sharedDomain.NewBaseEvent(projectID, WorkflowAggregateType, RoutingKeyWorkflowUpdated),
		ProjectID: projectID,
		Change:    change,
		ActorID:   actorID,
	}
}

// ForStatus sets the status the change applies to.
func (e *WorkflowUpdated) ForStatus(statusID uuid.UUID) *WorkflowUpdated {
	e.StatusID = &statusID
	return e
}

// ForEdge sets the toggled edge and its new state.
func (e *WorkflowUpdated) ForEdge(from, to uuid.UUID, state EdgeState) *WorkflowUpdated {
	e.FromStatusID = &from
	e.ToStatusID = &to
	e.EdgeState = state
	return e
}
