package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/fokus/internal/shared/domain"
	"github.com/google/uuid"
)

// Task is the part of a task the workflow cares about: which status it is in.
type Task struct {
	sharedDomain.BaseAggregateRoot
	projectID uuid.UUID
	title     string
	statusID  uuid.UUID
}

// NewTask places a new task in status.
func NewTask(title string, status *Status) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTaskTitle
	}
	if status == nil {
		return nil, ErrStatusNotFound
	}

	t := &Task{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		projectID:         status.ProjectID(),
		title:             title,
		statusID:          status.ID(),
	}
	t.AddDomainEvent(NewTaskCreated(t))
	return t, nil
}

// RehydrateTask rebuilds a task from storage.
func RehydrateTask(id, projectID uuid.UUID, title string, statusID uuid.UUID, version int, createdAt, updatedAt time.Time) *Task {
	return &Task{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(
			sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt), version),
		projectID: projectID,
		title:     title,
		statusID:  statusID,
	}
}

func (t *Task) ProjectID() uuid.UUID { return t.projectID }
func (t *Task) Title() string        { return t.title }
func (t *Task) StatusID() uuid.UUID  { return t.statusID }

// ChangeStatus moves the task to target. allowed is the graph's verdict for
// the current status and target. Moving to the current status succeeds
// without any change, whatever the graph says. It reports whether the task
// changed.
func (t *Task) ChangeStatus(target *Status, allowed bool, actorID uuid.UUID) (bool, error) {
	if target == nil || target.ProjectID() != t.projectID {
		return false, ErrStatusNotFound
	}
	if target.ID() == t.statusID {
		return false, nil
	}
	if !allowed {
		return false, &IllegalTransitionError{From: t.statusID, To: target.ID()}
	}

	old := t.statusID
	t.statusID = target.ID()
	t.Touch()
	t.AddDomainEvent(NewTaskStatusChanged(t, old, actorID, t.UpdatedAt()))
	return true, nil
}

// MarkDeleted records the deletion event before the repository removes the task.
func (t *Task) MarkDeleted() {
	t.AddDomainEvent(NewTaskDeleted(t))
}
