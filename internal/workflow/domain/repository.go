package domain

import (
	"context"

	"github.com/google/uuid"
)

// StatusRepository persists statuses. Lookups are always scoped to a
// project so a status ID from another project behaves as missing.
type StatusRepository interface {
	// Save inserts or updates a status. Name collisions yield
	// ErrDuplicateStatusName and slug collisions ErrSlugTaken.
	Save(ctx context.Context, status *Status) error
	FindByID(ctx context.Context, projectID, statusID uuid.UUID) (*Status, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]*Status, error)
	// UpdateOrder reports false when the status is not in the project.
	UpdateOrder(ctx context.Context, projectID, statusID uuid.UUID, order int) (bool, error)
	Delete(ctx context.Context, projectID, statusID uuid.UUID) error
}

// TransitionRepository persists edges.
type TransitionRepository interface {
	Exists(ctx context.Context, projectID, fromStatusID, toStatusID uuid.UUID) (bool, error)
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]*Transition, error)
	// Create reports false when the edge already existed; the unique
	// constraint violation is swallowed.
	Create(ctx context.Context, transition *Transition) (bool, error)
	// Delete reports whether an edge was removed.
	Delete(ctx context.Context, projectID, fromStatusID, toStatusID uuid.UUID) (bool, error)
	DeleteByStatus(ctx context.Context, projectID, statusID uuid.UUID) (int64, error)
}

// TaskFilter narrows ListTasks.
type TaskFilter struct {
	ProjectID uuid.UUID
	StatusID  *uuid.UUID
}

// TaskRepository persists tasks with optimistic versioning.
type TaskRepository interface {
	// Save inserts a new task or updates one at its loaded version.
	// A stale version yields shared domain ErrConcurrentModification.
	Save(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, taskID uuid.UUID) (*Task, error)
	Find(ctx context.Context, filter TaskFilter) ([]*Task, error)
	CountByStatus(ctx context.Context, projectID, statusID uuid.UUID) (int, error)
	Delete(ctx context.Context, taskID uuid.UUID) error
}

// HistoryRepository stores the activity log of status changes.
type HistoryRepository interface {
	// Append is idempotent on the entry's event ID.
	Append(ctx context.Context, entry StatusChange) error
	FindByTask(ctx context.Context, taskID uuid.UUID) ([]StatusChange, error)
}
