package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrStatusNotFound      = errors.New("status not found")
	ErrDuplicateStatusName = errors.New("a status with this name already exists in the project")
	ErrStatusInUse         = errors.New("status is still assigned to tasks")
	ErrIllegalTransition   = errors.New("transition is not allowed")
	ErrSelfLoop            = errors.New("a transition cannot start and end at the same status")
	ErrTaskNotFound        = errors.New("task not found")
	ErrEmptyStatusName     = errors.New("status name cannot be empty")
	ErrEmptyTaskTitle      = errors.New("task title cannot be empty")
	ErrInvalidProject      = errors.New("project id is required")
	ErrWorkflowNotEmpty    = errors.New("project already has a workflow")
	ErrInvalidBlueprint    = errors.New("invalid workflow blueprint")

	// ErrSlugTaken is raised by repositories when a concurrent writer took
	// the derived slug first. Callers re-derive and retry.
	ErrSlugTaken = errors.New("status slug already taken")
)

// IllegalTransitionError reports a status change with no matching edge.
type IllegalTransitionError struct {
	From uuid.UUID
	To   uuid.UUID
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("transition from status %s to status %s is not allowed", e.From, e.To)
}

// Is lets errors.Is match ErrIllegalTransition.
func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}
