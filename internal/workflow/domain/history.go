package domain

import (
	"time"

	"github.com/google/uuid"
)

// StatusChange is one entry of a task's activity log.
type StatusChange struct {
	EventID     uuid.UUID
	TaskID      uuid.UUID
	ProjectID   uuid.UUID
	OldStatusID uuid.UUID
	NewStatusID uuid.UUID
	ActorID     uuid.UUID
	ChangedAt   time.Time
}

// StatusChangeFromEvent converts the event payload into a log entry.
func StatusChangeFromEvent(eventID uuid.UUID, e TaskStatusChanged) StatusChange {
	return StatusChange{
		EventID:     eventID,
		TaskID:      e.TaskID,
		ProjectID:   e.ProjectID,
		OldStatusID: e.OldStatusID,
		NewStatusID: e.NewStatusID,
		ActorID:     e.ActorID,
		ChangedAt:   e.ChangedAt,
	}
}
