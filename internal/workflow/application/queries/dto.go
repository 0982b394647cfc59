package queries

import (
	"time"

	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// StatusDTO is a read model of a status.
type StatusDTO struct {
	ID          uuid.UUID `json:"id"`
	ProjectID   uuid.UUID `json:"project_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Color       string    `json:"color,omitempty"`
	Order       int       `json:"order"`
	IsCompleted bool      `json:"is_completed"`
}

// TransitionDTO is a read model of an edge.
type TransitionDTO struct {
	ID           uuid.UUID `json:"id"`
	FromStatusID uuid.UUID `json:"from_status_id"`
	ToStatusID   uuid.UUID `json:"to_status_id"`
}

// TaskDTO is a read model of a task.
type TaskDTO struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Title     string    `json:"title"`
	StatusID  uuid.UUID `json:"status_id"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HistoryEntryDTO is one logged status change.
type HistoryEntryDTO struct {
	EventID     uuid.UUID `json:"event_id"`
	OldStatusID uuid.UUID `json:"old_status_id"`
	NewStatusID uuid.UUID `json:"new_status_id"`
	ActorID     uuid.UUID `json:"actor_id"`
	ChangedAt   time.Time `json:"changed_at"`
}

func toStatusDTO(s *domain.Status) StatusDTO {
	return StatusDTO{
		ID:          s.ID(),
		ProjectID:   s.ProjectID(),
		Name:        s.Name(),
		Slug:        s.Slug(),
		Color:       s.Color(),
		Order:       s.Order(),
		IsCompleted: s.IsCompleted(),
	}
}

func toStatusDTOs(statuses []*domain.Status) []StatusDTO {
	dtos := make([]StatusDTO, 0, len(statuses))
	for _, s := range statuses {
		dtos = append(dtos, toStatusDTO(s))
	}
	return dtos
}

func toTaskDTO(t *domain.Task) TaskDTO {
	return TaskDTO{
		ID:        t.ID(),
		ProjectID: t.ProjectID(),
		Title:     t.Title(),
		StatusID:  t.StatusID(),
		Version:   t.Version(),
		CreatedAt: t.CreatedAt(),
		UpdatedAt: t.UpdatedAt(),
	}
}
