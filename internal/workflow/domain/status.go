package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/fokus/internal/shared/domain"
	"github.com/google/uuid"
)

// Status is one column of a project's board.
type Status struct {
	sharedDomain.BaseEntity
	projectID   uuid.UUID
	name        string
	slug        string
	color       string
	order       int
	isCompleted bool
}

func newStatus(projectID uuid.UUID, name, slug, color string, order int, isCompleted bool) *Status {
	return &Status{
		BaseEntity:  sharedDomain.NewBaseEntity(),
		projectID:   projectID,
		name:        name,
		slug:        slug,
		color:       strings.TrimSpace(color),
		order:       order,
		isCompleted: isCompleted,
	}
}

// RehydrateStatus rebuilds a status from storage.
func RehydrateStatus(
	id, projectID uuid.UUID,
	name, slug, color string,
	order int,
	isCompleted bool,
	createdAt, updatedAt time.Time,
) *Status {
	return &Status{
		BaseEntity:  sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		projectID:   projectID,
		name:        name,
		slug:        slug,
		color:       color,
		order:       order,
		isCompleted: isCompleted,
	}
}

func (s *Status) ProjectID() uuid.UUID { return s.projectID }
func (s *Status) Name() string         { return s.name }
func (s *Status) Slug() string         { return s.slug }
func (s *Status) Color() string        { return s.color }
func (s *Status) Order() int           { return s.order }

// IsCompleted marks statuses counted as done in reports. It does not make
// the status terminal.
func (s *Status) IsCompleted() bool { return s.isCompleted }

// SetOrder moves the status on the board.
func (s *Status) SetOrder(order int) {
	if s.order == order {
		return
	}
	s.order = order
	s.Touch()
}

func (s *Status) SetColor(color string) {
	s.color = strings.TrimSpace(color)
	s.Touch()
}

func (s *Status) SetCompleted(completed bool) {
	s.isCompleted = completed
	s.Touch()
}

func (s *Status) rename(name, slug string) {
	s.name = name
	s.slug = slug
	s.Touch()
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyStatusName
	}
	return name, nil
}
