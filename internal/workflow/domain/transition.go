package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/fokus/internal/shared/domain"
	"github.com/google/uuid"
)

// EdgeState is the outcome of toggling an edge.
type EdgeState string

const (
	EdgeAdded   EdgeState = "added"
	EdgeRemoved EdgeState = "removed"
)

// Transition is a directed edge: tasks in From may move to To.
type Transition struct {
	sharedDomain.BaseEntity
	projectID    uuid.UUID
	fromStatusID uuid.UUID
	toStatusID   uuid.UUID
}

// NewTransition validates and creates an edge. Self-loops are rejected
// because staying in place never needs permission.
func NewTransition(projectID, fromStatusID, toStatusID uuid.UUID) (*Transition, error) {
	if projectID == uuid.Nil {
		return nil, ErrInvalidProject
	}
	if fromStatusID == uuid.Nil || toStatusID == uuid.Nil {
		return nil, ErrStatusNotFound
	}
	if fromStatusID == toStatusID {
		return nil, ErrSelfLoop
	}
	return &Transition{
		BaseEntity:   sharedDomain.NewBaseEntity(),
		projectID:    projectID,
		fromStatusID: fromStatusID,
		toStatusID:   toStatusID,
	}, nil
}

// RehydrateTransition rebuilds an edge from storage.
func RehydrateTransition(id, projectID, fromStatusID, toStatusID uuid.UUID, createdAt time.Time) *Transition {
	return &Transition{
		BaseEntity:   sharedDomain.RehydrateBaseEntity(id, createdAt, createdAt),
		projectID:    projectID,
		fromStatusID: fromStatusID,
		toStatusID:   toStatusID,
	}
}

func (t *Transition) ProjectID() uuid.UUID    { return t.projectID }
func (t *Transition) FromStatusID() uuid.UUID { return t.fromStatusID }
func (t *Transition) ToStatusID() uuid.UUID   { return t.toStatusID }

// Touches reports whether statusID is either endpoint.
func (t *Transition) Touches(statusID uuid.UUID) bool {
	return t.fromStatusID == statusID || t.toStatusID == statusID
}
