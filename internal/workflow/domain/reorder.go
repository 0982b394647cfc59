package domain

import "github.com/google/uuid"

// OrderChange moves one status to a new board position.
type OrderChange struct {
	StatusID uuid.UUID
	Order    int
}

// ReorderResult reports which entries were applied and which were skipped
// because the status is not part of the project.
type ReorderResult struct {
	Applied []uuid.UUID
	Skipped []uuid.UUID
}
