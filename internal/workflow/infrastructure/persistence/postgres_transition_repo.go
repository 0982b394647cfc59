package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// PostgresTransitionRepository implements domain.TransitionRepository using PostgreSQL.
type PostgresTransitionRepository struct {
	conn database.Connection
}

// NewPostgresTransitionRepository creates a new PostgreSQL transition repository.
func NewPostgresTransitionRepository(conn database.Connection) *PostgresTransitionRepository {
	return &PostgresTransitionRepository{conn: conn}
}

func (r *PostgresTransitionRepository) Exists(ctx context.Context, projectID, from, to uuid.UUID) (bool, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	var exists bool
	err := exec.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM status_transitions
			WHERE project_id = $1 AND from_status_id = $2 AND to_status_id = $3
		)`, projectID, from, to).Scan(&exists)
	return exists, err
}

func (r *PostgresTransitionRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Transition, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, `
		SELECT id, project_id, from_status_id, to_status_id, created_at
		FROM status_transitions
		WHERE project_id = $1
		ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []*domain.Transition
	for rows.Next() {
		var (
			id, pid, from, to uuid.UUID
			createdAt         time.Time
		)
		if err := rows.Scan(&id, &pid, &from, &to, &createdAt); err != nil {
			return nil, err
		}
		edges = append(edges, domain.RehydrateTransition(id, pid, from, to, createdAt.UTC()))
	}
	return edges, rows.Err()
}

// Create inserts an edge. ON CONFLICT keeps a duplicate from aborting the
// surrounding transaction.
func (r *PostgresTransitionRepository) Create(ctx context.Context, t *domain.Transition) (bool, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `
		INSERT INTO status_transitions (id, project_id, from_status_id, to_status_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT status_transitions_edge_key DO NOTHING`,
		t.ID(), t.ProjectID(), t.FromStatusID(), t.ToStatusID(), t.CreatedAt())
	if err != nil {
		if database.IsUniqueViolation(err) {
			return false, nil
		}
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresTransitionRepository) Delete(ctx context.Context, projectID, from, to uuid.UUID) (bool, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `
		DELETE FROM status_transitions
		WHERE project_id = $1 AND from_status_id = $2 AND to_status_id = $3`, projectID, from, to)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresTransitionRepository) DeleteByStatus(ctx context.Context, projectID, statusID uuid.UUID) (int64, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `
		DELETE FROM status_transitions
		WHERE project_id = $1 AND (from_status_id = $2 OR to_status_id = $2)`, projectID, statusID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
