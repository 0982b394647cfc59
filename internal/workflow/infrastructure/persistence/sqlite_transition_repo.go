package persistence

import (
	"context"

	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// SQLiteTransitionRepository implements domain.TransitionRepository using SQLite.
type SQLiteTransitionRepository struct {
	conn database.Connection
}

// NewSQLiteTransitionRepository creates a new SQLite transition repository.
func NewSQLiteTransitionRepository(conn database.Connection) *SQLiteTransitionRepository {
	return &SQLiteTransitionRepository{conn: conn}
}

// Exists is an exact directed lookup.
func (r *SQLiteTransitionRepository) Exists(ctx context.Context, projectID, from, to uuid.UUID) (bool, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	var n int
	err := exec.QueryRow(ctx, `
		SELECT COUNT(1) FROM status_transitions
		WHERE project_id = ? AND from_status_id = ? AND to_status_id = ?`,
		projectID.String(), from.String(), to.String()).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// FindByProject lists every edge of the project.
func (r *SQLiteTransitionRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Transition, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, `
		SELECT id, project_id, from_status_id, to_status_id, created_at
		FROM status_transitions
		WHERE project_id = ?
		ORDER BY created_at, id`, projectID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []*domain.Transition
	for rows.Next() {
		var id, pid, from, to, createdAt string
		if err := rows.Scan(&id, &pid, &from, &to, &createdAt); err != nil {
			return nil, err
		}
		edge, err := rehydrateSQLiteTransition(id, pid, from, to, createdAt)
		if err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}
	return edges, rows.Err()
}

// Create inserts an edge. An existing edge is left untouched and reported
// as not created.
func (r *SQLiteTransitionRepository) Create(ctx context.Context, t *domain.Transition) (bool, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `
		INSERT INTO status_transitions (id, project_id, from_status_id, to_status_id, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (project_id, from_status_id, to_status_id) DO NOTHING`,
		t.ID().String(), t.ProjectID().String(), t.FromStatusID().String(), t.ToStatusID().String(),
		sqlite.FormatTime(t.CreatedAt()))
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

// Delete removes one directed edge.
func (r *SQLiteTransitionRepository) Delete(ctx context.Context, projectID, from, to uuid.UUID) (bool, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `
		DELETE FROM status_transitions
		WHERE project_id = ? AND from_status_id = ? AND to_status_id = ?`,
		projectID.String(), from.String(), to.String())
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteByStatus removes every edge touching statusID.
func (r *SQLiteTransitionRepository) DeleteByStatus(ctx context.Context, projectID, statusID uuid.UUID) (int64, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `
		DELETE FROM status_transitions
		WHERE project_id = ? AND (from_status_id = ? OR to_status_id = ?)`,
		projectID.String(), statusID.String(), statusID.String())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func rehydrateSQLiteTransition(id, projectID, from, to, createdAt string) (*domain.Transition, error) {
	tid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	pid, err := uuid.Parse(projectID)
	if err != nil {
		return nil, err
	}
	fid, err := uuid.Parse(from)
	if err != nil {
		return nil, err
	}
	toID, err := uuid.Parse(to)
	if err != nil {
		return nil, err
	}
	created, err := sqlite.ParseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateTransition(tid, pid, fid, toID, created), nil
}
