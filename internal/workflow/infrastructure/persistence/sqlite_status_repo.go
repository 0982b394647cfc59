package persistence

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

const sqliteStatusColumns = `id, project_id, name, slug, color, "order", is_completed, created_at, updated_at`

// SQLiteStatusRepository implements domain.StatusRepository using SQLite.
type SQLiteStatusRepository struct {
	conn database.Connection
}

// NewSQLiteStatusRepository creates a new SQLite status repository.
func NewSQLiteStatusRepository(conn database.Connection) *SQLiteStatusRepository {
	return &SQLiteStatusRepository{conn: conn}
}

// Save inserts or updates a status.
func (r *SQLiteStatusRepository) Save(ctx context.Context, status *domain.Status) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, `
		INSERT INTO statuses (`+sqliteStatusColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			slug = excluded.slug,
			color = excluded.color,
			"order" = excluded."order",
			is_completed = excluded.is_completed,
			updated_at = excluded.updated_at`,
		status.ID().String(), status.ProjectID().String(), status.Name(), status.Slug(), status.Color(),
		status.Order(), boolToInt(status.IsCompleted()),
		sqlite.FormatTime(status.CreatedAt()), sqlite.FormatTime(status.UpdatedAt()),
	)
	if err != nil {
		return mapStatusConflict(err)
	}
	return nil
}

// FindByID retrieves a status of the project.
func (r *SQLiteStatusRepository) FindByID(ctx context.Context, projectID, statusID uuid.UUID) (*domain.Status, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx, `
		SELECT `+sqliteStatusColumns+`
		FROM statuses
		WHERE project_id = ? AND id = ?`, projectID.String(), statusID.String())

	status, err := scanSQLiteStatus(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrStatusNotFound
		}
		return nil, err
	}
	return status, nil
}

// FindByProject lists the statuses of a project in board order.
func (r *SQLiteStatusRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Status, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, `
		SELECT `+sqliteStatusColumns+`
		FROM statuses
		WHERE project_id = ?
		ORDER BY "order", name`, projectID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []*domain.Status
	for rows.Next() {
		status, err := scanSQLiteStatus(rows)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, rows.Err()
}

// UpdateOrder sets the order of a status if it belongs to the project.
func (r *SQLiteStatusRepository) UpdateOrder(ctx context.Context, projectID, statusID uuid.UUID, order int) (bool, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `
		UPDATE statuses SET "order" = ?, updated_at = ?
		WHERE project_id = ? AND id = ?`,
		order, sqlite.FormatTime(nowUTC()), projectID.String(), statusID.String())
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete removes a status. Edges touching it go with it.
func (r *SQLiteStatusRepository) Delete(ctx context.Context, projectID, statusID uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM statuses WHERE project_id = ? AND id = ?`,
		projectID.String(), statusID.String())
	if err != nil {
		return fmt.Errorf("failed to delete status %s: %w", statusID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrStatusNotFound
	}
	return nil
}

func scanSQLiteStatus(row database.Row) (*domain.Status, error) {
	var (
		id, projectID, name, slug, color string
		order, completed                 int
		createdAt, updatedAt             string
	)
	if err := row.Scan(&id, &projectID, &name, &slug, &color, &order, &completed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	pid, err := uuid.Parse(projectID)
	if err != nil {
		return nil, err
	}
	created, err := sqlite.ParseTime(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := sqlite.ParseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	return domain.RehydrateStatus(sid, pid, name, slug, color, order, completed != 0, created, updated), nil
}
