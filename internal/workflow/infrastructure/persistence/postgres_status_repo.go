package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

const pgStatusColumns = `id, project_id, name, slug, color, "order", is_completed, created_at, updated_at`

// PostgresStatusRepository implements domain.StatusRepository using PostgreSQL.
type PostgresStatusRepository struct {
	conn database.Connection
}

// NewPostgresStatusRepository creates a new PostgreSQL status repository.
func NewPostgresStatusRepository(conn database.Connection) *PostgresStatusRepository {
	return &PostgresStatusRepository{conn: conn}
}

func (r *PostgresStatusRepository) Save(ctx context.Context, status *domain.Status) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, `
		INSERT INTO statuses (`+pgStatusColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			slug = EXCLUDED.slug,
			color = EXCLUDED.color,
			"order" = EXCLUDED."order",
			is_completed = EXCLUDED.is_completed,
			updated_at = EXCLUDED.updated_at`,
		status.ID(), status.ProjectID(), status.Name(), status.Slug(), status.Color(),
		status.Order(), status.IsCompleted(), status.CreatedAt(), status.UpdatedAt(),
	)
	if err != nil {
		return mapStatusConflict(err)
	}
	return nil
}

func (r *PostgresStatusRepository) FindByID(ctx context.Context, projectID, statusID uuid.UUID) (*domain.Status, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx, `
		SELECT `+pgStatusColumns+`
		FROM statuses
		WHERE project_id = $1 AND id = $2`, projectID, statusID)

	status, err := scanPostgresStatus(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrStatusNotFound
		}
		return nil, err
	}
	return status, nil
}

func (r *PostgresStatusRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Status, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, `
		SELECT `+pgStatusColumns+`
		FROM statuses
		WHERE project_id = $1
		ORDER BY "order", name`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var statuses []*domain.Status
	for rows.Next() {
		status, err := scanPostgresStatus(rows)
		if err != nil {
			return nil, err
		}
		statuses = append(statuses, status)
	}
	return statuses, rows.Err()
}

func (r *PostgresStatusRepository) UpdateOrder(ctx context.Context, projectID, statusID uuid.UUID, order int) (bool, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `
		UPDATE statuses SET "order" = $1, updated_at = NOW()
		WHERE project_id = $2 AND id = $3`, order, projectID, statusID)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresStatusRepository) Delete(ctx context.Context, projectID, statusID uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM statuses WHERE project_id = $1 AND id = $2`, projectID, statusID)
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

func scanPostgresStatus(row database.Row) (*domain.Status, error) {
	var (
		id, projectID        uuid.UUID
		name, slug, color    string
		order                int
		completed            bool
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &projectID, &name, &slug, &color, &order, &completed, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateStatus(id, projectID, name, slug, color, order, completed, createdAt.UTC(), updatedAt.UTC()), nil
}
