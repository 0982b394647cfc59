package persistence

import (
	"context"
	"fmt"
	"time"

	sharedDomain "github.com/felixgeelhaar/fokus/internal/shared/domain"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// PostgresTaskRepository implements domain.TaskRepository using PostgreSQL.
type PostgresTaskRepository struct {
	conn database.Connection
}

// NewPostgresTaskRepository creates a new PostgreSQL task repository.
func NewPostgresTaskRepository(conn database.Connection) *PostgresTaskRepository {
	return &PostgresTaskRepository{conn: conn}
}

func (r *PostgresTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	exec := database.ExecutorFromContext(ctx, r.conn)

	if task.Version() == 0 {
		_, err := exec.Exec(ctx, `
			INSERT INTO tasks (`+taskColumns+`)
			VALUES ($1, $2, $3, $4, 1, $5, $6)`,
			task.ID(), task.ProjectID(), task.Title(), task.StatusID(), task.CreatedAt(), task.UpdatedAt())
		if err != nil {
			return err
		}
		task.SetVersion(1)
		return nil
	}

	var version int
	err := exec.QueryRow(ctx, `
		UPDATE tasks
		SET title = $1, status_id = $2, version = version + 1, updated_at = $3
		WHERE id = $4 AND version = $5
		RETURNING version`,
		task.Title(), task.StatusID(), task.UpdatedAt(), task.ID(), task.Version()).Scan(&version)
	if err != nil {
		if !database.IsNoRows(err) {
			return err
		}
		var exists bool
		if err := exec.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, task.ID()).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrTaskNotFound
		}
		return sharedDomain.ErrConcurrentModification
	}
	task.SetVersion(version)
	return nil
}

func (r *PostgresTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	task, err := scanPostgresTask(exec.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

func (r *PostgresTaskRepository) Find(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE project_id = $1`
	args := []any{filter.ProjectID}
	if filter.StatusID != nil {
		args = append(args, *filter.StatusID)
		query += fmt.Sprintf(` AND status_id = $%d`, len(args))
	}
	query += ` ORDER BY created_at, id`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanPostgresTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *PostgresTaskRepository) CountByStatus(ctx context.Context, projectID, statusID uuid.UUID) (int, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	var n int
	err := exec.QueryRow(ctx, `SELECT COUNT(1) FROM tasks WHERE project_id = $1 AND status_id = $2`,
		projectID, statusID).Scan(&n)
	return n, err
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanPostgresTask(row database.Row) (*domain.Task, error) {
	var (
		id, projectID, statusID uuid.UUID
		title                   string
		version                 int
		createdAt, updatedAt    time.Time
	)
	if err := row.Scan(&id, &projectID, &title, &statusID, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	return domain.RehydrateTask(id, projectID, title, statusID, version, createdAt.UTC(), updatedAt.UTC()), nil
}
