package persistence

import (
	"context"
	"strings"

	sharedDomain "github.com/felixgeelhaar/fokus/internal/shared/domain"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

const taskColumns = `id, project_id, title, status_id, version, created_at, updated_at`

// SQLiteTaskRepository implements domain.TaskRepository using SQLite.
type SQLiteTaskRepository struct {
	conn database.Connection
}

// NewSQLiteTaskRepository creates a new SQLite task repository.
func NewSQLiteTaskRepository(conn database.Connection) *SQLiteTaskRepository {
	return &SQLiteTaskRepository{conn: conn}
}

// Save inserts a new task or updates an existing one at its loaded version.
func (r *SQLiteTaskRepository) Save(ctx context.Context, task *domain.Task) error {
	exec := database.ExecutorFromContext(ctx, r.conn)

	if task.Version() == 0 {
		_, err := exec.Exec(ctx, `
			INSERT INTO tasks (`+taskColumns+`)
			VALUES (?, ?, ?, ?, 1, ?, ?)`,
			task.ID().String(), task.ProjectID().String(), task.Title(), task.StatusID().String(),
			sqlite.FormatTime(task.CreatedAt()), sqlite.FormatTime(task.UpdatedAt()))
		if err != nil {
			return err
		}
		task.SetVersion(1)
		return nil
	}

	result, err := exec.Exec(ctx, `
		UPDATE tasks
		SET title = ?, status_id = ?, version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		task.Title(), task.StatusID().String(), sqlite.FormatTime(task.UpdatedAt()),
		task.ID().String(), task.Version())
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return r.missingOrStale(ctx, exec, task.ID())
	}
	task.SetVersion(task.Version() + 1)
	return nil
}

func (r *SQLiteTaskRepository) missingOrStale(ctx context.Context, exec database.Executor, id uuid.UUID) error {
	var n int
	if err := exec.QueryRow(ctx, `SELECT COUNT(1) FROM tasks WHERE id = ?`, id.String()).Scan(&n); err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTaskNotFound
	}
	return sharedDomain.ErrConcurrentModification
}

// FindByID retrieves a task.
func (r *SQLiteTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id.String())
	task, err := scanSQLiteTask(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return task, nil
}

// Find lists tasks of a project, optionally in one status.
func (r *SQLiteTaskRepository) Find(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	query := strings.Builder{}
	query.WriteString(`SELECT ` + taskColumns + ` FROM tasks WHERE project_id = ?`)
	args := []any{filter.ProjectID.String()}
	if filter.StatusID != nil {
		query.WriteString(` AND status_id = ?`)
		args = append(args, filter.StatusID.String())
	}
	query.WriteString(` ORDER BY created_at, id`)

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanSQLiteTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// CountByStatus counts the tasks currently in statusID.
func (r *SQLiteTaskRepository) CountByStatus(ctx context.Context, projectID, statusID uuid.UUID) (int, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	var n int
	err := exec.QueryRow(ctx, `SELECT COUNT(1) FROM tasks WHERE project_id = ? AND status_id = ?`,
		projectID.String(), statusID.String()).Scan(&n)
	return n, err
}

// Delete removes a task.
func (r *SQLiteTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM tasks WHERE id = ?`, id.String())
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

func scanSQLiteTask(row database.Row) (*domain.Task, error) {
	var (
		id, projectID, title, statusID string
		version                        int
		createdAt, updatedAt           string
	)
	if err := row.Scan(&id, &projectID, &title, &statusID, &version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	tid, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	pid, err := uuid.Parse(projectID)
	if err != nil {
		return nil, err
	}
	sid, err := uuid.Parse(statusID)
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
	return domain.RehydrateTask(tid, pid, title, sid, version, created, updated), nil
}
