package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// PostgresHistoryRepository implements domain.HistoryRepository using PostgreSQL.
type PostgresHistoryRepository struct {
	conn database.Connection
}

func NewPostgresHistoryRepository(conn database.Connection) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{conn: conn}
}

func (r *PostgresHistoryRepository) Append(ctx context.Context, e domain.StatusChange) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, `
		INSERT INTO task_status_history (
			event_id, task_id, project_id, old_status_id, new_status_id, actor_id, changed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (event_id) DO NOTHING`,
		e.EventID, e.TaskID, e.ProjectID, e.OldStatusID, e.NewStatusID, e.ActorID, e.ChangedAt)
	return err
}

func (r *PostgresHistoryRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]domain.StatusChange, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, `
		SELECT event_id, task_id, project_id, old_status_id, new_status_id, actor_id, changed_at
		FROM task_status_history
		WHERE task_id = $1
		ORDER BY changed_at, event_id`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.StatusChange
	for rows.Next() {
		var (
			e  domain.StatusChange
			at time.Time
		)
		if err := rows.Scan(&e.EventID, &e.TaskID, &e.ProjectID, &e.OldStatusID, &e.NewStatusID, &e.ActorID, &at); err != nil {
			return nil, err
		}
		e.ChangedAt = at.UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
