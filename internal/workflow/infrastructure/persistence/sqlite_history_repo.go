package persistence

import (
	"context"

	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// SQLiteHistoryRepository implements domain.HistoryRepository using SQLite.
type SQLiteHistoryRepository struct {
	conn database.Connection
}

func NewSQLiteHistoryRepository(conn database.Connection) *SQLiteHistoryRepository {
	return &SQLiteHistoryRepository{conn: conn}
}

// Append records a status change. Replays of the same event are ignored.
func (r *SQLiteHistoryRepository) Append(ctx context.Context, e domain.StatusChange) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, `
		INSERT INTO task_status_history (
			event_id, task_id, project_id, old_status_id, new_status_id, actor_id, changed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (event_id) DO NOTHING`,
		e.EventID.String(), e.TaskID.String(), e.ProjectID.String(),
		e.OldStatusID.String(), e.NewStatusID.String(), e.ActorID.String(),
		sqlite.FormatTime(e.ChangedAt))
	return err
}

// FindByTask returns a task's status changes, oldest first.
func (r *SQLiteHistoryRepository) FindByTask(ctx context.Context, taskID uuid.UUID) ([]domain.StatusChange, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, `
		SELECT event_id, task_id, project_id, old_status_id, new_status_id, actor_id, changed_at
		FROM task_status_history
		WHERE task_id = ?
		ORDER BY changed_at, event_id`, taskID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.StatusChange
	for rows.Next() {
		var eventID, tid, pid, oldID, newID, actorID, changedAt string
		if err := rows.Scan(&eventID, &tid, &pid, &oldID, &newID, &actorID, &changedAt); err != nil {
			return nil, err
		}
		ids, err := parseUUIDs(eventID, tid, pid, oldID, newID, actorID)
		if err != nil {
			return nil, err
		}
		at, err := sqlite.ParseTime(changedAt)
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.StatusChange{
			EventID:     ids[0],
			TaskID:      ids[1],
			ProjectID:   ids[2],
			OldStatusID: ids[3],
			NewStatusID: ids[4],
			ActorID:     ids[5],
			ChangedAt:   at,
		})
	}
	return entries, rows.Err()
}

func parseUUIDs(values ...string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, len(values))
	for i, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
