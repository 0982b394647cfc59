package migrations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database/sqlite"
)

func TestRun_SQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := sqlite.OpenInMemory(ctx)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, Run(ctx, conn))
	require.NoError(t, Run(ctx, conn), "second run must be a no-op")

	for _, table := range []string{"statuses", "status_transitions", "tasks", "task_status_history", "outbox"} {
		var name string
		err := conn.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}

	var versions int
	require.NoError(t, conn.QueryRow(ctx, `SELECT COUNT(*) FROM schema_migrations`).Scan(&versions))
	assert.Equal(t, 2, versions)
}

func TestRun_SQLiteRejectsSelfLoopEdges(t *testing.T) {
	ctx := context.Background()
	conn, err := sqlite.OpenInMemory(ctx)
	require.NoError(t, err)
	defer conn.Close()
	require.NoError(t, Run(ctx, conn))

	_, err = conn.Exec(ctx, `INSERT INTO statuses (id, project_id, name, slug, created_at, updated_at) VALUES ('s1', 'p1', 'To Do', 'to-do', '', '')`)
	require.NoError(t, err)

	_, err = conn.Exec(ctx, `INSERT INTO status_transitions (id, project_id, from_status_id, to_status_id, created_at) VALUES ('e1', 'p1', 's1', 's1', '')`)
	assert.Error(t, err)
}
