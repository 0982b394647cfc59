package outbox_test

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/fokus/internal/shared/domain"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteOutbox(t *testing.T) (*outbox.SQLiteRepository, database.Connection) {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.OpenInMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Run(ctx, conn))
	return outbox.NewSQLiteRepository(conn), conn
}

func TestSQLiteRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo, _ := newSQLiteOutbox(t)
	msgs := seed(t, repo, "workflow.task.created", "workflow.task.status_changed", "workflow.task.deleted")
	assert.NotZero(t, msgs[0].ID)

	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, msgs[0].EventID, pending[0].EventID)
	assert.JSONEq(t, string(msgs[0].Payload), string(pending[0].Payload))
	assert.True(t, msgs[0].CreatedAt.Truncate(time.Microsecond).Equal(pending[0].CreatedAt))

	require.NoError(t, repo.MarkPublished(ctx, msgs[0].ID))
	require.NoError(t, repo.MarkFailed(ctx, msgs[1].ID, "timeout", time.Now().Add(time.Hour)))
	require.NoError(t, repo.MarkDead(ctx, msgs[2].ID, "poison"))

	pending, err = repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	deleted, err := repo.DeleteOld(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestSQLiteRepository_SaveBatchJoinsTransaction(t *testing.T) {
	ctx := context.Background()
	repo, conn := newSQLiteOutbox(t)
	uow := database.NewUnitOfWork(conn)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	seedCtx(t, txCtx, repo)
	require.NoError(t, uow.Rollback(txCtx))

	pending, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending, "rolled back events must not be published")
}

func seedCtx(t *testing.T, ctx context.Context, repo outbox.Repository) {
	t.Helper()
	msg, err := outbox.NewMessage(&statusChanged{BaseEvent: domain.NewBaseEvent(uuid.New(), "Task", "workflow.task.created")})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, msg))
}
