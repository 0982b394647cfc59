package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database/sqlite"
)

func newMemoryConn(t *testing.T) *sqlite.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.OpenInMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = conn.Exec(ctx, `CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT NOT NULL)`)
	require.NoError(t, err)
	return conn
}

func countNotes(t *testing.T, conn database.Connection) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(context.Background(), `SELECT COUNT(*) FROM notes`).Scan(&n))
	return n
}

func TestGenericUnitOfWork(t *testing.T) {
	t.Run("commit persists and runs hooks", func(t *testing.T) {
		conn := newMemoryConn(t)
		uow := database.NewUnitOfWork(conn)

		txCtx, err := uow.Begin(context.Background())
		require.NoError(t, err)
		require.True(t, database.InTransaction(txCtx))

		ran := false
		database.AfterCommit(txCtx, func() { ran = true })
		_, err = database.ExecutorFromContext(txCtx, conn).Exec(txCtx, `INSERT INTO notes (body) VALUES (?)`, "a")
		require.NoError(t, err)
		assert.False(t, ran)

		require.NoError(t, uow.Commit(txCtx))
		assert.True(t, ran)
		assert.Equal(t, 1, countNotes(t, conn))
	})

	t.Run("rollback discards writes and hooks", func(t *testing.T) {
		conn := newMemoryConn(t)
		uow := database.NewUnitOfWork(conn)

		txCtx, err := uow.Begin(context.Background())
		require.NoError(t, err)

		ran := false
		database.AfterCommit(txCtx, func() { ran = true })
		_, err = database.ExecutorFromContext(txCtx, conn).Exec(txCtx, `INSERT INTO notes (body) VALUES (?)`, "a")
		require.NoError(t, err)

		require.NoError(t, uow.Rollback(txCtx))
		assert.False(t, ran)
		assert.Equal(t, 0, countNotes(t, conn))
	})

	t.Run("nested unit joins the outer transaction", func(t *testing.T) {
		conn := newMemoryConn(t)
		uow := database.NewUnitOfWork(conn)

		outer, err := uow.Begin(context.Background())
		require.NoError(t, err)
		inner, err := uow.Begin(outer)
		require.NoError(t, err)
		assert.Same(t, database.TxFromContext(outer), database.TxFromContext(inner))

		ran := false
		database.AfterCommit(inner, func() { ran = true })
		require.NoError(t, uow.Commit(inner))
		assert.False(t, ran, "inner commit must not fire hooks")

		require.NoError(t, uow.Commit(outer))
		assert.True(t, ran)
	})

	t.Run("hooks run immediately outside a transaction", func(t *testing.T) {
		ran := false
		database.AfterCommit(context.Background(), func() { ran = true })
		assert.True(t, ran)
	})

	t.Run("commit without transaction fails", func(t *testing.T) {
		uow := database.NewUnitOfWork(newMemoryConn(t))
		assert.ErrorIs(t, uow.Commit(context.Background()), database.ErrNoTransaction)
		assert.ErrorIs(t, uow.Rollback(context.Background()), database.ErrNoTransaction)
	})
}
