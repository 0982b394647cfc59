package database

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(sql.ErrNoRows))
	assert.True(t, IsNoRows(pgx.ErrNoRows))
	assert.True(t, IsNoRows(fmt.Errorf("find status: %w", ErrNoRows)))
	assert.False(t, IsNoRows(errors.New("connection refused")))
	assert.False(t, IsNoRows(nil))
}

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "statuses_project_slug_key"}
	sqliteErr := errors.New("constraint failed: UNIQUE constraint failed: statuses.project_id, statuses.slug (2067)")

	assert.True(t, IsUniqueViolation(pgErr))
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert status: %w", pgErr)))
	assert.True(t, IsUniqueViolation(sqliteErr))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("FOREIGN KEY constraint failed")))
	assert.False(t, IsUniqueViolation(nil))

	assert.Equal(t, "statuses_project_slug_key", ViolatedConstraint(pgErr))
	assert.Equal(t, "statuses.project_id, statuses.slug", ViolatedConstraint(sqliteErr))
	assert.Equal(t, "transitions.project_id, transitions.from_status_id, transitions.to_status_id",
		ViolatedConstraint(errors.New("UNIQUE constraint failed: transitions.project_id, transitions.from_status_id, transitions.to_status_id")))
	assert.Empty(t, ViolatedConstraint(errors.New("disk I/O error")))
}
