package persistence

import (
	"context"
	"testing"
	"time"

	sharedDomain "github.com/felixgeelhaar/fokus/internal/shared/domain"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB opens an in-memory database with the schema applied.
func setupTestDB(t *testing.T) *sqlite.Connection {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.OpenInMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Run(ctx, conn))
	return conn
}

// seedStatuses stores the named statuses in one project, in order.
func seedStatuses(t *testing.T, repo domain.StatusRepository, projectID uuid.UUID, names ...string) []*domain.Status {
	t.Helper()
	catalog, err := domain.NewCatalog(projectID, nil)
	require.NoError(t, err)

	statuses := make([]*domain.Status, 0, len(names))
	for i, name := range names {
		s, err := catalog.Add(name, "", i, false)
		require.NoError(t, err)
		require.NoError(t, repo.Save(context.Background(), s))
		statuses = append(statuses, s)
	}
	return statuses
}

func TestSQLiteStatusRepository_SaveAndFind(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewSQLiteStatusRepository(conn)
	ctx := context.Background()
	projectID := uuid.New()

	seeded := seedStatuses(t, repo, projectID, "To Do", "In Progress")

	found, err := repo.FindByID(ctx, projectID, seeded[1].ID())
	require.NoError(t, err)
	assert.Equal(t, "In Progress", found.Name())
	assert.Equal(t, "in-progress", found.Slug())
	assert.Equal(t, 1, found.Order())
	assert.WithinDuration(t, seeded[1].CreatedAt(), found.CreatedAt(), time.Millisecond)

	all, err := repo.FindByProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "To Do", all[0].Name())

	_, err = repo.FindByID(ctx, uuid.New(), seeded[0].ID())
	assert.ErrorIs(t, err, domain.ErrStatusNotFound)
}

func TestSQLiteStatusRepository_SaveUpdates(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewSQLiteStatusRepository(conn)
	ctx := context.Background()
	projectID := uuid.New()
	status := seedStatuses(t, repo, projectID, "Done")[0]

	status.SetCompleted(true)
	status.SetColor("#00ff00")
	require.NoError(t, repo.Save(ctx, status))

	found, err := repo.FindByID(ctx, projectID, status.ID())
	require.NoError(t, err)
	assert.True(t, found.IsCompleted())
	assert.Equal(t, "#00ff00", found.Color())
}

func TestSQLiteStatusRepository_SaveConflicts(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewSQLiteStatusRepository(conn)
	ctx := context.Background()
	projectID := uuid.New()
	seedStatuses(t, repo, projectID, "Review")

	now := time.Now()
	sameName := domain.RehydrateStatus(uuid.New(), projectID, "Review", "review-x", "", 1, false, now, now)
	assert.ErrorIs(t, repo.Save(ctx, sameName), domain.ErrDuplicateStatusName)

	sameSlug := domain.RehydrateStatus(uuid.New(), projectID, "REVIEW", "review", "", 1, false, now, now)
	assert.ErrorIs(t, repo.Save(ctx, sameSlug), domain.ErrSlugTaken)

	otherProject := domain.RehydrateStatus(uuid.New(), uuid.New(), "Review", "review", "", 0, false, now, now)
	assert.NoError(t, repo.Save(ctx, otherProject))
}

func TestSQLiteStatusRepository_UpdateOrder(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewSQLiteStatusRepository(conn)
	ctx := context.Background()
	projectID := uuid.New()
	statuses := seedStatuses(t, repo, projectID, "A", "B")

	ok, err := repo.UpdateOrder(ctx, projectID, statuses[0].ID(), 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.UpdateOrder(ctx, uuid.New(), statuses[1].ID(), 9)
	require.NoError(t, err)
	assert.False(t, ok)

	all, err := repo.FindByProject(ctx, projectID)
	require.NoError(t, err)
	assert.Equal(t, "B", all[0].Name())
	assert.Equal(t, 1, all[0].Order())
	assert.Equal(t, 5, all[1].Order())
}

func TestSQLiteTransitionRepository(t *testing.T) {
	conn := setupTestDB(t)
	statuses := NewSQLiteStatusRepository(conn)
	repo := NewSQLiteTransitionRepository(conn)
	ctx := context.Background()
	projectID := uuid.New()
	s := seedStatuses(t, statuses, projectID, "ToDo", "InProg", "Done")

	edge, err := domain.NewTransition(projectID, s[0].ID(), s[1].ID())
	require.NoError(t, err)

	created, err := repo.Create(ctx, edge)
	require.NoError(t, err)
	assert.True(t, created)

	dup, _ := domain.NewTransition(projectID, s[0].ID(), s[1].ID())
	created, err = repo.Create(ctx, dup)
	require.NoError(t, err)
	assert.False(t, created, "duplicate edge is a no-op")

	exists, err := repo.Exists(ctx, projectID, s[0].ID(), s[1].ID())
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.Exists(ctx, projectID, s[1].ID(), s[0].ID())
	require.NoError(t, err)
	assert.False(t, exists, "edges are directed")

	edges, err := repo.FindByProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, edge.ID(), edges[0].ID())

	removed, err := repo.Delete(ctx, projectID, s[0].ID(), s[1].ID())
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = repo.Delete(ctx, projectID, s[0].ID(), s[1].ID())
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestSQLiteTransitionRepository_DeleteByStatus(t *testing.T) {
	conn := setupTestDB(t)
	statuses := NewSQLiteStatusRepository(conn)
	repo := NewSQLiteTransitionRepository(conn)
	ctx := context.Background()
	projectID := uuid.New()
	s := seedStatuses(t, statuses, projectID, "A", "B", "C")

	for _, pair := range [][2]int{{0, 1}, {1, 0}, {1, 2}, {0, 2}} {
		edge, err := domain.NewTransition(projectID, s[pair[0]].ID(), s[pair[1]].ID())
		require.NoError(t, err)
		_, err = repo.Create(ctx, edge)
		require.NoError(t, err)
	}

	n, err := repo.DeleteByStatus(ctx, projectID, s[1].ID())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	edges, err := repo.FindByProject(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, s[0].ID(), edges[0].FromStatusID())
	assert.Equal(t, s[2].ID(), edges[0].ToStatusID())
}

func TestSQLiteStatusRepository_DeleteCascadesEdges(t *testing.T) {
	conn := setupTestDB(t)
	statuses := NewSQLiteStatusRepository(conn)
	transitions := NewSQLiteTransitionRepository(conn)
	ctx := context.Background()
	projectID := uuid.New()
	s := seedStatuses(t, statuses, projectID, "A", "B")

	edge, _ := domain.NewTransition(projectID, s[0].ID(), s[1].ID())
	_, err := transitions.Create(ctx, edge)
	require.NoError(t, err)

	require.NoError(t, statuses.Delete(ctx, projectID, s[1].ID()))

	edges, err := transitions.FindByProject(ctx, projectID)
	require.NoError(t, err)
	assert.Empty(t, edges)

	assert.ErrorIs(t, statuses.Delete(ctx, projectID, s[1].ID()), domain.ErrStatusNotFound)
}

func TestSQLiteTaskRepository(t *testing.T) {
	conn := setupTestDB(t)
	statuses := NewSQLiteStatusRepository(conn)
	repo := NewSQLiteTaskRepository(conn)
	ctx := context.Background()
	projectID := uuid.New()
	s := seedStatuses(t, statuses, projectID, "ToDo", "InProg")

	task, err := domain.NewTask("Write tests", s[0])
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, task))
	assert.Equal(t, 1, task.Version())

	count, err := repo.CountByStatus(ctx, projectID, s[0].ID())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	loaded, err := repo.FindByID(ctx, task.ID())
	require.NoError(t, err)
	stale, err := repo.FindByID(ctx, task.ID())
	require.NoError(t, err)

	_, err = loaded.ChangeStatus(s[1], true, uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, loaded))
	assert.Equal(t, 2, loaded.Version())

	_, err = stale.ChangeStatus(s[1], true, uuid.New())
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, stale), sharedDomain.ErrConcurrentModification)

	inProg := s[1].ID()
	filtered, err := repo.Find(ctx, domain.TaskFilter{ProjectID: projectID, StatusID: &inProg})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Write tests", filtered[0].Title())

	require.NoError(t, repo.Delete(ctx, task.ID()))
	_, err = repo.FindByID(ctx, task.ID())
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, task.ID()), domain.ErrTaskNotFound)
}

func TestSQLiteTaskRepository_SaveMissing(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewSQLiteTaskRepository(conn)
	now := time.Now()

	ghost := domain.RehydrateTask(uuid.New(), uuid.New(), "ghost", uuid.New(), 3, now, now)
	assert.ErrorIs(t, repo.Save(context.Background(), ghost), domain.ErrTaskNotFound)
}

func TestSQLiteHistoryRepository(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewSQLiteHistoryRepository(conn)
	ctx := context.Background()
	taskID := uuid.New()
	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	first := domain.StatusChange{
		EventID: uuid.New(), TaskID: taskID, ProjectID: uuid.New(),
		OldStatusID: uuid.New(), NewStatusID: uuid.New(), ActorID: uuid.New(),
		ChangedAt: base,
	}
	second := first
	second.EventID = uuid.New()
	second.ChangedAt = base.Add(time.Minute)

	require.NoError(t, repo.Append(ctx, second))
	require.NoError(t, repo.Append(ctx, first))
	require.NoError(t, repo.Append(ctx, first), "replay is ignored")

	entries, err := repo.FindByTask(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, first.EventID, entries[0].EventID)
	assert.Equal(t, base, entries[0].ChangedAt)
	assert.Equal(t, second.EventID, entries[1].EventID)
}

func TestSQLiteRepositories_JoinUnitOfWork(t *testing.T) {
	conn := setupTestDB(t)
	repo := NewSQLiteStatusRepository(conn)
	uow := database.NewUnitOfWork(conn)
	projectID := uuid.New()

	txCtx, err := uow.Begin(context.Background())
	require.NoError(t, err)
	seedStatusInContext(txCtx, t, repo, projectID, "Pending")
	require.NoError(t, uow.Rollback(txCtx))

	all, err := repo.FindByProject(context.Background(), projectID)
	require.NoError(t, err)
	assert.Empty(t, all, "rolled back insert is not visible")
}

func seedStatusInContext(ctx context.Context, t *testing.T, repo domain.StatusRepository, projectID uuid.UUID, name string) {
	t.Helper()
	catalog, _ := domain.NewCatalog(projectID, nil)
	s, err := catalog.Add(name, "", 0, false)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, s))
}
