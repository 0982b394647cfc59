package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/queries"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/felixgeelhaar/fokus/internal/workflow/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	statuses    *persistence.SQLiteStatusRepository
	transitions *persistence.SQLiteTransitionRepository
	tasks       *persistence.SQLiteTaskRepository
	history     *persistence.SQLiteHistoryRepository

	projectID uuid.UUID
	todo      *domain.Status
	inProg    *domain.Status
	done      *domain.Status
}

// newFixture stores ToDo, InProg and Done with edges ToDo->InProg and
// InProg->ToDo.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	conn, err := sqlite.OpenInMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, migrations.Run(ctx, conn))

	f := &fixture{
		statuses:    persistence.NewSQLiteStatusRepository(conn),
		transitions: persistence.NewSQLiteTransitionRepository(conn),
		tasks:       persistence.NewSQLiteTaskRepository(conn),
		history:     persistence.NewSQLiteHistoryRepository(conn),
		projectID:   uuid.New(),
	}

	catalog, err := domain.NewCatalog(f.projectID, nil)
	require.NoError(t, err)
	f.done, _ = catalog.Add("Done", "", 2, true)
	f.todo, _ = catalog.Add("ToDo", "", 0, false)
	f.inProg, _ = catalog.Add("InProg", "", 1, false)
	for _, s := range catalog.Statuses() {
		require.NoError(t, f.statuses.Save(ctx, s))
	}
	f.edge(t, f.todo, f.inProg)
	f.edge(t, f.inProg, f.todo)
	return f
}

func (f *fixture) edge(t *testing.T, from, to *domain.Status) {
	t.Helper()
	e, err := domain.NewTransition(f.projectID, from.ID(), to.ID())
	require.NoError(t, err)
	_, err = f.transitions.Create(context.Background(), e)
	require.NoError(t, err)
}

func TestListStatusesHandler(t *testing.T) {
	f := newFixture(t)
	handler := queries.NewListStatusesHandler(f.statuses)

	dtos, err := handler.Handle(context.Background(), queries.ListStatusesQuery{ProjectID: f.projectID})

	require.NoError(t, err)
	require.Len(t, dtos, 3)
	assert.Equal(t, "ToDo", dtos[0].Name)
	assert.Equal(t, "InProg", dtos[1].Name)
	assert.Equal(t, "Done", dtos[2].Name)
	assert.True(t, dtos[2].IsCompleted)

	empty, err := handler.Handle(context.Background(), queries.ListStatusesQuery{ProjectID: uuid.New()})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestTransitionQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	edges, err := queries.NewListTransitionsHandler(f.transitions).Handle(ctx, queries.ListTransitionsQuery{ProjectID: f.projectID})
	require.NoError(t, err)
	assert.Len(t, edges, 2)

	check := queries.NewCheckTransitionHandler(f.transitions)
	allowed, err := check.Handle(ctx, queries.CheckTransitionQuery{ProjectID: f.projectID, FromStatusID: f.todo.ID(), ToStatusID: f.inProg.ID()})
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = check.Handle(ctx, queries.CheckTransitionQuery{ProjectID: f.projectID, FromStatusID: f.todo.ID(), ToStatusID: f.done.ID()})
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = check.Handle(ctx, queries.CheckTransitionQuery{ProjectID: uuid.New(), FromStatusID: f.todo.ID(), ToStatusID: f.inProg.ID()})
	require.NoError(t, err)
	assert.False(t, allowed, "edges are scoped to their project")
}

func TestTaskQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	task, err := domain.NewTask("Board card", f.todo)
	require.NoError(t, err)
	require.NoError(t, f.tasks.Save(ctx, task))

	dto, err := queries.NewGetTaskHandler(f.tasks).Handle(ctx, queries.GetTaskQuery{TaskID: task.ID()})
	require.NoError(t, err)
	assert.Equal(t, "Board card", dto.Title)
	assert.Equal(t, 1, dto.Version)

	_, err = queries.NewGetTaskHandler(f.tasks).Handle(ctx, queries.GetTaskQuery{TaskID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)

	doneID := f.done.ID()
	list := queries.NewListTasksHandler(f.tasks)
	all, err := list.Handle(ctx, queries.ListTasksQuery{ProjectID: f.projectID})
	require.NoError(t, err)
	assert.Len(t, all, 1)
	inDone, err := list.Handle(ctx, queries.ListTasksQuery{ProjectID: f.projectID, StatusID: &doneID})
	require.NoError(t, err)
	assert.Empty(t, inDone)

	targets, err := queries.NewAllowedTargetsHandler(f.tasks, f.statuses, f.transitions).
		Handle(ctx, queries.AllowedTargetsQuery{TaskID: task.ID()})
	require.NoError(t, err)
	assert.Equal(t, f.todo.ID(), targets.CurrentStatusID)
	require.Len(t, targets.Targets, 2)
	assert.Equal(t, f.todo.ID(), targets.Targets[0].ID)
	assert.Equal(t, f.inProg.ID(), targets.Targets[1].ID)
}

func TestTaskHistoryHandler(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	taskID := uuid.New()
	at := time.Date(2025, 5, 4, 12, 0, 0, 0, time.UTC)

	require.NoError(t, f.history.Append(ctx, domain.StatusChange{
		EventID: uuid.New(), TaskID: taskID, ProjectID: f.projectID,
		OldStatusID: f.todo.ID(), NewStatusID: f.inProg.ID(), ActorID: uuid.New(), ChangedAt: at,
	}))

	entries, err := queries.NewTaskHistoryHandler(f.history).Handle(ctx, queries.TaskHistoryQuery{TaskID: taskID})

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, f.inProg.ID(), entries[0].NewStatusID)
	assert.Equal(t, at, entries[0].ChangedAt)
}

func TestWorkflowOverviewHandler(t *testing.T) {
	f := newFixture(t)
	handler := queries.NewWorkflowOverviewHandler(f.statuses, f.transitions)

	overview, err := handler.Handle(context.Background(), queries.WorkflowOverviewQuery{ProjectID: f.projectID})

	require.NoError(t, err)
	require.NotNil(t, overview.EntryStatusID)
	assert.Equal(t, f.todo.ID(), *overview.EntryStatusID)
	assert.Equal(t, []uuid.UUID{f.done.ID()}, overview.Unreachable)
	assert.False(t, overview.CompletionReachable)
	assert.Equal(t, 2, overview.EdgeCount)
	require.Len(t, overview.Statuses, 3)
	assert.Equal(t, []uuid.UUID{f.inProg.ID()}, overview.Statuses[0].Outgoing)

	f.edge(t, f.inProg, f.done)
	overview, err = handler.Handle(context.Background(), queries.WorkflowOverviewQuery{ProjectID: f.projectID})
	require.NoError(t, err)
	assert.Empty(t, overview.Unreachable)
	assert.True(t, overview.CompletionReachable)

	empty, err := handler.Handle(context.Background(), queries.WorkflowOverviewQuery{ProjectID: uuid.New()})
	require.NoError(t, err)
	assert.Nil(t, empty.EntryStatusID)
	assert.Empty(t, empty.Statuses)
}
