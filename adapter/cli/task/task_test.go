package task

import (
	"context"
	"strings"
	"testing"

	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/fokus/adapter/cli/clitest"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/commands"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/queries"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupBoard creates ToDo, InProg and Done with ToDo <-> InProg.
func setupBoard(t *testing.T) (*cli.App, uuid.UUID, map[string]uuid.UUID) {
	t.Helper()
	app, projectID := clitest.Setup(t)
	ctx := context.Background()
	createStatus, listStatus = "", ""

	ids := map[string]uuid.UUID{}
	for i, name := range []string{"ToDo", "InProg", "Done"} {
		res, err := app.CreateStatusHandler.Handle(ctx, commands.CreateStatusCommand{
			ProjectID: projectID, Name: name, Order: i, ActorID: clitest.UserID,
		})
		require.NoError(t, err)
		ids[name] = res.StatusID
	}
	for _, edge := range [][2]string{{"ToDo", "InProg"}, {"InProg", "ToDo"}} {
		_, err := app.ToggleTransitionHandler.Handle(ctx, commands.ToggleTransitionCommand{
			ProjectID: projectID, FromStatusID: ids[edge[0]], ToStatusID: ids[edge[1]], ActorID: clitest.UserID,
		})
		require.NoError(t, err)
	}
	return app, projectID, ids
}

func createTask(t *testing.T, title string) uuid.UUID {
	t.Helper()
	out, err := clitest.Run(t, createCmd, title)
	require.NoError(t, err)
	line := strings.SplitN(out, "\n", 2)[0]
	id, err := uuid.Parse(strings.TrimPrefix(line, "Task created: "))
	require.NoError(t, err)
	return id
}

func TestCreateCmd_DefaultsToFirstStatus(t *testing.T) {
	app, projectID, ids := setupBoard(t)

	out, err := clitest.Run(t, createCmd, "Write docs")
	require.NoError(t, err)
	assert.Contains(t, out, "status: ToDo")

	createStatus = "inprog"
	defer func() { createStatus = "" }()
	_, err = clitest.Run(t, createCmd, "Fix bug")
	require.NoError(t, err)

	inProg := ids["InProg"]
	tasks, err := app.ListTasksHandler.Handle(context.Background(), queries.ListTasksQuery{ProjectID: projectID, StatusID: &inProg})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Fix bug", tasks[0].Title)
}

func TestMoveCmd_FollowsWorkflow(t *testing.T) {
	app, projectID, ids := setupBoard(t)
	taskID := createTask(t, "Ship release")

	_, err := clitest.Run(t, moveCmd, taskID.String(), "done")
	require.ErrorIs(t, err, domain.ErrIllegalTransition)
	assert.Contains(t, err.Error(), `no transition to "Done"`)

	out, err := clitest.Run(t, moveCmd, taskID.String(), "todo")
	require.NoError(t, err)
	assert.Contains(t, out, "already in ToDo")

	_, err = app.ToggleTransitionHandler.Handle(context.Background(), commands.ToggleTransitionCommand{
		ProjectID: projectID, FromStatusID: ids["InProg"], ToStatusID: ids["Done"], ActorID: clitest.UserID,
	})
	require.NoError(t, err)

	out, err = clitest.Run(t, moveCmd, taskID.String(), "inprog")
	require.NoError(t, err)
	assert.Contains(t, out, "moved to InProg")
	out, err = clitest.Run(t, moveCmd, taskID.String(), "Done")
	require.NoError(t, err)
	assert.Contains(t, out, "moved to Done")

	out, err = clitest.Run(t, showCmd, taskID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "status:  Done")
	assert.Contains(t, out, "version: 3")

	out, err = clitest.Run(t, historyCmd, taskID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "ToDo -> InProg")
	assert.Contains(t, out, "InProg -> Done")
}

func TestTargetsCmd(t *testing.T) {
	setupBoard(t)
	taskID := createTask(t, "Triage")

	out, err := clitest.Run(t, targetsCmd, taskID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "* todo")
	assert.Contains(t, out, "inprog")
	assert.NotContains(t, out, "done")
}

func TestListAndDeleteCmd(t *testing.T) {
	setupBoard(t)
	taskID := createTask(t, "Temporary")

	out, err := clitest.Run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Temporary")

	out, err = clitest.Run(t, deleteCmd, taskID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "Task deleted")

	out, err = clitest.Run(t, listCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "No tasks found.")

	_, err = clitest.Run(t, showCmd, taskID.String())
	assert.ErrorIs(t, err, domain.ErrTaskNotFound)
}

func TestShowCmd_InvalidID(t *testing.T) {
	setupBoard(t)

	_, err := clitest.Run(t, showCmd, "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid task ID")
}
