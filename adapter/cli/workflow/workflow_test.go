package workflow

import (
	"context"
	"testing"

	"github.com/felixgeelhaar/fokus/adapter/cli/clitest"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/commands"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/felixgeelhaar/fokus/internal/workflow/infrastructure/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesCmd(t *testing.T) {
	clitest.Setup(t)

	out, err := clitest.Run(t, templatesCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "basic")
	assert.Contains(t, out, "kanban")
	assert.Contains(t, out, "scrum")
}

func TestApplyCmd_SeedsEmptyProjectOnce(t *testing.T) {
	clitest.Setup(t)

	out, err := clitest.Run(t, applyCmd, "basic")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied basic: 3 statuses")

	_, err = clitest.Run(t, applyCmd, "basic")
	assert.ErrorIs(t, err, domain.ErrWorkflowNotEmpty)

	_, err = clitest.Run(t, applyCmd, "waterfall")
	assert.ErrorIs(t, err, templates.ErrTemplateNotFound)

	out, err = clitest.Run(t, overviewCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "To Do")
	assert.Contains(t, out, "-> In Progress")
	assert.NotContains(t, out, "warning")
}

func TestOverviewCmd_Warnings(t *testing.T) {
	app, projectID := clitest.Setup(t)

	out, err := clitest.Run(t, overviewCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "No workflow yet")

	for i, name := range []string{"Open", "Stuck"} {
		_, err := app.CreateStatusHandler.Handle(context.Background(), commands.CreateStatusCommand{
			ProjectID: projectID, Name: name, Order: i, ActorID: clitest.UserID,
		})
		require.NoError(t, err)
	}

	out, err = clitest.Run(t, overviewCmd)
	require.NoError(t, err)
	assert.Contains(t, out, "Stuck cannot be reached")
	assert.Contains(t, out, "no completed status is reachable")
}
