package mcp

import (
	"github.com/felixgeelhaar/fokus/adapter/cli"
	"github.com/felixgeelhaar/fokus/internal/app"
	"github.com/google/uuid"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container, currentUser uuid.UUID) *cli.App {
	cliApp := cli.NewApp(container)
	cliApp.SetCurrentUserID(currentUser)
	if container.Config != nil {
		cliApp.SetDefaultProjectID(container.Config.ProjectID)
	}
	return cliApp
}
