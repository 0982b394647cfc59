package cli

import (
	"context"

	internalApp "github.com/felixgeelhaar/fokus/internal/app"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/commands"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/queries"
	"github.com/felixgeelhaar/fokus/internal/workflow/infrastructure/templates"
	"github.com/felixgeelhaar/fokus/pkg/observability"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	// Status Command Handlers
	CreateStatusHandler    *commands.CreateStatusHandler
	UpdateStatusHandler    *commands.UpdateStatusHandler
	DeleteStatusHandler    *commands.DeleteStatusHandler
	ReorderStatusesHandler *commands.ReorderStatusesHandler

	// Status Query Handlers
	ListStatusesHandler *queries.ListStatusesHandler

	// Transition Handlers
	ToggleTransitionHandler *commands.ToggleTransitionHandler
	ListTransitionsHandler  *queries.ListTransitionsHandler
	CheckTransitionHandler  *queries.CheckTransitionHandler

	// Workflow Handlers
	WorkflowOverviewHandler *queries.WorkflowOverviewHandler
	ApplyTemplateHandler    *commands.ApplyTemplateHandler
	Templates               *templates.Registry

	// Task Command Handlers
	CreateTaskHandler       *commands.CreateTaskHandler
	DeleteTaskHandler       *commands.DeleteTaskHandler
	ChangeTaskStatusHandler *commands.ChangeTaskStatusHandler

	// Task Query Handlers
	GetTaskHandler        *queries.GetTaskHandler
	ListTasksHandler      *queries.ListTasksHandler
	AllowedTargetsHandler *queries.AllowedTargetsHandler
	TaskHistoryHandler    *queries.TaskHistoryHandler

	Health *observability.HealthRegistry

	// Container is the wiring the handlers came from; long-running
	// commands such as serve reuse it.
	Container *internalApp.Container

	// Current user and default project (configured per environment)
	CurrentUserID    uuid.UUID
	DefaultProjectID string
}

// NewApp creates a new CLI application backed by the container's handlers.
func NewApp(container *internalApp.Container) *App {
	return &App{
		CreateStatusHandler:     container.CreateStatusHandler,
		UpdateStatusHandler:     container.UpdateStatusHandler,
		DeleteStatusHandler:     container.DeleteStatusHandler,
		ReorderStatusesHandler:  container.ReorderStatusesHandler,
		ListStatusesHandler:     container.ListStatusesHandler,
		ToggleTransitionHandler: container.ToggleTransitionHandler,
		ListTransitionsHandler:  container.ListTransitionsHandler,
		CheckTransitionHandler:  container.CheckTransitionHandler,
		WorkflowOverviewHandler: container.WorkflowOverviewHandler,
		ApplyTemplateHandler:    container.ApplyTemplateHandler,
		Templates:               container.Templates,
		CreateTaskHandler:       container.CreateTaskHandler,
		DeleteTaskHandler:       container.DeleteTaskHandler,
		ChangeTaskStatusHandler: container.ChangeTaskStatusHandler,
		GetTaskHandler:          container.GetTaskHandler,
		ListTasksHandler:        container.ListTasksHandler,
		AllowedTargetsHandler:   container.AllowedTargetsHandler,
		TaskHistoryHandler:      container.TaskHistoryHandler,
		Health:                  container.Health,
		Container:               container,
	}
}

// SetCurrentUserID updates the current user ID.
func (a *App) SetCurrentUserID(userID uuid.UUID) {
	a.CurrentUserID = userID
}

// SetDefaultProjectID updates the project used when --project is unset.
func (a *App) SetDefaultProjectID(projectID string) {
	a.DefaultProjectID = projectID
}

// FlushLocalEvents delivers pending outbox events when the application
// dispatches them in process. It is a no-op when a broker is configured.
func (a *App) FlushLocalEvents(ctx context.Context) error {
	if a.Container == nil || a.Container.InProcessEventBus == nil {
		return nil
	}
	return a.Container.OutboxProcessor.ProcessOnce(ctx)
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
