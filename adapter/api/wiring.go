package api

import (
	"github.com/felixgeelhaar/fokus/internal/app"
	"github.com/google/uuid"
)

// HandlerConfigFromContainer collects the workflow handlers of c.
func HandlerConfigFromContainer(c *app.Container, defaultActor uuid.UUID) WorkflowHandlerConfig {
	return WorkflowHandlerConfig{
		CreateStatus:     c.CreateStatusHandler,
		UpdateStatus:     c.UpdateStatusHandler,
		DeleteStatus:     c.DeleteStatusHandler,
		ReorderStatuses:  c.ReorderStatusesHandler,
		ToggleTransition: c.ToggleTransitionHandler,
		ApplyTemplate:    c.ApplyTemplateHandler,
		CreateTask:       c.CreateTaskHandler,
		DeleteTask:       c.DeleteTaskHandler,
		ChangeTaskStatus: c.ChangeTaskStatusHandler,
		ListStatuses:     c.ListStatusesHandler,
		ListTransitions:  c.ListTransitionsHandler,
		CheckTransition:  c.CheckTransitionHandler,
		WorkflowOverview: c.WorkflowOverviewHandler,
		GetTask:          c.GetTaskHandler,
		ListTasks:        c.ListTasksHandler,
		AllowedTargets:   c.AllowedTargetsHandler,
		TaskHistory:      c.TaskHistoryHandler,
		Templates:        c.Templates,
		DefaultActorID:   defaultActor,
		Logger:           c.Logger.With("component", "api"),
	}
}

// NewServerFromContainer builds the API server on top of c.
func NewServerFromContainer(cfg ServerConfig, c *app.Container, defaultActor uuid.UUID) *Server {
	handler := NewWorkflowHandler(HandlerConfigFromContainer(c, defaultActor))
	return NewServer(cfg, handler, c.Health, c.Logger)
}
