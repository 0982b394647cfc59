package api

import (
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/fokus/internal/workflow/application/commands"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/queries"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/felixgeelhaar/fokus/internal/workflow/infrastructure/templates"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ActorHeader names the acting user of a request.
const ActorHeader = "X-Actor-ID"

// WorkflowHandler handles workflow API requests.
type WorkflowHandler struct {
	cfg    WorkflowHandlerConfig
	logger *slog.Logger
}

// WorkflowHandlerConfig holds dependencies for the workflow handler.
type WorkflowHandlerConfig struct {
	CreateStatus     *commands.CreateStatusHandler
	UpdateStatus     *commands.UpdateStatusHandler
	DeleteStatus     *commands.DeleteStatusHandler
	ReorderStatuses  *commands.ReorderStatusesHandler
	ToggleTransition *commands.ToggleTransitionHandler
	ApplyTemplate    *commands.ApplyTemplateHandler
	CreateTask       *commands.CreateTaskHandler
	DeleteTask       *commands.DeleteTaskHandler
	ChangeTaskStatus *commands.ChangeTaskStatusHandler

	ListStatuses     *queries.ListStatusesHandler
	ListTransitions  *queries.ListTransitionsHandler
	CheckTransition  *queries.CheckTransitionHandler
	WorkflowOverview *queries.WorkflowOverviewHandler
	GetTask          *queries.GetTaskHandler
	ListTasks        *queries.ListTasksHandler
	AllowedTargets   *queries.AllowedTargetsHandler
	TaskHistory      *queries.TaskHistoryHandler

	Templates *templates.Registry

	// DefaultActorID is used when a request carries no actor header.
	DefaultActorID uuid.UUID
	Logger         *slog.Logger
}

// NewWorkflowHandler creates a new workflow handler.
func NewWorkflowHandler(cfg WorkflowHandlerConfig) *WorkflowHandler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &WorkflowHandler{cfg: cfg, logger: cfg.Logger}
}

type createStatusRequest struct {
	Name        string `json:"name"`
	Color       string `json:"color"`
	Order       int    `json:"order"`
	IsCompleted bool   `json:"is_completed"`
}

type updateStatusRequest struct {
	Name        *string `json:"name"`
	Color       *string `json:"color"`
	IsCompleted *bool   `json:"is_completed"`
}

type reorderRequest struct {
	Changes []struct {
		StatusID uuid.UUID `json:"status_id"`
		Order    int       `json:"order"`
	} `json:"changes"`
	Strict bool `json:"strict"`
}

type edgeRequest struct {
	FromStatusID uuid.UUID `json:"from_status_id"`
	ToStatusID   uuid.UUID `json:"to_status_id"`
}

type applyTemplateRequest struct {
	Template string `json:"template"`
}

type createTaskRequest struct {
	Title    string     `json:"title"`
	StatusID *uuid.UUID `json:"status_id"`
}

type changeStatusRequest struct {
	StatusID uuid.UUID `json:"status_id"`
}

// ListStatuses handles GET /api/projects/:projectID/statuses
func (h *WorkflowHandler) ListStatuses(c *gin.Context) {
	projectID, err := parseUUIDParam(c, "projectID")
	if err != nil {
		h.respondError(c, err)
		return
	}
	statuses, err := h.cfg.ListStatuses.Handle(c.Request.Context(), queries.ListStatusesQuery{ProjectID: projectID})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"statuses": statuses})
}

// CreateStatus handles POST /api/projects/:projectID/statuses
func (h *WorkflowHandler) CreateStatus(c *gin.Context) {
	projectID, err := parseUUIDParam(c, "projectID")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req createStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest(err.Error()))
		return
	}

	result, err := h.cfg.CreateStatus.Handle(c.Request.Context(), commands.CreateStatusCommand{
		ProjectID:   projectID,
		Name:        req.Name,
		Color:       req.Color,
		Order:       req.Order,
		IsCompleted: req.IsCompleted,
		ActorID:     h.actor(c),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":    result.StatusID,
		"name":  result.Name,
		"slug":  result.Slug,
		"order": result.Order,
	})
}

// UpdateStatus handles PATCH /api/projects/:projectID/statuses/:statusID
func (h *WorkflowHandler) UpdateStatus(c *gin.Context) {
	projectID, statusID, err := h.projectAndStatus(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest(err.Error()))
		return
	}

	result, err := h.cfg.UpdateStatus.Handle(c.Request.Context(), commands.UpdateStatusCommand{
		ProjectID:   projectID,
		StatusID:    statusID,
		Name:        req.Name,
		Color:       req.Color,
		IsCompleted: req.IsCompleted,
		ActorID:     h.actor(c),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":           result.StatusID,
		"name":         result.Name,
		"slug":         result.Slug,
		"color":        result.Color,
		"is_completed": result.IsCompleted,
	})
}

// DeleteStatus handles DELETE /api/projects/:projectID/statuses/:statusID
func (h *WorkflowHandler) DeleteStatus(c *gin.Context) {
	projectID, statusID, err := h.projectAndStatus(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.cfg.DeleteStatus.Handle(c.Request.Context(), commands.DeleteStatusCommand{
		ProjectID: projectID,
		StatusID:  statusID,
		ActorID:   h.actor(c),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed_edges": result.RemovedEdges})
}

// ReorderStatuses handles PUT /api/projects/:projectID/statuses/order
func (h *WorkflowHandler) ReorderStatuses(c *gin.Context) {
	projectID, err := parseUUIDParam(c, "projectID")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest(err.Error()))
		return
	}

	changes := make([]domain.OrderChange, 0, len(req.Changes))
	for _, ch := range req.Changes {
		changes = append(changes, domain.OrderChange{StatusID: ch.StatusID, Order: ch.Order})
	}
	result, err := h.cfg.ReorderStatuses.Handle(c.Request.Context(), commands.ReorderStatusesCommand{
		ProjectID: projectID,
		Changes:   changes,
		Strict:    req.Strict,
		ActorID:   h.actor(c),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": result.Applied, "skipped": result.Skipped})
}

// ListTransitions handles GET /api/projects/:projectID/transitions
func (h *WorkflowHandler) ListTransitions(c *gin.Context) {
	projectID, err := parseUUIDParam(c, "projectID")
	if err != nil {
		h.respondError(c, err)
		return
	}
	edges, err := h.cfg.ListTransitions.Handle(c.Request.Context(), queries.ListTransitionsQuery{ProjectID: projectID})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transitions": edges})
}

// CheckTransition handles GET /api/projects/:projectID/transitions/check
func (h *WorkflowHandler) CheckTransition(c *gin.Context) {
	projectID, err := parseUUIDParam(c, "projectID")
	if err != nil {
		h.respondError(c, err)
		return
	}
	from, err := parseUUIDQuery(c, "from")
	if err != nil {
		h.respondError(c, err)
		return
	}
	to, err := parseUUIDQuery(c, "to")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if from == nil || to == nil {
		h.respondError(c, badRequest("query parameters 'from' and 'to' are required"))
		return
	}

	allowed, err := h.cfg.CheckTransition.Handle(c.Request.Context(), queries.CheckTransitionQuery{
		ProjectID:    projectID,
		FromStatusID: *from,
		ToStatusID:   *to,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"allowed": allowed})
}

// ToggleTransition handles POST /api/projects/:projectID/transitions/toggle
func (h *WorkflowHandler) ToggleTransition(c *gin.Context) {
	projectID, err := parseUUIDParam(c, "projectID")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req edgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest(err.Error()))
		return
	}

	result, err := h.cfg.ToggleTransition.Handle(c.Request.Context(), commands.ToggleTransitionCommand{
		ProjectID:    projectID,
		FromStatusID: req.FromStatusID,
		ToStatusID:   req.ToStatusID,
		ActorID:      h.actor(c),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"state": result.State})
}

// Overview handles GET /api/projects/:projectID/workflow
func (h *WorkflowHandler) Overview(c *gin.Context) {
	projectID, err := parseUUIDParam(c, "projectID")
	if err != nil {
		h.respondError(c, err)
		return
	}
	overview, err := h.cfg.WorkflowOverview.Handle(c.Request.Context(), queries.WorkflowOverviewQuery{ProjectID: projectID})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}

// ApplyTemplate handles POST /api/projects/:projectID/workflow/template
func (h *WorkflowHandler) ApplyTemplate(c *gin.Context) {
	projectID, err := parseUUIDParam(c, "projectID")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req applyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest(err.Error()))
		return
	}
	blueprint, err := h.cfg.Templates.Get(req.Template)
	if err != nil {
		h.respondError(c, err)
		return
	}

	result, err := h.cfg.ApplyTemplate.Handle(c.Request.Context(), commands.ApplyTemplateCommand{
		ProjectID: projectID,
		Blueprint: blueprint,
		ActorID:   h.actor(c),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"template":   result.Template,
		"status_ids": result.StatusIDs,
		"edge_count": result.EdgeCount,
	})
}

// ListTasks handles GET /api/projects/:projectID/tasks
func (h *WorkflowHandler) ListTasks(c *gin.Context) {
	projectID, err := parseUUIDParam(c, "projectID")
	if err != nil {
		h.respondError(c, err)
		return
	}
	statusID, err := parseUUIDQuery(c, "status")
	if err != nil {
		h.respondError(c, err)
		return
	}
	tasks, err := h.cfg.ListTasks.Handle(c.Request.Context(), queries.ListTasksQuery{ProjectID: projectID, StatusID: statusID})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// CreateTask handles POST /api/projects/:projectID/tasks
func (h *WorkflowHandler) CreateTask(c *gin.Context) {
	projectID, err := parseUUIDParam(c, "projectID")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest(err.Error()))
		return
	}

	result, err := h.cfg.CreateTask.Handle(c.Request.Context(), commands.CreateTaskCommand{
		ProjectID: projectID,
		Title:     req.Title,
		StatusID:  req.StatusID,
		ActorID:   h.actor(c),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task_id": result.TaskID, "status_id": result.StatusID})
}

// GetTask handles GET /api/tasks/:taskID
func (h *WorkflowHandler) GetTask(c *gin.Context) {
	taskID, err := parseUUIDParam(c, "taskID")
	if err != nil {
		h.respondError(c, err)
		return
	}
	task, err := h.cfg.GetTask.Handle(c.Request.Context(), queries.GetTaskQuery{TaskID: taskID})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// DeleteTask handles DELETE /api/tasks/:taskID
func (h *WorkflowHandler) DeleteTask(c *gin.Context) {
	taskID, err := parseUUIDParam(c, "taskID")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.cfg.DeleteTask.Handle(c.Request.Context(), commands.DeleteTaskCommand{TaskID: taskID, ActorID: h.actor(c)}); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ChangeStatus handles PUT /api/tasks/:taskID/status
func (h *WorkflowHandler) ChangeStatus(c *gin.Context) {
	taskID, err := parseUUIDParam(c, "taskID")
	if err != nil {
		h.respondError(c, err)
		return
	}
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, badRequest(err.Error()))
		return
	}

	result, err := h.cfg.ChangeTaskStatus.Handle(c.Request.Context(), commands.ChangeTaskStatusCommand{
		TaskID:         taskID,
		TargetStatusID: req.StatusID,
		ActorID:        h.actor(c),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"task_id":       result.TaskID,
		"old_status_id": result.OldStatusID,
		"status_id":     result.StatusID,
		"version":       result.Version,
		"changed":       result.Changed,
	})
}

// AllowedTargets handles GET /api/tasks/:taskID/targets
func (h *WorkflowHandler) AllowedTargets(c *gin.Context) {
	taskID, err := parseUUIDParam(c, "taskID")
	if err != nil {
		h.respondError(c, err)
		return
	}
	result, err := h.cfg.AllowedTargets.Handle(c.Request.Context(), queries.AllowedTargetsQuery{TaskID: taskID})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"task_id":           result.TaskID,
		"current_status_id": result.CurrentStatusID,
		"targets":           result.Targets,
	})
}

// TaskHistory handles GET /api/tasks/:taskID/history
func (h *WorkflowHandler) TaskHistory(c *gin.Context) {
	taskID, err := parseUUIDParam(c, "taskID")
	if err != nil {
		h.respondError(c, err)
		return
	}
	entries, err := h.cfg.TaskHistory.Handle(c.Request.Context(), queries.TaskHistoryQuery{TaskID: taskID})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

func (h *WorkflowHandler) projectAndStatus(c *gin.Context) (uuid.UUID, uuid.UUID, error) {
	projectID, err := parseUUIDParam(c, "projectID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	statusID, err := parseUUIDParam(c, "statusID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return projectID, statusID, nil
}

// actor resolves the acting user from the request, falling back to the
// configured default.
func (h *WorkflowHandler) actor(c *gin.Context) uuid.UUID {
	if id, err := uuid.Parse(c.GetHeader(ActorHeader)); err == nil {
		return id
	}
	return h.cfg.DefaultActorID
}

func (h *WorkflowHandler) respondError(c *gin.Context, err error) {
	apiErr := toAPIError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		h.logger.ErrorContext(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(apiErr.Status, gin.H{
		"error":   apiErr.Code,
		"message": apiErr.Message,
	})
}
