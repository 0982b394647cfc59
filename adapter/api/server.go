// Package api provides the HTTP API for the Fokus workflow.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/felixgeelhaar/fokus/pkg/observability"
	"github.com/gin-gonic/gin"
)

// RequestIDHeader carries the request ID in and out of the API.
const RequestIDHeader = "X-Request-ID"

// Server is the HTTP API server for the workflow.
type Server struct {
	engine  *gin.Engine
	server  *http.Server
	logger  *slog.Logger
	handler *WorkflowHandler
	health  *observability.HealthRegistry
}

// ServerConfig holds configuration for the API server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:         "0.0.0.0:8080",
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServer creates a new workflow API server. health may be nil.
func NewServer(cfg ServerConfig, handler *WorkflowHandler, health *observability.HealthRegistry, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestContext(logger))

	s := &Server{
		engine:  engine,
		logger:  logger,
		handler: handler,
		health:  health,
	}
	s.registerRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

// Engine exposes the underlying gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")
	api.GET("/healthz", s.handleHealth)

	projects := api.Group("/projects/:projectID")
	{
		projects.GET("/statuses", s.handler.ListStatuses)
		projects.POST("/statuses", s.handler.CreateStatus)
		projects.PUT("/statuses/order", s.handler.ReorderStatuses)
		projects.PATCH("/statuses/:statusID", s.handler.UpdateStatus)
		projects.DELETE("/statuses/:statusID", s.handler.DeleteStatus)

		projects.GET("/transitions", s.handler.ListTransitions)
		projects.GET("/transitions/check", s.handler.CheckTransition)
		projects.POST("/transitions/toggle", s.handler.ToggleTransition)

		projects.GET("/workflow", s.handler.Overview)
		projects.POST("/workflow/template", s.handler.ApplyTemplate)

		projects.GET("/tasks", s.handler.ListTasks)
		projects.POST("/tasks", s.handler.CreateTask)
	}

	tasks := api.Group("/tasks/:taskID")
	{
		tasks.GET("", s.handler.GetTask)
		tasks.DELETE("", s.handler.DeleteTask)
		tasks.PUT("/status", s.handler.ChangeStatus)
		tasks.GET("/targets", s.handler.AllowedTargets)
		tasks.GET("/history", s.handler.TaskHistory)
	}
}

// handleHealth reports the aggregated health of the backing services.
func (s *Server) handleHealth(c *gin.Context) {
	if s.health == nil {
		c.JSON(http.StatusOK, gin.H{
			"status": observability.HealthStatusHealthy,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	report := s.health.Check(c.Request.Context())
	status := http.StatusOK
	if report.Status == observability.HealthStatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, report)
}

// Start starts the API server.
func (s *Server) Start() error {
	s.logger.Info("starting workflow API server", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down workflow API server")
	return s.server.Shutdown(ctx)
}

// requestContext stamps request and correlation IDs on the request context
// and logs each request once it completes.
func requestContext(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := observability.WithRequestID(c.Request.Context(), c.GetHeader(RequestIDHeader))
		ctx = observability.WithCorrelationID(ctx, observability.RequestIDFromContext(ctx))
		c.Request = c.Request.WithContext(ctx)
		c.Header(RequestIDHeader, observability.RequestIDFromContext(ctx))

		c.Next()

		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.WarnContext(ctx, "request failed", "method", c.Request.Method, "path", c.FullPath(), "status", c.Writer.Status())
		}
		observability.LogDuration(ctx, logger, c.Request.Method+" "+c.FullPath(), start)
	}
}
