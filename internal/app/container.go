package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fokus/internal/shared/application"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database/postgres" // Register Postgres driver
	_ "github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/commands"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/queries"
	"github.com/felixgeelhaar/fokus/internal/workflow/application/subscribers"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/felixgeelhaar/fokus/internal/workflow/infrastructure/cache"
	"github.com/felixgeelhaar/fokus/internal/workflow/infrastructure/notification"
	"github.com/felixgeelhaar/fokus/internal/workflow/infrastructure/templates"
	"github.com/felixgeelhaar/fokus/pkg/config"
	"github.com/felixgeelhaar/fokus/pkg/observability"
	"github.com/redis/go-redis/v9"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DB       database.Connection
	DBDriver database.Driver

	// Redis, nil when the transition cache is in process
	RedisClient *redis.Client

	// Repositories
	StatusRepo     domain.StatusRepository
	TransitionRepo domain.TransitionRepository
	TaskRepo       domain.TaskRepository
	HistoryRepo    domain.HistoryRepository
	OutboxRepo     outbox.Repository

	UnitOfWork application.UnitOfWork

	// Events. Without RabbitMQ the publisher is the in-process bus.
	EventPublisher    eventbus.Publisher
	InProcessEventBus *eventbus.InProcessEventBus
	OutboxProcessor   *outbox.Processor
	Notifier          *notification.BrokerNotifier
	ActivityRecorder  *subscribers.ActivityRecorder

	Templates *templates.Registry
	Health    *observability.HealthRegistry

	// Status catalog
	CreateStatusHandler    *commands.CreateStatusHandler
	UpdateStatusHandler    *commands.UpdateStatusHandler
	DeleteStatusHandler    *commands.DeleteStatusHandler
	ReorderStatusesHandler *commands.ReorderStatusesHandler
	ListStatusesHandler    *queries.ListStatusesHandler

	// Transition graph
	ToggleTransitionHandler *commands.ToggleTransitionHandler
	ListTransitionsHandler  *queries.ListTransitionsHandler
	CheckTransitionHandler  *queries.CheckTransitionHandler
	WorkflowOverviewHandler *queries.WorkflowOverviewHandler
	ApplyTemplateHandler    *commands.ApplyTemplateHandler

	// Tasks
	CreateTaskHandler       *commands.CreateTaskHandler
	DeleteTaskHandler       *commands.DeleteTaskHandler
	ChangeTaskStatusHandler *commands.ChangeTaskStatusHandler
	GetTaskHandler          *queries.GetTaskHandler
	ListTasksHandler        *queries.ListTasksHandler
	AllowedTargetsHandler   *queries.AllowedTargetsHandler
	TaskHistoryHandler      *queries.TaskHistoryHandler
}

// NewContainer connects to the configured backends and wires all
// dependencies. Redis and RabbitMQ are optional: without them the
// transition cache and event delivery stay in process.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	dbCfg := database.Config{URL: cfg.DatabaseURL, SQLitePath: cfg.SQLitePath}
	switch {
	case cfg.IsSQLite():
		dbCfg.Driver = database.DriverSQLite
	case cfg.IsPostgres():
		dbCfg.Driver = database.DriverPostgres
	}

	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.Info("connected to database", "driver", conn.Driver())

	c, err := NewContainerWithConnection(ctx, cfg, conn, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	return c, nil
}

// NewLocalContainer creates a zero-config container on the local SQLite
// file, without Redis or RabbitMQ.
func NewLocalContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	local := *cfg
	local.LocalMode = true
	local.DatabaseDriver = string(database.DriverSQLite)
	local.RedisURL = ""
	local.RabbitMQURL = ""
	return NewContainer(ctx, &local, logger)
}

// NewContainerWithConnection wires the container on an open connection and
// applies pending migrations. On success Close releases conn.
func NewContainerWithConnection(ctx context.Context, cfg *config.Config, conn database.Connection, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config:   cfg,
		Logger:   logger,
		DB:       conn,
		DBDriver: conn.Driver(),
		Health:   observability.NewHealthRegistry(2 * time.Second),
	}
	c.Health.Register("database", observability.DatabaseHealthChecker(conn.Ping))

	if err := migrations.Run(ctx, conn); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	repos, err := NewRepositoryFactory(conn).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create repositories: %w", err)
	}
	c.StatusRepo = repos.Statuses
	c.TaskRepo = repos.Tasks
	c.HistoryRepo = repos.History
	c.OutboxRepo = repos.Outbox
	c.UnitOfWork = database.NewUnitOfWork(conn)

	edgeStore, err := c.edgeStore(ctx)
	if err != nil {
		return nil, err
	}
	c.TransitionRepo = cache.NewCachedTransitionRepository(repos.Transitions, edgeStore, logger)

	if err := c.initEvents(); err != nil {
		c.closeClients()
		return nil, err
	}

	c.Templates, err = templates.NewRegistry()
	if err != nil {
		c.closeClients()
		return nil, fmt.Errorf("failed to load builtin templates: %w", err)
	}
	if err := c.Templates.LoadDir(cfg.WorkflowTemplateDir); err != nil {
		c.closeClients()
		return nil, fmt.Errorf("failed to load workflow templates: %w", err)
	}

	c.wireHandlers()

	logger.Info("container initialized",
		"driver", c.DBDriver,
		"redis", c.RedisClient != nil,
		"in_process_events", c.InProcessEventBus != nil,
	)
	return c, nil
}

func (c *Container) edgeStore(ctx context.Context) (cache.EdgeStore, error) {
	cfg, logger := c.Config, c.Logger
	if cfg.RedisURL == "" {
		return cache.NewMemoryEdgeStore(cfg.TransitionCacheTTL), nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		logger.Warn("invalid Redis URL, transition cache will use in-memory fallback", "error", err)
		return cache.NewMemoryEdgeStore(cfg.TransitionCacheTTL), nil
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !cfg.IsDevelopment() {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		logger.Warn("Redis not available, transition cache will use in-memory fallback", "error", err)
		return cache.NewMemoryEdgeStore(cfg.TransitionCacheTTL), nil
	}

	c.RedisClient = client
	c.Health.Register("redis", observability.RedisHealthChecker(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}))
	logger.Info("connected to Redis")
	return cache.NewRedisEdgeStore(client, cfg.TransitionCacheTTL), nil
}

func (c *Container) initEvents() error {
	cfg, logger := c.Config, c.Logger
	c.ActivityRecorder = subscribers.NewActivityRecorder(c.HistoryRepo, logger)

	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		switch {
		case err == nil:
			c.EventPublisher = publisher
			c.Health.Register("rabbitmq", observability.RabbitMQHealthChecker(func(context.Context) error {
				if publisher.IsClosed() {
					return fmt.Errorf("connection closed")
				}
				return nil
			}))
		case cfg.IsDevelopment():
			logger.Warn("RabbitMQ not available, dispatching events in process", "error", err)
		default:
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
	}

	if c.EventPublisher == nil {
		c.InProcessEventBus = eventbus.NewInProcessEventBus(logger)
		c.InProcessEventBus.RegisterConsumer(c.ActivityRecorder)
		c.EventPublisher = c.InProcessEventBus
	}

	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, outbox.ProcessorConfig{
		PollInterval:     cfg.OutboxPollInterval,
		BatchSize:        cfg.OutboxBatchSize,
		MaxRetries:       cfg.OutboxMaxRetries,
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
	}, logger.With("component", "outbox"))

	c.Notifier = notification.NewBrokerNotifier(c.EventPublisher, notification.BrokerNotifierConfig{
		FailureThreshold: convert.IntToUint32Clamped(cfg.NotifyBreakerThreshold),
		OpenTimeout:      cfg.NotifyBreakerTimeout,
	}, logger)
	return nil
}

func (c *Container) wireHandlers() {
	uow, notifier := c.UnitOfWork, c.Notifier

	c.CreateStatusHandler = commands.NewCreateStatusHandler(c.StatusRepo, uow, notifier)
	c.UpdateStatusHandler = commands.NewUpdateStatusHandler(c.StatusRepo, uow, notifier)
	c.DeleteStatusHandler = commands.NewDeleteStatusHandler(c.StatusRepo, c.TransitionRepo, c.TaskRepo, uow, notifier)
	c.ReorderStatusesHandler = commands.NewReorderStatusesHandler(c.StatusRepo, uow, notifier, c.Config.StrictReorder)
	c.ListStatusesHandler = queries.NewListStatusesHandler(c.StatusRepo)

	c.ToggleTransitionHandler = commands.NewToggleTransitionHandler(c.StatusRepo, c.TransitionRepo, uow, notifier)
	c.ListTransitionsHandler = queries.NewListTransitionsHandler(c.TransitionRepo)
	c.CheckTransitionHandler = queries.NewCheckTransitionHandler(c.TransitionRepo)
	c.WorkflowOverviewHandler = queries.NewWorkflowOverviewHandler(c.StatusRepo, c.TransitionRepo)
	c.ApplyTemplateHandler = commands.NewApplyTemplateHandler(c.StatusRepo, c.TransitionRepo, uow, notifier)

	c.CreateTaskHandler = commands.NewCreateTaskHandler(c.TaskRepo, c.StatusRepo, c.OutboxRepo, uow)
	c.DeleteTaskHandler = commands.NewDeleteTaskHandler(c.TaskRepo, c.OutboxRepo, uow)
	c.ChangeTaskStatusHandler = commands.NewChangeTaskStatusHandler(c.TaskRepo, c.StatusRepo, c.TransitionRepo, c.OutboxRepo, uow)
	c.GetTaskHandler = queries.NewGetTaskHandler(c.TaskRepo)
	c.ListTasksHandler = queries.NewListTasksHandler(c.TaskRepo)
	c.AllowedTargetsHandler = queries.NewAllowedTargetsHandler(c.TaskRepo, c.StatusRepo, c.TransitionRepo)
	c.TaskHistoryHandler = queries.NewTaskHistoryHandler(c.HistoryRepo)
}

// Close waits for pending notifications and releases every connection.
func (c *Container) Close() {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}
	if c.Notifier != nil {
		c.Notifier.Wait()
	}
	c.closeClients()

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			c.Logger.Warn("error closing database connection", "error", err)
		} else {
			c.Logger.Info("database connection closed", "driver", c.DBDriver)
		}
	}
}

func (c *Container) closeClients() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
		c.EventPublisher = nil
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			c.Logger.Warn("error closing Redis connection", "error", err)
		}
		c.RedisClient = nil
	}
}
