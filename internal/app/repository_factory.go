package app

import (
	"fmt"

	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/felixgeelhaar/fokus/internal/workflow/infrastructure/persistence"
)

// RepositoryFactory creates repositories based on the database driver.
type RepositoryFactory struct {
	conn   database.Connection
	driver database.Driver
}

// NewRepositoryFactory creates a new repository factory.
func NewRepositoryFactory(conn database.Connection) *RepositoryFactory {
	return &RepositoryFactory{
		conn:   conn,
		driver: conn.Driver(),
	}
}

// Repositories is the full set used by the workflow handlers.
type Repositories struct {
	Statuses    domain.StatusRepository
	Transitions domain.TransitionRepository
	Tasks       domain.TaskRepository
	History     domain.HistoryRepository
	Outbox      outbox.Repository
}

// Build creates every repository for the configured driver.
func (f *RepositoryFactory) Build() (*Repositories, error) {
	switch f.driver {
	case database.DriverPostgres:
		return &Repositories{
			Statuses:    persistence.NewPostgresStatusRepository(f.conn),
			Transitions: persistence.NewPostgresTransitionRepository(f.conn),
			Tasks:       persistence.NewPostgresTaskRepository(f.conn),
			History:     persistence.NewPostgresHistoryRepository(f.conn),
			Outbox:      outbox.NewPostgresRepository(f.conn),
		}, nil

	case database.DriverSQLite:
		return &Repositories{
			Statuses:    persistence.NewSQLiteStatusRepository(f.conn),
			Transitions: persistence.NewSQLiteTransitionRepository(f.conn),
			Tasks:       persistence.NewSQLiteTaskRepository(f.conn),
			History:     persistence.NewSQLiteHistoryRepository(f.conn),
			Outbox:      outbox.NewSQLiteRepository(f.conn),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.driver)
	}
}
