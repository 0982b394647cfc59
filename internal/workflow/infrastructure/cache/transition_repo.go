package cache

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
)

// CachedTransitionRepository serves IsAllowed and ListEdges from an
// EdgeStore. Reads inside a transaction go to the database so a command
// always sees its own writes. Writes invalidate the project's entry
// immediately and again once the transaction commits, so a reader that
// refilled the cache from pre-commit data is corrected.
type CachedTransitionRepository struct {
	inner  domain.TransitionRepository
	store  EdgeStore
	logger *slog.Logger
}

// NewCachedTransitionRepository wraps inner with store.
func NewCachedTransitionRepository(inner domain.TransitionRepository, store EdgeStore, logger *slog.Logger) *CachedTransitionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedTransitionRepository{inner: inner, store: store, logger: logger.With("component", "transition_cache")}
}

func (r *CachedTransitionRepository) Exists(ctx context.Context, projectID, from, to uuid.UUID) (bool, error) {
	if database.InTransaction(ctx) {
		return r.inner.Exists(ctx, projectID, from, to)
	}
	edges, err := r.edges(ctx, projectID)
	if err != nil {
		return false, err
	}
	return domain.NewGraph(edges).Allows(from, to), nil
}

func (r *CachedTransitionRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Transition, error) {
	if database.InTransaction(ctx) {
		return r.inner.FindByProject(ctx, projectID)
	}
	return r.edges(ctx, projectID)
}

func (r *CachedTransitionRepository) edges(ctx context.Context, projectID uuid.UUID) ([]*domain.Transition, error) {
	edges, hit, err := r.store.Get(ctx, projectID)
	if err != nil {
		r.logger.Warn("edge cache read failed", "project_id", projectID, "error", err)
	}
	if hit {
		return edges, nil
	}

	edges, err = r.inner.FindByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := r.store.Set(ctx, projectID, edges); err != nil {
		r.logger.Warn("edge cache write failed", "project_id", projectID, "error", err)
	}
	return edges, nil
}

func (r *CachedTransitionRepository) Create(ctx context.Context, t *domain.Transition) (bool, error) {
	created, err := r.inner.Create(ctx, t)
	if err != nil {
		return false, err
	}
	r.invalidate(ctx, t.ProjectID())
	return created, nil
}

func (r *CachedTransitionRepository) Delete(ctx context.Context, projectID, from, to uuid.UUID) (bool, error) {
	removed, err := r.inner.Delete(ctx, projectID, from, to)
	if err != nil {
		return false, err
	}
	if removed {
		r.invalidate(ctx, projectID)
	}
	return removed, nil
}

func (r *CachedTransitionRepository) DeleteByStatus(ctx context.Context, projectID, statusID uuid.UUID) (int64, error) {
	n, err := r.inner.DeleteByStatus(ctx, projectID, statusID)
	if err != nil {
		return 0, err
	}
	r.invalidate(ctx, projectID)
	return n, nil
}

func (r *CachedTransitionRepository) invalidate(ctx context.Context, projectID uuid.UUID) {
	drop := func(ctx context.Context) {
		if err := r.store.Invalidate(ctx, projectID); err != nil {
			r.logger.Warn("edge cache invalidation failed", "project_id", projectID, "error", err)
		}
	}
	drop(ctx)
	hookCtx := context.WithoutCancel(ctx)
	database.AfterCommit(ctx, func() { drop(hookCtx) })
}
