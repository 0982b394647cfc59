package commands

import (
	"context"

	sharedApplication "github.com/felixgeelhaar/fokus/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/fokus/internal/shared/domain"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// maxSlugAttempts bounds retries when a concurrent writer takes a slug
// between the catalog read and the insert.
const maxSlugAttempts = 3

// saveEvents stamps the aggregate's pending events with metadata and
// writes them to the outbox in the caller's unit of work.
func saveEvents(ctx context.Context, outboxRepo outbox.Repository, aggregate sharedDomain.AggregateRoot, actorID uuid.UUID) error {
	events := aggregate.DomainEvents()
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.NewEventMetadata(ctx, actorID))

	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	if err := outboxRepo.SaveBatch(ctx, msgs); err != nil {
		return err
	}
	aggregate.ClearDomainEvents()
	return nil
}
