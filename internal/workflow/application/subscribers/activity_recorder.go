package subscribers

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
)

// ActivityRecorder listens for status changes and appends them to the
// task activity log.
type ActivityRecorder struct {
	historyRepo domain.HistoryRepository
	logger      *slog.Logger
}

// NewActivityRecorder creates a new activity recorder.
func NewActivityRecorder(historyRepo domain.HistoryRepository, logger *slog.Logger) *ActivityRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityRecorder{historyRepo: historyRepo, logger: logger}
}

// EventTypes returns the event types this subscriber handles.
func (r *ActivityRecorder) EventTypes() []string {
	return []string{domain.RoutingKeyTaskStatusChanged}
}

// Handle records one status change. Redelivered events are absorbed by the
// repository's idempotent append.
func (r *ActivityRecorder) Handle(ctx context.Context, event *eventbus.ConsumedEvent) error {
	if event.RoutingKey != domain.RoutingKeyTaskStatusChanged {
		r.logger.Warn("unknown event type", "routing_key", event.RoutingKey)
		return nil
	}

	var payload domain.TaskStatusChanged
	if err := event.Decode(&payload); err != nil {
		return err
	}
	if payload.ChangedAt.IsZero() {
		payload.ChangedAt = event.OccurredAt
	}

	if err := r.historyRepo.Append(ctx, domain.StatusChangeFromEvent(event.EventID, payload)); err != nil {
		return err
	}

	r.logger.Debug("recorded status change",
		"task_id", payload.TaskID,
		"from", payload.OldStatusID,
		"to", payload.NewStatusID,
		"event_id", event.EventID,
	)
	return nil
}
