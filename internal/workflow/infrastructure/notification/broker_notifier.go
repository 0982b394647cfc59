package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/sony/gobreaker/v2"
)

// BrokerNotifierConfig configures the broker-backed notifier.
type BrokerNotifierConfig struct {
	// FailureThreshold is the number of consecutive publish failures that
	// opens the breaker.
	FailureThreshold uint32

	// OpenTimeout is how long the breaker stays open before probing again.
	OpenTimeout time.Duration

	// PublishTimeout bounds a single publish.
	PublishTimeout time.Duration
}

// DefaultBrokerNotifierConfig returns sensible defaults.
func DefaultBrokerNotifierConfig() BrokerNotifierConfig {
	return BrokerNotifierConfig{
		FailureThreshold: 5,
		OpenTimeout:      30 * time.Second,
		PublishTimeout:   5 * time.Second,
	}
}

// BrokerNotifier publishes WorkflowUpdated events to the message broker in
// the background. While the broker is failing the breaker is open and
// notifications are dropped without waiting on the network.
type BrokerNotifier struct {
	publisher eventbus.Publisher
	breaker   *gobreaker.CircuitBreaker[struct{}]
	timeout   time.Duration
	logger    *slog.Logger
	wg        sync.WaitGroup
}

// NewBrokerNotifier creates a notifier that publishes through publisher.
func NewBrokerNotifier(publisher eventbus.Publisher, config BrokerNotifierConfig, logger *slog.Logger) *BrokerNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "workflow_notifier")

	defaults := DefaultBrokerNotifierConfig()
	if config.FailureThreshold == 0 {
		config.FailureThreshold = defaults.FailureThreshold
	}
	if config.OpenTimeout <= 0 {
		config.OpenTimeout = defaults.OpenTimeout
	}
	if config.PublishTimeout <= 0 {
		config.PublishTimeout = defaults.PublishTimeout
	}

	settings := gobreaker.Settings{
		Name:        "workflow-notifier",
		MaxRequests: 1,
		Timeout:     config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &BrokerNotifier{
		publisher: publisher,
		breaker:   gobreaker.NewCircuitBreaker[struct{}](settings),
		timeout:   config.PublishTimeout,
		logger:    logger,
	}
}

// NotifyWorkflowUpdated returns immediately. The publish runs detached from
// the caller's cancellation.
func (n *BrokerNotifier) NotifyWorkflowUpdated(ctx context.Context, event *domain.WorkflowUpdated) {
	if event == nil {
		return
	}
	payload, err := eventbus.MarshalEnvelope(event)
	if err != nil {
		n.logger.Error("failed to encode workflow notification", "project_id", event.ProjectID, "error", err)
		return
	}

	publishCtx := context.WithoutCancel(ctx)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		ctx, cancel := context.WithTimeout(publishCtx, n.timeout)
		defer cancel()

		_, err := n.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, n.publisher.Publish(ctx, event.RoutingKey(), payload)
		})
		if err != nil {
			n.logger.Warn("workflow notification dropped",
				"project_id", event.ProjectID,
				"change", event.Change,
				"error", err,
			)
			return
		}
		n.logger.Debug("workflow notification published", "project_id", event.ProjectID, "change", event.Change)
	}()
}

// State reports the breaker state.
func (n *BrokerNotifier) State() gobreaker.State {
	return n.breaker.State()
}

// Wait blocks until in-flight notifications finish.
func (n *BrokerNotifier) Wait() {
	n.wg.Wait()
}
