package outbox_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/fokus/internal/shared/domain"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/fokus/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusChanged struct {
	domain.BaseEvent
}

func seed(t *testing.T, repo outbox.Repository, routingKeys ...string) []*outbox.Message {
	t.Helper()
	var msgs []*outbox.Message
	for _, key := range routingKeys {
		msg, err := outbox.NewMessage(&statusChanged{BaseEvent: domain.NewBaseEvent(uuid.New(), "Task", key)})
		require.NoError(t, err)
		msgs = append(msgs, msg)
	}
	require.NoError(t, repo.SaveBatch(context.Background(), msgs))
	return msgs
}

func TestProcessor_PublishesPendingMessages(t *testing.T) {
	repo := outbox.NewInMemoryRepository()
	pub := eventbus.NewMemoryPublisher()
	processor := outbox.NewProcessor(repo, pub, outbox.DefaultProcessorConfig(), nil)
	seed(t, repo, "workflow.task.created", "workflow.task.status_changed")

	require.NoError(t, processor.ProcessOnce(context.Background()))

	published := pub.Messages()
	require.Len(t, published, 2)
	assert.Equal(t, "workflow.task.created", published[0].RoutingKey)
	for _, msg := range repo.Messages() {
		assert.True(t, msg.IsPublished())
	}

	stats := processor.GetStats()
	assert.Equal(t, uint64(2), stats.PublishedCount)
	assert.NotNil(t, stats.LastProcessedAt)
	assert.NotNil(t, stats.OldestMessageAt)

	require.NoError(t, processor.ProcessOnce(context.Background()))
	assert.Len(t, pub.Messages(), 2, "published messages are not sent twice")
	assert.Nil(t, processor.GetStats().OldestMessageAt)
}

func TestProcessor_RetriesWithBackoff(t *testing.T) {
	repo := outbox.NewInMemoryRepository()
	pub := eventbus.NewMemoryPublisher()
	pub.FailWith(errors.New("broker unavailable"))
	cfg := outbox.DefaultProcessorConfig()
	cfg.RetryBackoffBase = time.Hour
	cfg.RetryBackoffMax = 2 * time.Hour
	processor := outbox.NewProcessor(repo, pub, cfg, nil)
	msgs := seed(t, repo, "workflow.task.status_changed")

	before := time.Now()
	require.NoError(t, processor.ProcessOnce(context.Background()))

	msg := msgs[0]
	assert.Equal(t, 1, msg.RetryCount)
	require.NotNil(t, msg.LastError)
	assert.Equal(t, "broker unavailable", *msg.LastError)
	require.NotNil(t, msg.NextRetryAt)
	assert.True(t, msg.NextRetryAt.After(before.Add(59*time.Minute)))
	assert.Equal(t, uint64(1), processor.GetStats().FailedCount)

	pub.FailWith(nil)
	require.NoError(t, processor.ProcessOnce(context.Background()))
	assert.Empty(t, pub.Messages(), "message waits for its retry time")
}

func TestProcessor_RetryBackoffIsCapped(t *testing.T) {
	repo := outbox.NewInMemoryRepository()
	pub := eventbus.NewMemoryPublisher()
	pub.FailWith(errors.New("broker unavailable"))
	cfg := outbox.DefaultProcessorConfig()
	cfg.RetryBackoffBase = time.Hour
	cfg.RetryBackoffMax = time.Minute
	processor := outbox.NewProcessor(repo, pub, cfg, nil)
	msgs := seed(t, repo, "workflow.task.status_changed")

	before := time.Now()
	require.NoError(t, processor.ProcessOnce(context.Background()))
	after := time.Now()

	msg := msgs[0]
	require.NotNil(t, msg.NextRetryAt)
	assert.False(t, msg.NextRetryAt.Before(before.Add(time.Minute)))
	assert.False(t, msg.NextRetryAt.After(after.Add(time.Minute)))
}

func TestProcessor_DeadLettersAfterMaxRetries(t *testing.T) {
	repo := outbox.NewInMemoryRepository()
	pub := eventbus.NewMemoryPublisher()
	pub.FailWith(errors.New("rejected"))
	cfg := outbox.DefaultProcessorConfig()
	cfg.MaxRetries = 1
	processor := outbox.NewProcessor(repo, pub, cfg, nil)
	msgs := seed(t, repo, "workflow.task.status_changed")

	require.NoError(t, processor.ProcessOnce(context.Background()))

	assert.True(t, msgs[0].IsDead())
	require.NotNil(t, msgs[0].DeadLetterReason)
	assert.Equal(t, "rejected", *msgs[0].DeadLetterReason)
	assert.Equal(t, uint64(1), processor.GetStats().DeadCount)
}

func TestProcessor_Cleanup(t *testing.T) {
	repo := outbox.NewInMemoryRepository()
	processor := outbox.NewProcessor(repo, eventbus.NewMemoryPublisher(), outbox.DefaultProcessorConfig(), nil)
	msgs := seed(t, repo, "a", "b")
	require.NoError(t, repo.MarkPublished(context.Background(), msgs[0].ID))

	deleted, err := processor.Cleanup(context.Background(), -time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.Len(t, repo.Messages(), 1)
}

func TestProcessor_StartStop(t *testing.T) {
	repo := outbox.NewInMemoryRepository()
	pub := eventbus.NewMemoryPublisher()
	cfg := outbox.DefaultProcessorConfig()
	cfg.PollInterval = 5 * time.Millisecond
	processor := outbox.NewProcessor(repo, pub, cfg, nil)
	seed(t, repo, "workflow.task.created")

	require.NoError(t, processor.Start(context.Background()))
	require.NoError(t, processor.Start(context.Background()))
	assert.True(t, processor.IsRunning())

	assert.Eventually(t, func() bool { return len(pub.Messages()) == 1 }, time.Second, 5*time.Millisecond)

	processor.Stop()
	processor.Stop()
	assert.False(t, processor.GetStats().IsRunning)
}
