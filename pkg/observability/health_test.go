package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ok(context.Context) error { return nil }

func failing(context.Context) error { return errors.New("dial tcp: connection refused") }

func TestHealthRegistry_Check(t *testing.T) {
	t.Run("empty registry is healthy", func(t *testing.T) {
		report := NewHealthRegistry(0).Check(context.Background())
		assert.Equal(t, HealthStatusHealthy, report.Status)
		assert.Empty(t, report.Checks)
	})

	t.Run("optional dependency degrades", func(t *testing.T) {
		r := NewHealthRegistry(time.Second)
		r.Register("database", DatabaseHealthChecker(ok))
		r.Register("redis", RedisHealthChecker(failing))

		report := r.Check(context.Background())
		assert.Equal(t, HealthStatusDegraded, report.Status)
		assert.Equal(t, HealthStatusHealthy, report.Checks["database"].Status)
		assert.Contains(t, report.Checks["redis"].Message, "connection refused")
		assert.Equal(t, []string{"database", "redis"}, r.Names())
	})

	t.Run("critical dependency makes the service unhealthy", func(t *testing.T) {
		r := NewHealthRegistry(time.Second)
		r.Register("database", DatabaseHealthChecker(failing))
		r.Register("rabbitmq", RabbitMQHealthChecker(failing))

		report := r.Check(context.Background())
		assert.Equal(t, HealthStatusUnhealthy, report.Status)
		assert.Equal(t, HealthStatusDegraded, report.Checks["rabbitmq"].Status)
	})

	t.Run("timeout bounds slow checks", func(t *testing.T) {
		r := NewHealthRegistry(10 * time.Millisecond)
		r.Register("database", DatabaseHealthChecker(func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}))

		report := r.Check(context.Background())
		assert.Equal(t, HealthStatusUnhealthy, report.Status)
		assert.Less(t, report.Checks["database"].Duration, time.Second)
	})
}
