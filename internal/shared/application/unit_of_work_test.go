package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type txKey struct{}

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func setupUoW() (*mockUnitOfWork, context.Context, context.Context) {
	uow := new(mockUnitOfWork)
	ctx := context.Background()
	txCtx := context.WithValue(ctx, txKey{}, "tx")
	uow.On("Begin", ctx).Return(txCtx, nil)
	return uow, ctx, txCtx
}

func TestWithUnitOfWork(t *testing.T) {
	t.Run("commits with the transaction context", func(t *testing.T) {
		uow, ctx, txCtx := setupUoW()
		uow.On("Commit", txCtx).Return(nil)

		err := WithUnitOfWork(ctx, uow, func(got context.Context) error {
			assert.Equal(t, txCtx, got)
			return nil
		})

		require.NoError(t, err)
		uow.AssertExpectations(t)
	})

	t.Run("rolls back and returns the function error", func(t *testing.T) {
		uow, ctx, txCtx := setupUoW()
		uow.On("Rollback", txCtx).Return(errors.New("rollback failed"))
		fnErr := errors.New("boom")

		err := WithUnitOfWork(ctx, uow, func(context.Context) error { return fnErr })

		assert.Equal(t, fnErr, err)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("begin failure skips the function", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		beginErr := errors.New("no connection")
		uow.On("Begin", ctx).Return(ctx, beginErr)

		called := false
		err := WithUnitOfWork(ctx, uow, func(context.Context) error {
			called = true
			return nil
		})

		assert.Equal(t, beginErr, err)
		assert.False(t, called)
	})

	t.Run("commit error is returned", func(t *testing.T) {
		uow, ctx, txCtx := setupUoW()
		commitErr := errors.New("commit failed")
		uow.On("Commit", txCtx).Return(commitErr)

		err := WithUnitOfWork(ctx, uow, func(context.Context) error { return nil })

		assert.Equal(t, commitErr, err)
	})

	t.Run("panic rolls back and propagates", func(t *testing.T) {
		uow, ctx, txCtx := setupUoW()
		uow.On("Rollback", txCtx).Return(nil)

		assert.PanicsWithValue(t, "kaboom", func() {
			_ = WithUnitOfWork(ctx, uow, func(context.Context) error { panic("kaboom") })
		})
		uow.AssertCalled(t, "Rollback", txCtx)
	})
}

func TestWithUnitOfWorkResult(t *testing.T) {
	t.Run("returns the value on commit", func(t *testing.T) {
		uow, ctx, txCtx := setupUoW()
		uow.On("Commit", txCtx).Return(nil)

		got, err := WithUnitOfWorkResult(ctx, uow, func(context.Context) (int, error) { return 42, nil })

		require.NoError(t, err)
		assert.Equal(t, 42, got)
	})

	t.Run("returns zero value when commit fails", func(t *testing.T) {
		uow, ctx, txCtx := setupUoW()
		uow.On("Commit", txCtx).Return(errors.New("commit failed"))

		got, err := WithUnitOfWorkResult(ctx, uow, func(context.Context) (string, error) { return "ignored", nil })

		require.Error(t, err)
		assert.Empty(t, got)
	})
}
