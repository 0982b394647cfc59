package commands

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/fokus/internal/workflow/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type txKey struct{}

// newTxContexts returns a base context and the context Begin hands out.
func newTxContexts() (context.Context, context.Context) {
	ctx := context.Background()
	return ctx, context.WithValue(ctx, txKey{}, "transaction")
}

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockStatusRepo struct {
	mock.Mock
}

func (m *mockStatusRepo) Save(ctx context.Context, status *domain.Status) error {
	return m.Called(ctx, status).Error(0)
}

func (m *mockStatusRepo) FindByID(ctx context.Context, projectID, statusID uuid.UUID) (*domain.Status, error) {
	args := m.Called(ctx, projectID, statusID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Status), args.Error(1)
}

func (m *mockStatusRepo) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Status, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Status), args.Error(1)
}

func (m *mockStatusRepo) UpdateOrder(ctx context.Context, projectID, statusID uuid.UUID, order int) (bool, error) {
	args := m.Called(ctx, projectID, statusID, order)
	return args.Bool(0), args.Error(1)
}

func (m *mockStatusRepo) Delete(ctx context.Context, projectID, statusID uuid.UUID) error {
	return m.Called(ctx, projectID, statusID).Error(0)
}

type mockTransitionRepo struct {
	mock.Mock
}

func (m *mockTransitionRepo) Exists(ctx context.Context, projectID, from, to uuid.UUID) (bool, error) {
	args := m.Called(ctx, projectID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *mockTransitionRepo) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Transition, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Transition), args.Error(1)
}

func (m *mockTransitionRepo) Create(ctx context.Context, t *domain.Transition) (bool, error) {
	args := m.Called(ctx, t)
	return args.Bool(0), args.Error(1)
}

func (m *mockTransitionRepo) Delete(ctx context.Context, projectID, from, to uuid.UUID) (bool, error) {
	args := m.Called(ctx, projectID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *mockTransitionRepo) DeleteByStatus(ctx context.Context, projectID, statusID uuid.UUID) (int64, error) {
	args := m.Called(ctx, projectID, statusID)
	return args.Get(0).(int64), args.Error(1)
}

type mockTaskRepo struct {
	mock.Mock
}

func (m *mockTaskRepo) Save(ctx context.Context, task *domain.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *mockTaskRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *mockTaskRepo) Find(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Task), args.Error(1)
}

func (m *mockTaskRepo) CountByStatus(ctx context.Context, projectID, statusID uuid.UUID) (int, error) {
	args := m.Called(ctx, projectID, statusID)
	return args.Int(0), args.Error(1)
}

func (m *mockTaskRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// recordingNotifier captures workflow notifications.
type recordingNotifier struct {
	mu     sync.Mutex
	events []*domain.WorkflowUpdated
}

func (n *recordingNotifier) NotifyWorkflowUpdated(_ context.Context, event *domain.WorkflowUpdated) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []*domain.WorkflowUpdated {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]*domain.WorkflowUpdated(nil), n.events...)
}

// testBoard is a ToDo / InProg / Done catalog in one project.
type testBoard struct {
	projectID uuid.UUID
	todo      *domain.Status
	inProg    *domain.Status
	done      *domain.Status
}

func newTestBoard() testBoard {
	projectID := uuid.New()
	catalog, _ := domain.NewCatalog(projectID, nil)
	todo, _ := catalog.Add("ToDo", "", 0, false)
	inProg, _ := catalog.Add("InProg", "", 1, false)
	done, _ := catalog.Add("Done", "", 2, true)
	return testBoard{projectID: projectID, todo: todo, inProg: inProg, done: done}
}

func (b testBoard) statuses() []*domain.Status {
	return []*domain.Status{b.todo, b.inProg, b.done}
}
