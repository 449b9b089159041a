package workshop

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tailor/backend/internal/domain/order"
	"github.com/tailor/backend/internal/domain/shared"
	domain "github.com/tailor/backend/internal/domain/workshop"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockWorkerRepository struct {
	mock.Mock
}

func (m *MockWorkerRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Worker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Worker), args.Error(1)
}

func (m *MockWorkerRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[domain.Worker], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[domain.Worker]), args.Error(1)
}

func (m *MockWorkerRepository) FindActive(ctx context.Context) ([]*domain.Worker, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*domain.Worker), args.Error(1)
}

func (m *MockWorkerRepository) Save(ctx context.Context, worker *domain.Worker) error {
	args := m.Called(ctx, worker)
	return args.Error(0)
}

func (m *MockWorkerRepository) SaveWithLock(ctx context.Context, worker *domain.Worker) error {
	args := m.Called(ctx, worker)
	return args.Error(0)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.WorkTask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkTask), args.Error(1)
}

func (m *MockTaskRepository) FindOpenByOrder(ctx context.Context, orderID uuid.UUID) (*domain.WorkTask, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkTask), args.Error(1)
}

func (m *MockTaskRepository) FindByWorker(ctx context.Context, workerID uuid.UUID) ([]*domain.WorkTask, error) {
	args := m.Called(ctx, workerID)
	return args.Get(0).([]*domain.WorkTask), args.Error(1)
}

func (m *MockTaskRepository) StatsByClothType(ctx context.Context, clothType string) ([]domain.TurnaroundStats, error) {
	args := m.Called(ctx, clothType)
	return args.Get(0).([]domain.TurnaroundStats), args.Error(1)
}

func (m *MockTaskRepository) Save(ctx context.Context, task *domain.WorkTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]order.Order, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, ord *order.Order) error {
	args := m.Called(ctx, ord)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, ord *order.Order) error {
	args := m.Called(ctx, ord)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, status order.Status) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountDeliveredByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountActiveByWorker(ctx context.Context, workerID uuid.UUID) (int64, error) {
	args := m.Called(ctx, workerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// =============================================================================
// Tests
// =============================================================================

type workshopTestEnv struct {
	service *Service
	workers *MockWorkerRepository
	tasks   *MockTaskRepository
	orders  *MockOrderRepository
}

func newWorkshopTestEnv() *workshopTestEnv {
	workers := new(MockWorkerRepository)
	tasks := new(MockTaskRepository)
	orders := new(MockOrderRepository)
	return &workshopTestEnv{
		service: NewService(workers, tasks, orders, zap.NewNop()),
		workers: workers,
		tasks:   tasks,
		orders:  orders,
	}
}

func newActiveWorker(t *testing.T, name string) *domain.Worker {
	w, err := domain.NewWorker(name, "tailor", "", "shirt", decimal.NewFromInt(15000))
	require.NoError(t, err)
	return w
}

func TestService_RecommendWorker(t *testing.T) {
	ctx := context.Background()

	t.Run("prefers the least loaded specialist", func(t *testing.T) {
		env := newWorkshopTestEnv()
		busySpecialist := newActiveWorker(t, "Ravi")
		idleSpecialist := newActiveWorker(t, "Meera")
		generalist := newActiveWorker(t, "Karan")

		env.workers.On("FindActive", ctx).
			Return([]*domain.Worker{busySpecialist, idleSpecialist, generalist}, nil)
		env.orders.On("CountActiveByWorker", ctx, busySpecialist.ID).Return(int64(5), nil)
		env.orders.On("CountActiveByWorker", ctx, idleSpecialist.ID).Return(int64(1), nil)
		env.orders.On("CountActiveByWorker", ctx, generalist.ID).Return(int64(0), nil)
		env.tasks.On("StatsByClothType", ctx, "shirt").Return([]domain.TurnaroundStats{
			{WorkerID: busySpecialist.ID, CompletedTasks: 10, AvgTurnaround: 2.0},
			{WorkerID: idleSpecialist.ID, CompletedTasks: 4, AvgTurnaround: 2.5},
		}, nil)

		rec, err := env.service.RecommendWorker(ctx, "Shirt")

		require.NoError(t, err)
		assert.Equal(t, idleSpecialist.ID.String(), rec.Worker.ID)
		assert.True(t, rec.Specialist)
		assert.Equal(t, int64(1), rec.ActiveOrders)
	})

	t.Run("slow or unproven workers never count as specialists", func(t *testing.T) {
		env := newWorkshopTestEnv()
		slow := newActiveWorker(t, "Ravi")
		unproven := newActiveWorker(t, "Meera")

		env.workers.On("FindActive", ctx).Return([]*domain.Worker{slow, unproven}, nil)
		env.orders.On("CountActiveByWorker", ctx, slow.ID).Return(int64(3), nil)
		env.orders.On("CountActiveByWorker", ctx, unproven.ID).Return(int64(4), nil)
		env.tasks.On("StatsByClothType", ctx, "shirt").Return([]domain.TurnaroundStats{
			// fast average but not enough completed work
			{WorkerID: unproven.ID, CompletedTasks: 2, AvgTurnaround: 1.0},
			// plenty of work but too slow
			{WorkerID: slow.ID, CompletedTasks: 8, AvgTurnaround: 3.5},
		}, nil)

		rec, err := env.service.RecommendWorker(ctx, "shirt")

		require.NoError(t, err)
		assert.False(t, rec.Specialist)
		// falls back to the least loaded active worker
		assert.Equal(t, slow.ID.String(), rec.Worker.ID)
		assert.Equal(t, int64(3), rec.ActiveOrders)
	})

	t.Run("exactly three day average still qualifies", func(t *testing.T) {
		env := newWorkshopTestEnv()
		w := newActiveWorker(t, "Ravi")

		env.workers.On("FindActive", ctx).Return([]*domain.Worker{w}, nil)
		env.orders.On("CountActiveByWorker", ctx, w.ID).Return(int64(2), nil)
		env.tasks.On("StatsByClothType", ctx, "shirt").Return([]domain.TurnaroundStats{
			{WorkerID: w.ID, CompletedTasks: 3, AvgTurnaround: 3.0},
		}, nil)

		rec, err := env.service.RecommendWorker(ctx, "shirt")

		require.NoError(t, err)
		assert.True(t, rec.Specialist)
	})

	t.Run("no history falls back to the least loaded worker", func(t *testing.T) {
		env := newWorkshopTestEnv()
		a := newActiveWorker(t, "Ravi")
		b := newActiveWorker(t, "Meera")

		env.workers.On("FindActive", ctx).Return([]*domain.Worker{a, b}, nil)
		env.orders.On("CountActiveByWorker", ctx, a.ID).Return(int64(2), nil)
		env.orders.On("CountActiveByWorker", ctx, b.ID).Return(int64(0), nil)
		env.tasks.On("StatsByClothType", ctx, "kurta").Return([]domain.TurnaroundStats{}, nil)

		rec, err := env.service.RecommendWorker(ctx, "kurta")

		require.NoError(t, err)
		assert.Equal(t, b.ID.String(), rec.Worker.ID)
		assert.False(t, rec.Specialist)
		assert.Equal(t, int64(0), rec.ActiveOrders)
	})

	t.Run("no active workers is an error", func(t *testing.T) {
		env := newWorkshopTestEnv()
		env.workers.On("FindActive", ctx).Return([]*domain.Worker{}, nil)

		_, err := env.service.RecommendWorker(ctx, "shirt")

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NO_WORKERS", domainErr.Code)
	})

	t.Run("empty cloth type is rejected", func(t *testing.T) {
		env := newWorkshopTestEnv()
		_, err := env.service.RecommendWorker(ctx, "  ")
		assert.Error(t, err)
	})
}

func TestService_CreateWorker(t *testing.T) {
	ctx := context.Background()

	t.Run("registers and persists the worker", func(t *testing.T) {
		env := newWorkshopTestEnv()
		env.workers.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := env.service.CreateWorker(ctx, CreateWorkerRequest{
			Name:           "Ravi Kumar",
			Role:           "tailor",
			Specialization: "Suit",
			MonthlySalary:  18000,
		})

		require.NoError(t, err)
		assert.Equal(t, "suit", resp.Specialization)
		assert.True(t, resp.Active)
	})

	t.Run("propagates domain validation errors", func(t *testing.T) {
		env := newWorkshopTestEnv()

		_, err := env.service.CreateWorker(ctx, CreateWorkerRequest{Name: "  "})

		require.Error(t, err)
		env.workers.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestService_DeactivateWorker(t *testing.T) {
	ctx := context.Background()

	env := newWorkshopTestEnv()
	w := newActiveWorker(t, "Ravi")

	env.workers.On("FindByID", ctx, w.ID).Return(w, nil)
	env.workers.On("SaveWithLock", ctx, w).Return(nil)

	require.NoError(t, env.service.DeactivateWorker(ctx, w.ID))
	assert.False(t, w.Active)
}
