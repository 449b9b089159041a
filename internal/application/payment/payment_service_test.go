package payment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tailor/backend/internal/application/notification"
	"github.com/tailor/backend/internal/application/transaction"
	"github.com/tailor/backend/internal/domain/billing"
	"github.com/tailor/backend/internal/domain/customer"
	"github.com/tailor/backend/internal/domain/inventory"
	"github.com/tailor/backend/internal/domain/order"
	domain "github.com/tailor/backend/internal/domain/payment"
	"github.com/tailor/backend/internal/domain/shared"
	"github.com/tailor/backend/internal/domain/workshop"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockInstallmentRepository struct {
	mock.Mock
}

func (m *MockInstallmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Installment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Installment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Installment, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) FindDue(ctx context.Context, asOf time.Time) ([]*domain.Installment, error) {
	args := m.Called(ctx, asOf)
	return args.Get(0).([]*domain.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) NextInstallmentNumber(ctx context.Context, orderID uuid.UUID) (int, error) {
	args := m.Called(ctx, orderID)
	return args.Int(0), args.Error(1)
}

func (m *MockInstallmentRepository) Save(ctx context.Context, installment *domain.Installment) error {
	args := m.Called(ctx, installment)
	return args.Error(0)
}

func (m *MockInstallmentRepository) SaveWithLock(ctx context.Context, installment *domain.Installment) error {
	args := m.Called(ctx, installment)
	return args.Error(0)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Append(ctx context.Context, txn *domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Transaction, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[domain.Transaction], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[domain.Transaction]), args.Error(1)
}

type MockReminderRepository struct {
	mock.Mock
}

func (m *MockReminderRepository) WasSentOn(ctx context.Context, installmentID uuid.UUID, day time.Time) (bool, error) {
	args := m.Called(ctx, installmentID, day)
	return args.Bool(0), args.Error(1)
}

func (m *MockReminderRepository) Append(ctx context.Context, reminder *domain.Reminder) error {
	args := m.Called(ctx, reminder)
	return args.Error(0)
}

func (m *MockReminderRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*domain.Reminder, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]*domain.Reminder), args.Error(1)
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

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindByPhone(ctx context.Context, phone string) (*customer.Customer, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.Customer, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]customer.Customer), args.Error(1)
}

func (m *MockCustomerRepository) Save(ctx context.Context, cust *customer.Customer) error {
	args := m.Called(ctx, cust)
	return args.Error(0)
}

func (m *MockCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// =============================================================================
// Test doubles
// =============================================================================

type stubRepositories struct {
	installments *MockInstallmentRepository
	transactions *MockTransactionRepository
	reminders    *MockReminderRepository
	orders       *MockOrderRepository
	customers    *MockCustomerRepository
}

func (r *stubRepositories) Orders() order.Repository                          { return r.orders }
func (r *stubRepositories) Materials() inventory.MaterialRepository           { return nil }
func (r *stubRepositories) Customers() customer.Repository                    { return r.customers }
func (r *stubRepositories) LoyaltyEntries() customer.LoyaltyEntryRepository   { return nil }
func (r *stubRepositories) Referrals() customer.ReferralRepository            { return nil }
func (r *stubRepositories) Coupons() billing.CouponRepository                 { return nil }
func (r *stubRepositories) Installments() domain.InstallmentRepository        { return r.installments }
func (r *stubRepositories) PaymentTransactions() domain.TransactionRepository { return r.transactions }
func (r *stubRepositories) Reminders() domain.ReminderRepository              { return r.reminders }
func (r *stubRepositories) Workers() workshop.WorkerRepository                { return nil }
func (r *stubRepositories) Tasks() workshop.TaskRepository                    { return nil }

type stubScope struct {
	repos *stubRepositories
}

func (s *stubScope) Execute(ctx context.Context, fn func(repos transaction.Repositories) error) error {
	return fn(s.repos)
}

type recordingGateway struct {
	mu       sync.Mutex
	sms      []string
	whatsapp []string
	fail     error
}

func (g *recordingGateway) SendSMS(ctx context.Context, phone, body string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail != nil {
		return g.fail
	}
	g.sms = append(g.sms, body)
	return nil
}

func (g *recordingGateway) SendWhatsApp(ctx context.Context, phone, body string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fail != nil {
		return g.fail
	}
	g.whatsapp = append(g.whatsapp, body)
	return nil
}

func (g *recordingGateway) SendEmail(ctx context.Context, to, subject, body string, attachments ...notification.EmailAttachment) error {
	return nil
}

type paymentTestEnv struct {
	service *Service
	repos   *stubRepositories
	gateway *recordingGateway
}

func newPaymentTestEnv() *paymentTestEnv {
	repos := &stubRepositories{
		installments: new(MockInstallmentRepository),
		transactions: new(MockTransactionRepository),
		reminders:    new(MockReminderRepository),
		orders:       new(MockOrderRepository),
		customers:    new(MockCustomerRepository),
	}
	gateway := &recordingGateway{}

	service := NewService(
		&stubScope{repos: repos},
		repos.installments,
		repos.transactions,
		repos.reminders,
		repos.orders,
		repos.customers,
		gateway,
		zap.NewNop(),
	)

	return &paymentTestEnv{service: service, repos: repos, gateway: gateway}
}

func newOrderInStatus(t *testing.T, status order.Status, total, advance int64) *order.Order {
	ord, err := order.NewOrder("ORD-2026-0077", uuid.New(), "shirt", 1,
		decimal.NewFromInt(total), decimal.Zero, decimal.NewFromInt(advance))
	require.NoError(t, err)

	if status == order.StatusPending {
		return ord
	}
	require.NoError(t, ord.BeginCutting(decimal.NewFromInt(200), decimal.NewFromInt(100), decimal.Zero))
	for _, next := range []order.Status{order.StatusStitching, order.StatusFinishing, order.StatusReady} {
		if ord.Status == status {
			break
		}
		require.NoError(t, ord.AdvanceTo(next))
	}
	require.Equal(t, status, ord.Status)
	ord.ClearDomainEvents()
	return ord
}

// ============================================
// ScheduleInstallment
// ============================================

func TestService_ScheduleInstallment(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns the next sequential number", func(t *testing.T) {
		env := newPaymentTestEnv()
		ord := newOrderInStatus(t, order.StatusCutting, 3000, 500)

		env.repos.orders.On("FindByID", ctx, ord.ID).Return(ord, nil)
		env.repos.installments.On("NextInstallmentNumber", ctx, ord.ID).Return(3, nil)
		env.repos.installments.On("Save", ctx, mock.Anything).Return(nil)

		resp, err := env.service.ScheduleInstallment(ctx, ScheduleInstallmentRequest{
			OrderID: ord.ID.String(),
			Amount:  750,
			DueDate: time.Now().Add(7 * 24 * time.Hour),
		})

		require.NoError(t, err)
		assert.Equal(t, 3, resp.InstallmentNumber)
		assert.Equal(t, "pending", resp.Status)
		assert.True(t, resp.Amount.Equal(decimal.NewFromInt(750)))
	})

	t.Run("rejects closed orders", func(t *testing.T) {
		env := newPaymentTestEnv()
		ord := newOrderInStatus(t, order.StatusPending, 3000, 0)
		require.NoError(t, ord.Cancel("duplicate"))

		env.repos.orders.On("FindByID", ctx, ord.ID).Return(ord, nil)

		_, err := env.service.ScheduleInstallment(ctx, ScheduleInstallmentRequest{
			OrderID: ord.ID.String(),
			Amount:  500,
			DueDate: time.Now(),
		})

		require.Error(t, err)
		env.repos.installments.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects malformed order id", func(t *testing.T) {
		env := newPaymentTestEnv()
		_, err := env.service.ScheduleInstallment(ctx, ScheduleInstallmentRequest{
			OrderID: "not-a-uuid",
			Amount:  500,
			DueDate: time.Now(),
		})
		assert.Error(t, err)
	})
}

// ============================================
// RecordPayment
// ============================================

func TestService_RecordPayment(t *testing.T) {
	ctx := context.Background()

	newDueInstallment := func(t *testing.T, orderID uuid.UUID, amount int64) *domain.Installment {
		inst, err := domain.NewInstallment(orderID, 1, decimal.NewFromInt(amount), time.Now())
		require.NoError(t, err)
		return inst
	}

	t.Run("decrements the balance and records the transaction", func(t *testing.T) {
		env := newPaymentTestEnv()
		ord := newOrderInStatus(t, order.StatusCutting, 2000, 500)
		inst := newDueInstallment(t, ord.ID, 500)

		env.repos.installments.On("FindByIDForUpdate", ctx, inst.ID).Return(inst, nil)
		env.repos.installments.On("SaveWithLock", ctx, inst).Return(nil)
		env.repos.orders.On("FindByIDForUpdate", ctx, ord.ID).Return(ord, nil)
		env.repos.orders.On("SaveWithLock", ctx, ord).Return(nil)
		env.repos.transactions.On("Append", ctx, mock.MatchedBy(func(txn *domain.Transaction) bool {
			return txn.Kind == domain.KindInstallment && txn.InstallmentID != nil && *txn.InstallmentID == inst.ID
		})).Return(nil)

		result, err := env.service.RecordPayment(ctx, inst.ID, RecordPaymentRequest{Method: "upi"})

		require.NoError(t, err)
		assert.Equal(t, "paid", result.Installment.Status)
		assert.True(t, result.OrderBalance.Equal(decimal.NewFromInt(1000)))
		assert.Equal(t, "cutting", result.OrderStatus)
		assert.False(t, result.AutoAdvanced)
	})

	t.Run("zero balance auto-advances a cutting order to finishing", func(t *testing.T) {
		env := newPaymentTestEnv()
		ord := newOrderInStatus(t, order.StatusCutting, 2000, 1500)
		inst := newDueInstallment(t, ord.ID, 500)

		env.repos.installments.On("FindByIDForUpdate", ctx, inst.ID).Return(inst, nil)
		env.repos.installments.On("SaveWithLock", ctx, inst).Return(nil)
		env.repos.orders.On("FindByIDForUpdate", ctx, ord.ID).Return(ord, nil)
		env.repos.orders.On("SaveWithLock", ctx, ord).Return(nil)
		env.repos.transactions.On("Append", ctx, mock.Anything).Return(nil)

		result, err := env.service.RecordPayment(ctx, inst.ID, RecordPaymentRequest{Method: "cash"})

		require.NoError(t, err)
		assert.True(t, result.OrderBalance.IsZero())
		assert.Equal(t, "finishing", result.OrderStatus)
		assert.True(t, result.AutoAdvanced)
	})

	t.Run("zero balance never regresses a ready order", func(t *testing.T) {
		env := newPaymentTestEnv()
		ord := newOrderInStatus(t, order.StatusReady, 2000, 1500)
		inst := newDueInstallment(t, ord.ID, 500)

		env.repos.installments.On("FindByIDForUpdate", ctx, inst.ID).Return(inst, nil)
		env.repos.installments.On("SaveWithLock", ctx, inst).Return(nil)
		env.repos.orders.On("FindByIDForUpdate", ctx, ord.ID).Return(ord, nil)
		env.repos.orders.On("SaveWithLock", ctx, ord).Return(nil)
		env.repos.transactions.On("Append", ctx, mock.Anything).Return(nil)

		result, err := env.service.RecordPayment(ctx, inst.ID, RecordPaymentRequest{Method: "cash"})

		require.NoError(t, err)
		assert.Equal(t, "ready", result.OrderStatus)
		assert.False(t, result.AutoAdvanced)
	})

	t.Run("paying twice is rejected", func(t *testing.T) {
		env := newPaymentTestEnv()
		ord := newOrderInStatus(t, order.StatusCutting, 2000, 500)
		inst := newDueInstallment(t, ord.ID, 500)
		require.NoError(t, inst.MarkPaid(domain.MethodCash, time.Now()))

		env.repos.installments.On("FindByIDForUpdate", ctx, inst.ID).Return(inst, nil)

		_, err := env.service.RecordPayment(ctx, inst.ID, RecordPaymentRequest{Method: "cash"})

		assert.Equal(t, shared.ErrAlreadyPaid, err)
		env.repos.transactions.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})
}

// ============================================
// SendDueReminders
// ============================================

func TestService_SendDueReminders(t *testing.T) {
	ctx := context.Background()
	asOf := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

	newDue := func(t *testing.T, orderID uuid.UUID) *domain.Installment {
		inst, err := domain.NewInstallment(orderID, 1, decimal.NewFromInt(500), asOf.Add(-24*time.Hour))
		require.NoError(t, err)
		return inst
	}

	t.Run("sends one reminder per installment per day", func(t *testing.T) {
		env := newPaymentTestEnv()
		cust, _ := customer.NewCustomer("Asha", "+919800000001")
		cust.SetNotificationPreferences(true, false)
		ord := newOrderInStatus(t, order.StatusCutting, 2000, 0)
		ord.CustomerID = cust.ID

		fresh := newDue(t, ord.ID)
		remindedToday := newDue(t, ord.ID)

		env.repos.installments.On("FindDue", ctx, asOf).
			Return([]*domain.Installment{fresh, remindedToday}, nil)
		env.repos.reminders.On("WasSentOn", ctx, fresh.ID, asOf).Return(false, nil)
		env.repos.reminders.On("WasSentOn", ctx, remindedToday.ID, asOf).Return(true, nil)
		env.repos.orders.On("FindByID", ctx, ord.ID).Return(ord, nil)
		env.repos.customers.On("FindByID", ctx, cust.ID).Return(cust, nil)
		env.repos.reminders.On("Append", ctx, mock.MatchedBy(func(r *domain.Reminder) bool {
			return r.InstallmentID == fresh.ID && r.Channel == "sms"
		})).Return(nil)

		result, err := env.service.SendDueReminders(ctx, asOf)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Due)
		assert.Equal(t, 1, result.Sent)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 0, result.Failed)
		require.Len(t, env.gateway.sms, 1)
		assert.Contains(t, env.gateway.sms[0], ord.OrderNumber)
	})

	t.Run("prefers whatsapp when the customer opted in", func(t *testing.T) {
		env := newPaymentTestEnv()
		cust, _ := customer.NewCustomer("Asha", "+919800000001")
		cust.SetNotificationPreferences(false, true)
		ord := newOrderInStatus(t, order.StatusCutting, 2000, 0)
		ord.CustomerID = cust.ID
		inst := newDue(t, ord.ID)

		env.repos.installments.On("FindDue", ctx, asOf).Return([]*domain.Installment{inst}, nil)
		env.repos.reminders.On("WasSentOn", ctx, inst.ID, asOf).Return(false, nil)
		env.repos.orders.On("FindByID", ctx, ord.ID).Return(ord, nil)
		env.repos.customers.On("FindByID", ctx, cust.ID).Return(cust, nil)
		env.repos.reminders.On("Append", ctx, mock.MatchedBy(func(r *domain.Reminder) bool {
			return r.Channel == "whatsapp"
		})).Return(nil)

		result, err := env.service.SendDueReminders(ctx, asOf)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Sent)
		assert.Len(t, env.gateway.whatsapp, 1)
		assert.Empty(t, env.gateway.sms)
	})

	t.Run("send failures are counted and do not stop the sweep", func(t *testing.T) {
		env := newPaymentTestEnv()
		env.gateway.fail = assert.AnError
		cust, _ := customer.NewCustomer("Asha", "+919800000001")
		ord := newOrderInStatus(t, order.StatusCutting, 2000, 0)
		ord.CustomerID = cust.ID
		inst := newDue(t, ord.ID)

		env.repos.installments.On("FindDue", ctx, asOf).Return([]*domain.Installment{inst}, nil)
		env.repos.reminders.On("WasSentOn", ctx, inst.ID, asOf).Return(false, nil)
		env.repos.orders.On("FindByID", ctx, ord.ID).Return(ord, nil)
		env.repos.customers.On("FindByID", ctx, cust.ID).Return(cust, nil)

		result, err := env.service.SendDueReminders(ctx, asOf)

		require.NoError(t, err)
		assert.Equal(t, 1, result.Failed)
		assert.Equal(t, 0, result.Sent)
		env.repos.reminders.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	})

	t.Run("nothing due is a no-op", func(t *testing.T) {
		env := newPaymentTestEnv()
		env.repos.installments.On("FindDue", ctx, asOf).Return([]*domain.Installment{}, nil)

		result, err := env.service.SendDueReminders(ctx, asOf)

		require.NoError(t, err)
		assert.Equal(t, 0, result.Due)
	})
}

// ============================================
// ListForOrder
// ============================================

func TestService_ListForOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("derives overdue for display", func(t *testing.T) {
		env := newPaymentTestEnv()
		orderID := uuid.New()

		overdue, err := domain.NewInstallment(orderID, 1, decimal.NewFromInt(500), time.Now().Add(-72*time.Hour))
		require.NoError(t, err)
		upcoming, err := domain.NewInstallment(orderID, 2, decimal.NewFromInt(500), time.Now().Add(72*time.Hour))
		require.NoError(t, err)

		env.repos.installments.On("FindByOrder", ctx, orderID).
			Return([]*domain.Installment{overdue, upcoming}, nil)

		items, err := env.service.ListForOrder(ctx, orderID)

		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, "overdue", items[0].Status)
		assert.Equal(t, "pending", items[1].Status)
	})
}
