package order

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/tailor/backend/internal/application/document"
	"github.com/tailor/backend/internal/application/notification"
	"github.com/tailor/backend/internal/application/transaction"
	"github.com/tailor/backend/internal/domain/billing"
	"github.com/tailor/backend/internal/domain/customer"
	"github.com/tailor/backend/internal/domain/inventory"
	domain "github.com/tailor/backend/internal/domain/order"
	"github.com/tailor/backend/internal/domain/payment"
	"github.com/tailor/backend/internal/domain/shared"
	"github.com/tailor/backend/internal/domain/workshop"
)

// =============================================================================
// Mock Repositories
// =============================================================================

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*domain.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]domain.Order, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]domain.Order, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) Save(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) CountByStatus(ctx context.Context, status domain.Status) (int64, error) {
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

type MockMaterialRepository struct {
	mock.Mock
}

func (m *MockMaterialRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Material, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Material), args.Error(1)
}

func (m *MockMaterialRepository) FindByType(ctx context.Context, materialType string) (*inventory.Material, error) {
	args := m.Called(ctx, materialType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Material), args.Error(1)
}

func (m *MockMaterialRepository) FindByTypeForUpdate(ctx context.Context, materialType string) (*inventory.Material, error) {
	args := m.Called(ctx, materialType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Material), args.Error(1)
}

func (m *MockMaterialRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.Material, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]inventory.Material), args.Error(1)
}

func (m *MockMaterialRepository) FindBelowReorderLevel(ctx context.Context) ([]inventory.Material, error) {
	args := m.Called(ctx)
	return args.Get(0).([]inventory.Material), args.Error(1)
}

func (m *MockMaterialRepository) Save(ctx context.Context, material *inventory.Material) error {
	args := m.Called(ctx, material)
	return args.Error(0)
}

func (m *MockMaterialRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
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

type MockLoyaltyEntryRepository struct {
	mock.Mock
}

func (m *MockLoyaltyEntryRepository) Append(ctx context.Context, entry *customer.LoyaltyPointsEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLoyaltyEntryRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]customer.LoyaltyPointsEntry, error) {
	args := m.Called(ctx, customerID, filter)
	return args.Get(0).([]customer.LoyaltyPointsEntry), args.Error(1)
}

type MockReferralRepository struct {
	mock.Mock
}

func (m *MockReferralRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Referral, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Referral), args.Error(1)
}

func (m *MockReferralRepository) FindPendingByReferred(ctx context.Context, referredCustomerID uuid.UUID) (*customer.Referral, error) {
	args := m.Called(ctx, referredCustomerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Referral), args.Error(1)
}

func (m *MockReferralRepository) FindByReferrer(ctx context.Context, referrerCustomerID uuid.UUID, filter shared.Filter) ([]customer.Referral, error) {
	args := m.Called(ctx, referrerCustomerID, filter)
	return args.Get(0).([]customer.Referral), args.Error(1)
}

func (m *MockReferralRepository) Save(ctx context.Context, referral *customer.Referral) error {
	args := m.Called(ctx, referral)
	return args.Error(0)
}

type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Coupon, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindByCode(ctx context.Context, code string) (*billing.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Coupon), args.Error(1)
}

func (m *MockCouponRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[billing.Coupon], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[billing.Coupon]), args.Error(1)
}

func (m *MockCouponRepository) Save(ctx context.Context, coupon *billing.Coupon) error {
	args := m.Called(ctx, coupon)
	return args.Error(0)
}

func (m *MockCouponRepository) RedeemAtomic(ctx context.Context, code string) (*billing.Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Coupon), args.Error(1)
}

type MockPaymentTransactionRepository struct {
	mock.Mock
}

func (m *MockPaymentTransactionRepository) Append(ctx context.Context, txn *payment.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockPaymentTransactionRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*payment.Transaction, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).([]*payment.Transaction), args.Error(1)
}

func (m *MockPaymentTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[payment.Transaction], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[payment.Transaction]), args.Error(1)
}

type MockWorkerRepository struct {
	mock.Mock
}

func (m *MockWorkerRepository) FindByID(ctx context.Context, id uuid.UUID) (*workshop.Worker, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workshop.Worker), args.Error(1)
}

func (m *MockWorkerRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[workshop.Worker], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[workshop.Worker]), args.Error(1)
}

func (m *MockWorkerRepository) FindActive(ctx context.Context) ([]*workshop.Worker, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*workshop.Worker), args.Error(1)
}

func (m *MockWorkerRepository) Save(ctx context.Context, worker *workshop.Worker) error {
	args := m.Called(ctx, worker)
	return args.Error(0)
}

func (m *MockWorkerRepository) SaveWithLock(ctx context.Context, worker *workshop.Worker) error {
	args := m.Called(ctx, worker)
	return args.Error(0)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*workshop.WorkTask, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workshop.WorkTask), args.Error(1)
}

func (m *MockTaskRepository) FindOpenByOrder(ctx context.Context, orderID uuid.UUID) (*workshop.WorkTask, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*workshop.WorkTask), args.Error(1)
}

func (m *MockTaskRepository) FindByWorker(ctx context.Context, workerID uuid.UUID) ([]*workshop.WorkTask, error) {
	args := m.Called(ctx, workerID)
	return args.Get(0).([]*workshop.WorkTask), args.Error(1)
}

func (m *MockTaskRepository) StatsByClothType(ctx context.Context, clothType string) ([]workshop.TurnaroundStats, error) {
	args := m.Called(ctx, clothType)
	return args.Get(0).([]workshop.TurnaroundStats), args.Error(1)
}

func (m *MockTaskRepository) Save(ctx context.Context, task *workshop.WorkTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// =============================================================================
// Test doubles for the service collaborators
// =============================================================================

// stubRepositories hands the mocks out as transaction-bound repositories
type stubRepositories struct {
	orders       *MockOrderRepository
	materials    *MockMaterialRepository
	customers    *MockCustomerRepository
	loyalty      *MockLoyaltyEntryRepository
	referrals    *MockReferralRepository
	coupons      *MockCouponRepository
	installments payment.InstallmentRepository
	paymentTxns  *MockPaymentTransactionRepository
	reminders    payment.ReminderRepository
	workers      *MockWorkerRepository
	tasks        *MockTaskRepository
}

func (r *stubRepositories) Orders() domain.Repository                       { return r.orders }
func (r *stubRepositories) Materials() inventory.MaterialRepository         { return r.materials }
func (r *stubRepositories) Customers() customer.Repository                  { return r.customers }
func (r *stubRepositories) LoyaltyEntries() customer.LoyaltyEntryRepository { return r.loyalty }
func (r *stubRepositories) Referrals() customer.ReferralRepository          { return r.referrals }
func (r *stubRepositories) Coupons() billing.CouponRepository               { return r.coupons }
func (r *stubRepositories) Installments() payment.InstallmentRepository     { return r.installments }
func (r *stubRepositories) PaymentTransactions() payment.TransactionRepository {
	return r.paymentTxns
}
func (r *stubRepositories) Reminders() payment.ReminderRepository { return r.reminders }
func (r *stubRepositories) Workers() workshop.WorkerRepository    { return r.workers }
func (r *stubRepositories) Tasks() workshop.TaskRepository        { return r.tasks }

// stubScope runs the transactional function directly against the mocks
type stubScope struct {
	repos *stubRepositories
}

func (s *stubScope) Execute(ctx context.Context, fn func(repos transaction.Repositories) error) error {
	return fn(s.repos)
}

// fakeSummaryCache is an in-process SummaryCache recording invalidations
type fakeSummaryCache struct {
	mu          sync.Mutex
	summary     map[string]int64
	invalidated int
}

func (c *fakeSummaryCache) Get(ctx context.Context) (map[string]int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.summary == nil {
		return nil, false
	}
	return c.summary, true
}

func (c *fakeSummaryCache) Set(ctx context.Context, summary map[string]int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary = summary
}

func (c *fakeSummaryCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.summary = nil
	c.invalidated++
}

// recordingGateway captures outgoing notifications
type recordingGateway struct {
	mu        sync.Mutex
	sms       []string
	whatsapp  []string
	emails    []string
	lastEmail []notification.EmailAttachment
	failSMS   error
}

func (g *recordingGateway) SendSMS(ctx context.Context, phone, body string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failSMS != nil {
		return g.failSMS
	}
	g.sms = append(g.sms, body)
	return nil
}

func (g *recordingGateway) SendWhatsApp(ctx context.Context, phone, body string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.whatsapp = append(g.whatsapp, body)
	return nil
}

func (g *recordingGateway) SendEmail(ctx context.Context, to, subject, body string, attachments ...notification.EmailAttachment) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.emails = append(g.emails, subject)
	g.lastEmail = attachments
	return nil
}

// stubRenderer returns a fixed PDF payload
type stubRenderer struct {
	err      error
	rendered []document.Invoice
}

func (r *stubRenderer) RenderPDF(ctx context.Context, inv document.Invoice) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.rendered = append(r.rendered, inv)
	return []byte("%PDF-1.4 stub"), nil
}

// recordingPublisher captures published domain events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, len(p.events))
	for i, ev := range p.events {
		types[i] = ev.EventType()
	}
	return types
}

// orderTestEnv wires a Service against mocks for one test
type orderTestEnv struct {
	service   *Service
	repos     *stubRepositories
	cache     *fakeSummaryCache
	gateway   *recordingGateway
	renderer  *stubRenderer
	publisher *recordingPublisher
}

func newOrderTestEnv() *orderTestEnv {
	repos := &stubRepositories{
		orders:      new(MockOrderRepository),
		materials:   new(MockMaterialRepository),
		customers:   new(MockCustomerRepository),
		loyalty:     new(MockLoyaltyEntryRepository),
		referrals:   new(MockReferralRepository),
		coupons:     new(MockCouponRepository),
		paymentTxns: new(MockPaymentTransactionRepository),
		workers:     new(MockWorkerRepository),
		tasks:       new(MockTaskRepository),
	}
	cache := &fakeSummaryCache{}
	gateway := &recordingGateway{}
	renderer := &stubRenderer{}
	publisher := &recordingPublisher{}

	service := NewService(
		&stubScope{repos: repos},
		repos.orders,
		repos.customers,
		gateway,
		renderer,
		cache,
		publisher,
		zap.NewNop(),
	)

	return &orderTestEnv{
		service:   service,
		repos:     repos,
		cache:     cache,
		gateway:   gateway,
		renderer:  renderer,
		publisher: publisher,
	}
}
