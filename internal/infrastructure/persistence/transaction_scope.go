package persistence

import (
	"context"

	"github.com/tailor/backend/internal/application/transaction"
	"github.com/tailor/backend/internal/domain/billing"
	"github.com/tailor/backend/internal/domain/customer"
	"github.com/tailor/backend/internal/domain/inventory"
	"github.com/tailor/backend/internal/domain/order"
	"github.com/tailor/backend/internal/domain/payment"
	"github.com/tailor/backend/internal/domain/workshop"
	"gorm.io/gorm"
)

// GormTransactionScope implements transaction.Scope using GORM
// transactions. Every repository handed to the callback runs on the
// same transaction.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn inside a database transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos transaction.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepositories{tx: tx})
	})
}

type gormRepositories struct {
	tx *gorm.DB
}

func (r *gormRepositories) Orders() order.Repository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormRepositories) Materials() inventory.MaterialRepository {
	return NewGormMaterialRepository(r.tx)
}

func (r *gormRepositories) Customers() customer.Repository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormRepositories) LoyaltyEntries() customer.LoyaltyEntryRepository {
	return NewGormLoyaltyEntryRepository(r.tx)
}

func (r *gormRepositories) Referrals() customer.ReferralRepository {
	return NewGormReferralRepository(r.tx)
}

func (r *gormRepositories) Coupons() billing.CouponRepository {
	return NewGormCouponRepository(r.tx)
}

func (r *gormRepositories) Installments() payment.InstallmentRepository {
	return NewGormInstallmentRepository(r.tx)
}

func (r *gormRepositories) PaymentTransactions() payment.TransactionRepository {
	return NewGormPaymentTransactionRepository(r.tx)
}

func (r *gormRepositories) Reminders() payment.ReminderRepository {
	return NewGormReminderRepository(r.tx)
}

func (r *gormRepositories) Workers() workshop.WorkerRepository {
	return NewGormWorkerRepository(r.tx)
}

func (r *gormRepositories) Tasks() workshop.TaskRepository {
	return NewGormWorkTaskRepository(r.tx)
}

var _ transaction.Scope = (*GormTransactionScope)(nil)
var _ transaction.Repositories = (*gormRepositories)(nil)
