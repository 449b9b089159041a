package transaction

import (
	"context"

	"github.com/tailor/backend/internal/domain/billing"
	"github.com/tailor/backend/internal/domain/customer"
	"github.com/tailor/backend/internal/domain/inventory"
	"github.com/tailor/backend/internal/domain/order"
	"github.com/tailor/backend/internal/domain/payment"
	"github.com/tailor/backend/internal/domain/workshop"
)

// Repositories exposes transaction-bound repositories. Every repository
// obtained from it participates in the same database transaction.
type Repositories interface {
	Orders() order.Repository
	Materials() inventory.MaterialRepository
	Customers() customer.Repository
	LoyaltyEntries() customer.LoyaltyEntryRepository
	Referrals() customer.ReferralRepository
	Coupons() billing.CouponRepository
	Installments() payment.InstallmentRepository
	PaymentTransactions() payment.TransactionRepository
	Reminders() payment.ReminderRepository
	Workers() workshop.WorkerRepository
	Tasks() workshop.TaskRepository
}

// Scope runs a function inside a database transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
type Scope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
