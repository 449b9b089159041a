package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/shared"
)

// InstallmentRepository defines data access for installments
type InstallmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Installment, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Installment, error)
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*Installment, error)
	FindDue(ctx context.Context, asOf time.Time) ([]*Installment, error)
	NextInstallmentNumber(ctx context.Context, orderID uuid.UUID) (int, error)
	Save(ctx context.Context, installment *Installment) error
	SaveWithLock(ctx context.Context, installment *Installment) error
}

// TransactionRepository defines data access for payment transactions
type TransactionRepository interface {
	Append(ctx context.Context, txn *Transaction) error
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*Transaction, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Transaction], error)
}

// ReminderRepository defines data access for reminder log rows
type ReminderRepository interface {
	// WasSentOn reports whether a reminder for the installment already
	// went out on the given calendar day.
	WasSentOn(ctx context.Context, installmentID uuid.UUID, day time.Time) (bool, error)
	Append(ctx context.Context, reminder *Reminder) error
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]*Reminder, error)
}
