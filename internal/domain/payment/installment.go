package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tailor/backend/internal/domain/shared"
)

// InstallmentStatus is the stored status of an installment. Overdue is
// never stored; it is derived at read time from the due date.
type InstallmentStatus string

const (
	InstallmentPending InstallmentStatus = "pending"
	InstallmentPaid    InstallmentStatus = "paid"

	// InstallmentOverdue is a derived display status only
	InstallmentOverdue InstallmentStatus = "overdue"
)

// PaymentMethod identifies how a payment was made
type PaymentMethod string

const (
	MethodCash   PaymentMethod = "cash"
	MethodCard   PaymentMethod = "card"
	MethodUPI    PaymentMethod = "upi"
	MethodOnline PaymentMethod = "online"
)

// IsValid checks if the payment method is a known value
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodCard, MethodUPI, MethodOnline:
		return true
	}
	return false
}

// Installment is a scheduled partial payment against an order's balance
type Installment struct {
	shared.BaseAggregateRoot
	OrderID           uuid.UUID `gorm:"type:uuid;not null;index"`
	InstallmentNumber int
	Amount            decimal.Decimal
	DueDate           time.Time
	Status            InstallmentStatus
	PaidDate          *time.Time
	PaymentMethod     PaymentMethod
}

// TableName returns the database table name
func (Installment) TableName() string {
	return "payment_installments"
}

// NewInstallment schedules an installment with the next sequential number
func NewInstallment(orderID uuid.UUID, installmentNumber int, amount decimal.Decimal, dueDate time.Time) (*Installment, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if installmentNumber <= 0 {
		return nil, shared.NewDomainError("INVALID_INSTALLMENT_NUMBER", "Installment number must be positive")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Installment amount must be positive")
	}

	return &Installment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderID:           orderID,
		InstallmentNumber: installmentNumber,
		Amount:            amount,
		DueDate:           dueDate,
		Status:            InstallmentPending,
	}, nil
}

// MarkPaid records the payment. Paying twice is rejected.
func (i *Installment) MarkPaid(method PaymentMethod, paidAt time.Time) error {
	if i.Status == InstallmentPaid {
		return shared.ErrAlreadyPaid
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method")
	}

	i.Status = InstallmentPaid
	i.PaidDate = &paidAt
	i.PaymentMethod = method
	i.IncrementVersion()

	return nil
}

// DerivedStatus returns the display status as of the given time: pending
// installments past their due date show as overdue.
func (i *Installment) DerivedStatus(asOf time.Time) InstallmentStatus {
	if i.Status == InstallmentPending && i.DueDate.Before(truncateToDay(asOf)) {
		return InstallmentOverdue
	}
	return i.Status
}

// IsDue reports whether the installment is pending and due on or before
// the given day.
func (i *Installment) IsDue(asOf time.Time) bool {
	return i.Status == InstallmentPending && !i.DueDate.After(endOfDay(asOf))
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return truncateToDay(t).Add(24*time.Hour - time.Nanosecond)
}
