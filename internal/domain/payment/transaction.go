package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tailor/backend/internal/domain/shared"
)

// TransactionKind classifies what a payment was for
type TransactionKind string

const (
	KindAdvance     TransactionKind = "advance"
	KindInstallment TransactionKind = "installment"
	KindFinal       TransactionKind = "final"
)

// Transaction is an append-only record of money received against an order
type Transaction struct {
	shared.BaseEntity
	OrderID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	InstallmentID *uuid.UUID `gorm:"type:uuid"`
	Kind          TransactionKind
	Amount        decimal.Decimal
	Method        PaymentMethod
	PaidAt        time.Time
	Notes         string
}

// TableName returns the database table name
func (Transaction) TableName() string {
	return "payment_transactions"
}

// NewTransaction records a received payment
func NewTransaction(orderID uuid.UUID, kind TransactionKind, amount decimal.Decimal, method PaymentMethod, paidAt time.Time) (*Transaction, error) {
	if orderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORDER", "Order ID cannot be empty")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount must be positive")
	}

	return &Transaction{
		BaseEntity: shared.NewBaseEntity(),
		OrderID:    orderID,
		Kind:       kind,
		Amount:     amount,
		Method:     method,
		PaidAt:     paidAt,
	}, nil
}

// LinkInstallment associates the transaction with the installment it settled
func (t *Transaction) LinkInstallment(installmentID uuid.UUID) {
	t.InstallmentID = &installmentID
}
