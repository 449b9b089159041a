package customer

import (
	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/shared"
)

// LoyaltyTransactionType classifies a loyalty ledger entry
type LoyaltyTransactionType string

const (
	LoyaltyTxnPurchase LoyaltyTransactionType = "purchase"
	LoyaltyTxnReferral LoyaltyTransactionType = "referral"
)

// LoyaltyPointsEntry is an append-only audit row for a points credit.
// NewBalance is a denormalized snapshot of the customer's total at the
// instant of insert, not a source of truth.
type LoyaltyPointsEntry struct {
	shared.BaseEntity
	CustomerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	PointsChange    int64
	NewBalance      int64
	TransactionType LoyaltyTransactionType
	OrderID         *uuid.UUID `gorm:"type:uuid;index"`
	Description     string
}

// TableName returns the database table name
func (LoyaltyPointsEntry) TableName() string {
	return "loyalty_points_entries"
}

// NewLoyaltyPointsEntry creates a ledger entry snapshotting the balance
// after the change was applied.
func NewLoyaltyPointsEntry(customerID uuid.UUID, pointsChange, newBalance int64, txnType LoyaltyTransactionType, orderID *uuid.UUID, description string) (*LoyaltyPointsEntry, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if pointsChange == 0 {
		return nil, shared.NewDomainError("INVALID_POINTS", "Points change cannot be zero")
	}

	return &LoyaltyPointsEntry{
		BaseEntity:      shared.NewBaseEntity(),
		CustomerID:      customerID,
		PointsChange:    pointsChange,
		NewBalance:      newBalance,
		TransactionType: txnType,
		OrderID:         orderID,
		Description:     description,
	}, nil
}
