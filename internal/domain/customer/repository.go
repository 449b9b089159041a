package customer

import (
	"context"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/shared"
)

// Repository defines the interface for customer persistence
type Repository interface {
	// FindByID finds a customer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByIDForUpdate finds a customer by ID with a row-level lock,
	// for use inside a settlement transaction
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Customer, error)

	// FindByPhone finds a customer by phone number
	FindByPhone(ctx context.Context, phone string) (*Customer, error)

	// FindAll finds all customers with filtering
	FindAll(ctx context.Context, filter shared.Filter) ([]Customer, error)

	// Save creates or updates a customer
	Save(ctx context.Context, customer *Customer) error

	// Count counts customers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// LoyaltyEntryRepository persists the append-only loyalty ledger
type LoyaltyEntryRepository interface {
	// Append inserts a new ledger entry
	Append(ctx context.Context, entry *LoyaltyPointsEntry) error

	// FindByCustomer lists ledger entries for a customer, newest first
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]LoyaltyPointsEntry, error)
}

// ReferralRepository defines the interface for referral persistence
type ReferralRepository interface {
	// FindByID finds a referral by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Referral, error)

	// FindPendingByReferred finds the pending referral whose referred
	// customer matches, if any
	FindPendingByReferred(ctx context.Context, referredCustomerID uuid.UUID) (*Referral, error)

	// FindByReferrer lists referrals a customer has made
	FindByReferrer(ctx context.Context, referrerCustomerID uuid.UUID, filter shared.Filter) ([]Referral, error)

	// Save creates or updates a referral
	Save(ctx context.Context, referral *Referral) error
}
