package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/customer"
	"github.com/tailor/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormLoyaltyEntryRepository implements customer.LoyaltyEntryRepository
// using GORM. The ledger is append-only; there are no updates or
// deletes.
type GormLoyaltyEntryRepository struct {
	db *gorm.DB
}

// NewGormLoyaltyEntryRepository creates a new GormLoyaltyEntryRepository
func NewGormLoyaltyEntryRepository(db *gorm.DB) *GormLoyaltyEntryRepository {
	return &GormLoyaltyEntryRepository{db: db}
}

// Append inserts a new ledger entry
func (r *GormLoyaltyEntryRepository) Append(ctx context.Context, entry *customer.LoyaltyPointsEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByCustomer lists ledger entries for a customer, newest first
func (r *GormLoyaltyEntryRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]customer.LoyaltyPointsEntry, error) {
	var entries []customer.LoyaltyPointsEntry
	query := r.db.WithContext(ctx).
		Model(&customer.LoyaltyPointsEntry{}).
		Where("customer_id = ?", customerID).
		Order("created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
