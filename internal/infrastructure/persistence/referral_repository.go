package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/customer"
	"github.com/tailor/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormReferralRepository implements customer.ReferralRepository using GORM
type GormReferralRepository struct {
	db *gorm.DB
}

// NewGormReferralRepository creates a new GormReferralRepository
func NewGormReferralRepository(db *gorm.DB) *GormReferralRepository {
	return &GormReferralRepository{db: db}
}

// FindByID finds a referral by ID
func (r *GormReferralRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Referral, error) {
	var ref customer.Referral
	if err := r.db.WithContext(ctx).First(&ref, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ref, nil
}

// FindPendingByReferred finds the pending referral for a referred
// customer with a FOR UPDATE lock, so concurrent settlements of the
// same referral serialize.
func (r *GormReferralRepository) FindPendingByReferred(ctx context.Context, referredCustomerID uuid.UUID) (*customer.Referral, error) {
	var ref customer.Referral
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("referred_customer_id = ? AND status = ?", referredCustomerID, customer.ReferralPending).
		First(&ref).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ref, nil
}

// FindByReferrer lists referrals a customer has made
func (r *GormReferralRepository) FindByReferrer(ctx context.Context, referrerCustomerID uuid.UUID, filter shared.Filter) ([]customer.Referral, error) {
	var referrals []customer.Referral
	query := r.db.WithContext(ctx).
		Model(&customer.Referral{}).
		Where("referrer_customer_id = ?", referrerCustomerID).
		Order("created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	if err := query.Find(&referrals).Error; err != nil {
		return nil, err
	}
	return referrals, nil
}

// Save creates or updates a referral
func (r *GormReferralRepository) Save(ctx context.Context, ref *customer.Referral) error {
	return r.db.WithContext(ctx).Save(ref).Error
}
