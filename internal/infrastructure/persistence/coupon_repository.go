package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/billing"
	"github.com/tailor/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormCouponRepository implements billing.CouponRepository using GORM
type GormCouponRepository struct {
	db *gorm.DB
}

// NewGormCouponRepository creates a new GormCouponRepository
func NewGormCouponRepository(db *gorm.DB) *GormCouponRepository {
	return &GormCouponRepository{db: db}
}

// FindByID finds a coupon by ID
func (r *GormCouponRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Coupon, error) {
	var coupon billing.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindByCode finds a coupon by its code
func (r *GormCouponRepository) FindByCode(ctx context.Context, code string) (*billing.Coupon, error) {
	var coupon billing.Coupon
	if err := r.db.WithContext(ctx).First(&coupon, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// FindAll finds coupons matching the filter
func (r *GormCouponRepository) FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[billing.Coupon], error) {
	query := r.db.WithContext(ctx).Model(&billing.Coupon{})
	if filter.Search != "" {
		query = query.Where("code ILIKE ?", "%"+filter.Search+"%")
	}
	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	var coupons []billing.Coupon
	if err := query.Find(&coupons).Error; err != nil {
		return nil, err
	}

	page := shared.NewPaginated(coupons, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Save creates or updates a coupon
func (r *GormCouponRepository) Save(ctx context.Context, coupon *billing.Coupon) error {
	return r.db.WithContext(ctx).Save(coupon).Error
}

// RedeemAtomic consumes one use with a conditional UPDATE, so the usage
// limit holds under concurrent redemptions without locking the row
// first.
func (r *GormCouponRepository) RedeemAtomic(ctx context.Context, code string) (*billing.Coupon, error) {
	result := r.db.WithContext(ctx).
		Model(&billing.Coupon{}).
		Where("code = ? AND active = ? AND (usage_limit = 0 OR times_used < usage_limit)", code, true).
		Updates(map[string]interface{}{
			"times_used": gorm.Expr("times_used + 1"),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Either the code does not exist or the limit was hit; tell
		// them apart for the caller.
		if _, err := r.FindByCode(ctx, code); err != nil {
			return nil, err
		}
		return nil, shared.ErrCouponExhausted
	}

	return r.FindByCode(ctx, code)
}
