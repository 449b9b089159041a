package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/tailor/backend/internal/domain/shared"
)

// CouponRepository defines data access for discount coupons
type CouponRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	FindAll(ctx context.Context, filter shared.Filter) (*shared.Paginated[Coupon], error)
	Save(ctx context.Context, coupon *Coupon) error
	// RedeemAtomic increments the usage counter only while it is still
	// below the limit, returning ErrCouponExhausted otherwise.
	RedeemAtomic(ctx context.Context, code string) (*Coupon, error)
}
