package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	domain "github.com/tailor/backend/internal/domain/billing"
	"github.com/tailor/backend/internal/domain/shared"
)

// CreateCouponRequest is the input for creating a coupon
type CreateCouponRequest struct {
	Code           string    `json:"code" binding:"required"`
	Description    string    `json:"description"`
	DiscountType   string    `json:"discount_type" binding:"required,oneof=fixed percentage"`
	DiscountValue  float64   `json:"discount_value" binding:"required,gt=0"`
	MinOrderAmount float64   `json:"min_order_amount" binding:"gte=0"`
	ValidFrom      time.Time `json:"valid_from" binding:"required"`
	ValidUntil     time.Time `json:"valid_until" binding:"required"`
	UsageLimit     int       `json:"usage_limit" binding:"gte=0"`
}

// CouponResponse is the API representation of a coupon
type CouponResponse struct {
	ID             string          `json:"id"`
	Code           string          `json:"code"`
	Description    string          `json:"description,omitempty"`
	DiscountType   string          `json:"discount_type"`
	DiscountValue  decimal.Decimal `json:"discount_value"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount"`
	ValidFrom      time.Time       `json:"valid_from"`
	ValidUntil     time.Time       `json:"valid_until"`
	UsageLimit     int             `json:"usage_limit"`
	TimesUsed      int             `json:"times_used"`
	Active         bool            `json:"active"`
}

// NewCouponResponse maps a coupon aggregate
func NewCouponResponse(c *domain.Coupon) *CouponResponse {
	return &CouponResponse{
		ID:             c.ID.String(),
		Code:           c.Code,
		Description:    c.Description,
		DiscountType:   string(c.DiscountType),
		DiscountValue:  c.DiscountValue,
		MinOrderAmount: c.MinOrderAmount,
		ValidFrom:      c.ValidFrom,
		ValidUntil:     c.ValidUntil,
		UsageLimit:     c.UsageLimit,
		TimesUsed:      c.TimesUsed,
		Active:         c.Active,
	}
}

// ValidationResult is the outcome of a coupon check against an order total
type ValidationResult struct {
	Valid          bool            `json:"valid"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	Message        string          `json:"message"`
}

// Service implements coupon use cases
type Service struct {
	coupons domain.CouponRepository
	logger  *zap.Logger
}

// NewService creates a coupon service
func NewService(coupons domain.CouponRepository, logger *zap.Logger) *Service {
	return &Service{coupons: coupons, logger: logger}
}

// CreateCoupon creates a new coupon
func (s *Service) CreateCoupon(ctx context.Context, req CreateCouponRequest) (*CouponResponse, error) {
	coupon, err := domain.NewCoupon(
		req.Code,
		domain.DiscountType(req.DiscountType),
		decimal.NewFromFloat(req.DiscountValue),
		decimal.NewFromFloat(req.MinOrderAmount),
		req.ValidFrom,
		req.ValidUntil,
		req.UsageLimit,
	)
	if err != nil {
		return nil, err
	}
	coupon.Description = req.Description

	if existing, err := s.coupons.FindByCode(ctx, coupon.Code); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	if err := s.coupons.Save(ctx, coupon); err != nil {
		return nil, err
	}
	return NewCouponResponse(coupon), nil
}

// ValidateCoupon checks whether a coupon applies to an order total and
// returns the discount it would yield. It does not redeem the coupon;
// redemption happens inside the order placement transaction.
func (s *Service) ValidateCoupon(ctx context.Context, code string, orderTotal decimal.Decimal) (*ValidationResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	coupon, err := s.coupons.FindByCode(ctx, code)
	if err != nil {
		return nil, shared.ErrInvalidCoupon
	}

	if err := coupon.Validate(orderTotal, time.Now()); err != nil {
		return nil, err
	}

	discount := coupon.DiscountFor(orderTotal)
	return &ValidationResult{
		Valid:          true,
		DiscountAmount: discount,
		Message:        fmt.Sprintf("Coupon %s applies a discount of %s", coupon.Code, discount.StringFixed(2)),
	}, nil
}

// GetCoupon fetches a coupon by code
func (s *Service) GetCoupon(ctx context.Context, code string) (*CouponResponse, error) {
	coupon, err := s.coupons.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	return NewCouponResponse(coupon), nil
}

// ListCoupons lists coupons with pagination
func (s *Service) ListCoupons(ctx context.Context, filter shared.Filter) (*shared.Paginated[CouponResponse], error) {
	page, err := s.coupons.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]CouponResponse, len(page.Items))
	for i := range page.Items {
		items[i] = *NewCouponResponse(&page.Items[i])
	}
	out := shared.NewPaginated(items, page.Total, page.Page, page.PageSize)
	return &out, nil
}

// DeactivateCoupon disables a coupon
func (s *Service) DeactivateCoupon(ctx context.Context, code string) error {
	coupon, err := s.coupons.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return err
	}
	coupon.Deactivate()
	return s.coupons.Save(ctx, coupon)
}
