package billing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tailor/backend/internal/domain/shared"
)

// DiscountType is how a coupon's value is interpreted
type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// IsValid checks if the discount type is a known value
func (d DiscountType) IsValid() bool {
	return d == DiscountFixed || d == DiscountPercentage
}

// Coupon is a redeemable discount code with a validity window and an
// optional usage limit. A zero UsageLimit means unlimited redemptions.
type Coupon struct {
	shared.BaseAggregateRoot
	Code           string `gorm:"uniqueIndex;not null"`
	Description    string
	DiscountType   DiscountType
	DiscountValue  decimal.Decimal
	MinOrderAmount decimal.Decimal
	ValidFrom      time.Time
	ValidUntil     time.Time
	UsageLimit     int
	TimesUsed      int
	Active         bool
}

// TableName returns the database table name
func (Coupon) TableName() string {
	return "discount_coupons"
}

// NewCoupon creates a coupon. Codes are stored uppercase.
func NewCoupon(code string, discountType DiscountType, discountValue, minOrderAmount decimal.Decimal, validFrom, validUntil time.Time, usageLimit int) (*Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Coupon code cannot be empty")
	}
	if !discountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Unknown discount type")
	}
	if !discountValue.IsPositive() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Discount value must be positive")
	}
	if discountType == DiscountPercentage && discountValue.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_VALUE", "Percentage discount cannot exceed 100")
	}
	if validUntil.Before(validFrom) {
		return nil, shared.NewDomainError("INVALID_VALIDITY", "Coupon validity window is inverted")
	}
	if usageLimit < 0 {
		return nil, shared.NewDomainError("INVALID_USAGE_LIMIT", "Usage limit cannot be negative")
	}

	return &Coupon{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		DiscountType:      discountType,
		DiscountValue:     discountValue,
		MinOrderAmount:    minOrderAmount,
		ValidFrom:         validFrom,
		ValidUntil:        validUntil,
		UsageLimit:        usageLimit,
		Active:            true,
	}, nil
}

// Validate checks whether the coupon can be applied to an order of the
// given total at the given time.
func (c *Coupon) Validate(orderTotal decimal.Decimal, now time.Time) error {
	if !c.Active {
		return shared.ErrInvalidCoupon
	}
	if now.Before(c.ValidFrom) || now.After(c.ValidUntil) {
		return shared.ErrInvalidCoupon
	}
	if orderTotal.LessThan(c.MinOrderAmount) {
		return shared.NewDomainError("MIN_ORDER_NOT_MET", "Order total is below the coupon minimum")
	}
	if c.Exhausted() {
		return shared.ErrCouponExhausted
	}
	return nil
}

// Exhausted reports whether the usage limit has been reached. A coupon
// without a limit never exhausts.
func (c *Coupon) Exhausted() bool {
	return c.UsageLimit > 0 && c.TimesUsed >= c.UsageLimit
}

// DiscountFor computes the discount amount for an order total. The
// discount never exceeds the order total itself.
func (c *Coupon) DiscountFor(orderTotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch c.DiscountType {
	case DiscountPercentage:
		discount = orderTotal.Mul(c.DiscountValue).Div(decimal.NewFromInt(100))
	default:
		discount = c.DiscountValue
	}
	if discount.GreaterThan(orderTotal) {
		return orderTotal
	}
	return discount
}

// Redeem consumes one use under the usage-limit guard
func (c *Coupon) Redeem() error {
	if c.Exhausted() {
		return shared.ErrCouponExhausted
	}
	c.TimesUsed++
	c.IncrementVersion()
	return nil
}

// RemainingUses returns how many redemptions are left, or -1 for a
// coupon without a usage limit.
func (c *Coupon) RemainingUses() int {
	if c.UsageLimit == 0 {
		return -1
	}
	remaining := c.UsageLimit - c.TimesUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Deactivate disables the coupon for future validation
func (c *Coupon) Deactivate() {
	c.Active = false
	c.IncrementVersion()
}
