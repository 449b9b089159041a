package order

import (
	"time"

	"github.com/shopspring/decimal"
	domain "github.com/tailor/backend/internal/domain/order"
)

// PlaceOrderRequest is the input for creating an order
type PlaceOrderRequest struct {
	CustomerID     string     `json:"customer_id" binding:"required,uuid"`
	ClothType      string     `json:"cloth_type" binding:"required"`
	Quantity       int        `json:"quantity" binding:"required,gt=0"`
	TotalAmount    float64    `json:"total_amount" binding:"required,gt=0"`
	AdvancePayment float64    `json:"advance_payment" binding:"gte=0"`
	CouponCode     string     `json:"coupon_code"`
	Priority       string     `json:"priority" binding:"omitempty,oneof=normal high urgent"`
	PaymentMethod  string     `json:"payment_method" binding:"omitempty,oneof=cash card upi online"`
	WorkerID       string     `json:"worker_id" binding:"omitempty,uuid"`
	DeliveryDate   *time.Time `json:"delivery_date"`
}

// AdvanceStatusRequest is the input for moving an order forward
type AdvanceStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=cutting stitching finishing ready delivered"`
}

// CompleteOrderRequest is the input for the completion flow
type CompleteOrderRequest struct {
	PaymentAmount float64  `json:"payment_amount" binding:"gte=0"`
	PaymentMethod string   `json:"payment_method" binding:"required,oneof=cash card upi online"`
	Channels      []string `json:"channels" binding:"omitempty,dive,oneof=sms whatsapp email"`
}

// CancelOrderRequest is the input for cancelling a pending order
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// AssignWorkerRequest is the input for assigning a worker to an order
type AssignWorkerRequest struct {
	WorkerID string `json:"worker_id" binding:"required,uuid"`
}

// OrderResponse is the API representation of an order
type OrderResponse struct {
	ID             string          `json:"id"`
	OrderNumber    string          `json:"order_number"`
	CustomerID     string          `json:"customer_id"`
	ClothType      string          `json:"cloth_type"`
	Quantity       int             `json:"quantity"`
	Status         string          `json:"status"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	AdvancePayment decimal.Decimal `json:"advance_payment"`
	BalancePayment decimal.Decimal `json:"balance_payment"`
	CouponCode     string          `json:"coupon_code,omitempty"`
	Priority       string          `json:"priority"`
	MaterialCost   decimal.Decimal `json:"material_cost"`
	LaborCost      decimal.Decimal `json:"labor_cost"`
	Profit         decimal.Decimal `json:"profit"`
	WastageQty     decimal.Decimal `json:"wastage_qty"`
	WorkerID       string          `json:"worker_id,omitempty"`
	OrderDate      time.Time       `json:"order_date"`
	DeliveryDate   *time.Time      `json:"delivery_date,omitempty"`
	DeliveredAt    *time.Time      `json:"delivered_at,omitempty"`
	CancelReason   string          `json:"cancel_reason,omitempty"`
	Version        int             `json:"version"`
}

// NewOrderResponse maps an order aggregate to its API representation
func NewOrderResponse(o *domain.Order) *OrderResponse {
	resp := &OrderResponse{
		ID:             o.ID.String(),
		OrderNumber:    o.OrderNumber,
		CustomerID:     o.CustomerID.String(),
		ClothType:      o.ClothType,
		Quantity:       o.Quantity,
		Status:         o.Status.String(),
		TotalAmount:    o.TotalAmount,
		DiscountAmount: o.DiscountAmount,
		AdvancePayment: o.AdvancePayment,
		BalancePayment: o.BalancePayment,
		CouponCode:     o.CouponCode,
		Priority:       string(o.Priority),
		MaterialCost:   o.MaterialCost,
		LaborCost:      o.LaborCost,
		Profit:         o.Profit,
		WastageQty:     o.WastageQty,
		OrderDate:      o.OrderDate,
		DeliveryDate:   o.DeliveryDate,
		DeliveredAt:    o.DeliveredAt,
		CancelReason:   o.CancelReason,
		Version:        o.Version,
	}
	if o.AssignedWorkerID != nil {
		resp.WorkerID = o.AssignedWorkerID.String()
	}
	return resp
}

// AdvanceResult is the outcome of a status transition. ReorderWarnings
// is populated for the cutting transition when stock fell to or below a
// material's reorder level.
type AdvanceResult struct {
	Order           *OrderResponse `json:"order"`
	ReorderWarnings []string       `json:"reorder_warnings,omitempty"`
}

// CompletionSummary is the outcome of the completion flow
type CompletionSummary struct {
	Order            *OrderResponse  `json:"order"`
	AmountCollected  decimal.Decimal `json:"amount_collected"`
	PointsAwarded    int64           `json:"points_awarded"`
	NewPointsBalance int64           `json:"new_points_balance"`
	TierUpgradedTo   string          `json:"tier_upgraded_to,omitempty"`
	ReferrerRewarded bool            `json:"referrer_rewarded"`
	ReferrerPoints   int64           `json:"referrer_points,omitempty"`
	InvoiceGenerated bool            `json:"invoice_generated"`
	ChannelsSent     []string        `json:"channels_sent,omitempty"`
}
