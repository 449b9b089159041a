package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tailor/backend/internal/domain/shared"
)

// Status represents the workshop status of a tailoring order
type Status string

const (
	StatusPending   Status = "pending"
	StatusCutting   Status = "cutting"
	StatusStitching Status = "stitching"
	StatusFinishing Status = "finishing"
	StatusReady     Status = "ready"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// statusRank orders the workshop progression. Cancelled is outside the
// progression and handled separately.
var statusRank = map[Status]int{
	StatusPending:   0,
	StatusCutting:   1,
	StatusStitching: 2,
	StatusFinishing: 3,
	StatusReady:     4,
	StatusDelivered: 5,
}

// IsValid checks if the status is a valid order Status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCutting, StatusStitching, StatusFinishing,
		StatusReady, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// Rank returns the position of the status in the workshop progression,
// or -1 for cancelled/unknown statuses.
func (s Status) Rank() int {
	if r, ok := statusRank[s]; ok {
		return r
	}
	return -1
}

// CanTransitionTo checks if the status can transition to the target status.
// The workshop progression moves one step forward at a time; cancellation
// is only possible before any work has started.
func (s Status) CanTransitionTo(target Status) bool {
	if target == StatusCancelled {
		return s == StatusPending
	}
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[target]
	if !ok {
		return false
	}
	return to == from+1
}

// Priority represents how urgently an order should be worked
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid checks if the priority is a known value
func (p Priority) IsValid() bool {
	switch p {
	case PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Order is the aggregate root for a tailoring order. It owns the status
// progression and the costing/payment figures attached to it.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber      string
	CustomerID       uuid.UUID
	ClothType        string
	Quantity         int
	Status           Status
	TotalAmount      decimal.Decimal
	DiscountAmount   decimal.Decimal
	AdvancePayment   decimal.Decimal
	BalancePayment   decimal.Decimal
	CouponCode       string
	Priority         Priority
	MaterialCost     decimal.Decimal
	LaborCost        decimal.Decimal
	Profit           decimal.Decimal
	WastageQty       decimal.Decimal
	AssignedWorkerID *uuid.UUID
	OrderDate        time.Time
	DeliveryDate     *time.Time
	DeliveredAt      *time.Time
	CancelledAt      *time.Time
	CancelReason     string
}

// TableName returns the database table name
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in pending status.
// Balance starts as total - discount - advance.
func NewOrder(orderNumber string, customerID uuid.UUID, clothType string, quantity int, totalAmount, discountAmount, advancePayment decimal.Decimal) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if clothType == "" {
		return nil, shared.NewDomainError("INVALID_CLOTH_TYPE", "Cloth type cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if totalAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Total amount cannot be negative")
	}
	if discountAmount.IsNegative() || advancePayment.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Discount and advance cannot be negative")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		ClothType:         clothType,
		Quantity:          quantity,
		Status:            StatusPending,
		TotalAmount:       totalAmount,
		DiscountAmount:    discountAmount,
		AdvancePayment:    advancePayment,
		BalancePayment:    totalAmount.Sub(discountAmount).Sub(advancePayment),
		Priority:          PriorityNormal,
		MaterialCost:      decimal.Zero,
		LaborCost:         decimal.Zero,
		Profit:            decimal.Zero,
		WastageQty:        decimal.Zero,
		OrderDate:         time.Now(),
	}

	order.AddDomainEvent(NewOrderCreatedEvent(order))

	return order, nil
}

// SetPriority sets the order priority
func (o *Order) SetPriority(p Priority) error {
	if !p.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Unknown priority value")
	}
	o.Priority = p
	o.UpdatedAt = time.Now()
	return nil
}

// SetCoupon records the coupon applied at placement time
func (o *Order) SetCoupon(code string) {
	o.CouponCode = code
	o.UpdatedAt = time.Now()
}

// AssignWorker assigns a worker to the order
func (o *Order) AssignWorker(workerID uuid.UUID) error {
	if workerID == uuid.Nil {
		return shared.NewDomainError("INVALID_WORKER", "Worker ID cannot be empty")
	}
	if o.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Cannot assign worker to a closed order")
	}
	o.AssignedWorkerID = &workerID
	o.UpdatedAt = time.Now()
	return nil
}

// SetDeliveryDate sets the promised delivery date
func (o *Order) SetDeliveryDate(date time.Time) {
	o.DeliveryDate = &date
	o.UpdatedAt = time.Now()
}

// BeginCutting transitions the order into cutting and records the costing
// figures computed from the consumed materials. Profit is derived as
// total - material cost - labor cost.
func (o *Order) BeginCutting(materialCost, laborCost, wastageQty decimal.Decimal) error {
	if !o.Status.CanTransitionTo(StatusCutting) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot start cutting in %s status", o.Status))
	}
	if materialCost.IsNegative() || laborCost.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Costs cannot be negative")
	}

	o.Status = StatusCutting
	o.MaterialCost = materialCost
	o.LaborCost = laborCost
	o.WastageQty = wastageQty
	o.Profit = o.TotalAmount.Sub(materialCost).Sub(laborCost)
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrderCuttingStartedEvent(o))

	return nil
}

// AdvanceTo moves the order one step forward in the workshop progression.
// Cutting and delivered have dedicated entry points that carry extra
// bookkeeping; this method rejects them.
func (o *Order) AdvanceTo(target Status) error {
	if target == StatusCutting || target == StatusDelivered {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Transition into %s requires its dedicated flow", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transition from %s to %s", o.Status, target))
	}

	o.Status = target
	o.UpdatedAt = time.Now()

	if target == StatusReady {
		o.AddDomainEvent(NewOrderReadyEvent(o))
	}

	return nil
}

// ForceFinishing advances the order to finishing regardless of how many
// steps remain, used when a fully paid balance auto-advances the order.
// Orders already in finishing, ready or delivered are left untouched.
func (o *Order) ForceFinishing() (bool, error) {
	if o.Status == StatusCancelled {
		return false, shared.NewDomainError("INVALID_STATE", "Cannot advance a cancelled order")
	}
	if o.Status.Rank() >= StatusFinishing.Rank() {
		return false, nil
	}
	o.Status = StatusFinishing
	o.UpdatedAt = time.Now()
	return true, nil
}

// Deliver transitions the order into delivered with the given delivery date
func (o *Order) Deliver(deliveredAt time.Time) error {
	if !o.Status.CanTransitionTo(StatusDelivered) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deliver order in %s status", o.Status))
	}

	o.Status = StatusDelivered
	o.DeliveredAt = &deliveredAt
	o.DeliveryDate = &deliveredAt
	o.UpdatedAt = time.Now()

	o.AddDomainEvent(NewOrderDeliveredEvent(o))

	return nil
}

// Cancel cancels the order. Only pending orders can be cancelled.
func (o *Order) Cancel(reason string) error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	now := time.Now()
	o.Status = StatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now

	return nil
}

// ApplyPayment decrements the outstanding balance by the paid amount
func (o *Order) ApplyPayment(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	o.BalancePayment = o.BalancePayment.Sub(amount)
	o.UpdatedAt = time.Now()
	return nil
}

// RecalculateBalance sets the balance from first principles: total minus
// discount, advance and everything paid so far.
func (o *Order) RecalculateBalance(totalPaid decimal.Decimal) {
	o.BalancePayment = o.TotalAmount.Sub(o.DiscountAmount).Sub(o.AdvancePayment).Sub(totalPaid)
	o.UpdatedAt = time.Now()
}

// NetAmount returns the amount payable after discount
func (o *Order) NetAmount() decimal.Decimal {
	return o.TotalAmount.Sub(o.DiscountAmount)
}

// IsFullyPaid returns true when no balance remains
func (o *Order) IsFullyPaid() bool {
	return !o.BalancePayment.IsPositive()
}

// IsDelivered returns true if the order has been delivered
func (o *Order) IsDelivered() bool {
	return o.Status == StatusDelivered
}

// IsTerminal returns true if the order is delivered or cancelled
func (o *Order) IsTerminal() bool {
	return o.Status == StatusDelivered || o.Status == StatusCancelled
}
