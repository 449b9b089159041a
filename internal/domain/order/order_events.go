package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tailor/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderCreated        = "OrderCreated"
	EventTypeOrderCuttingStarted = "OrderCuttingStarted"
	EventTypeOrderReady          = "OrderReady"
	EventTypeOrderDelivered      = "OrderDelivered"
)

// OrderCreatedEvent is raised when a new order is placed
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	ClothType   string          `json:"cloth_type"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		ClothType:       o.ClothType,
		Quantity:        o.Quantity,
		TotalAmount:     o.TotalAmount,
	}
}

// EventType returns the event type name
func (e *OrderCreatedEvent) EventType() string {
	return EventTypeOrderCreated
}

// OrderCuttingStartedEvent is raised when material has been consumed and
// cutting begins. It carries the costing snapshot for downstream reporting.
type OrderCuttingStartedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	MaterialCost decimal.Decimal `json:"material_cost"`
	LaborCost    decimal.Decimal `json:"labor_cost"`
	Profit       decimal.Decimal `json:"profit"`
	WastageQty   decimal.Decimal `json:"wastage_qty"`
}

// NewOrderCuttingStartedEvent creates a new OrderCuttingStartedEvent
func NewOrderCuttingStartedEvent(o *Order) *OrderCuttingStartedEvent {
	return &OrderCuttingStartedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCuttingStarted, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		MaterialCost:    o.MaterialCost,
		LaborCost:       o.LaborCost,
		Profit:          o.Profit,
		WastageQty:      o.WastageQty,
	}
}

// EventType returns the event type name
func (e *OrderCuttingStartedEvent) EventType() string {
	return EventTypeOrderCuttingStarted
}

// OrderReadyEvent is raised when an order becomes ready for pickup.
// This event triggers the customer pickup notification.
type OrderReadyEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	CustomerID  uuid.UUID `json:"customer_id"`
}

// NewOrderReadyEvent creates a new OrderReadyEvent
func NewOrderReadyEvent(o *Order) *OrderReadyEvent {
	return &OrderReadyEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderReady, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
	}
}

// EventType returns the event type name
func (e *OrderReadyEvent) EventType() string {
	return EventTypeOrderReady
}

// OrderDeliveredEvent is raised when an order is delivered.
// This event triggers the loyalty/referral settlement.
type OrderDeliveredEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	DeliveredAt time.Time       `json:"delivered_at"`
}

// NewOrderDeliveredEvent creates a new OrderDeliveredEvent
func NewOrderDeliveredEvent(o *Order) *OrderDeliveredEvent {
	deliveredAt := time.Now()
	if o.DeliveredAt != nil {
		deliveredAt = *o.DeliveredAt
	}
	return &OrderDeliveredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderDelivered, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		NetAmount:       o.NetAmount(),
		DeliveredAt:     deliveredAt,
	}
}

// EventType returns the event type name
func (e *OrderDeliveredEvent) EventType() string {
	return EventTypeOrderDelivered
}
