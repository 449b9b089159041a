package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tailor/backend/internal/domain/shared"
)

// Material is the aggregate root for a raw material stock record
type Material struct {
	shared.BaseAggregateRoot
	MaterialType    string `gorm:"uniqueIndex;not null"`
	QuantityInStock decimal.Decimal
	UnitPrice       decimal.Decimal
	ReorderLevel    decimal.Decimal
}

// TableName returns the database table name
func (Material) TableName() string {
	return "materials"
}

// NewMaterial creates a new material stock record
func NewMaterial(materialType string, quantityInStock, unitPrice, reorderLevel decimal.Decimal) (*Material, error) {
	if materialType == "" {
		return nil, shared.NewDomainError("INVALID_MATERIAL_TYPE", "Material type cannot be empty")
	}
	if quantityInStock.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Stock quantity cannot be negative")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	return &Material{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MaterialType:      materialType,
		QuantityInStock:   quantityInStock,
		UnitPrice:         unitPrice,
		ReorderLevel:      reorderLevel,
	}, nil
}

// CanConsume checks whether the requested quantity is available
func (m *Material) CanConsume(qty decimal.Decimal) bool {
	return m.QuantityInStock.GreaterThanOrEqual(qty)
}

// Shortfall returns how much of the requested quantity is missing,
// or zero when the stock suffices.
func (m *Material) Shortfall(qty decimal.Decimal) decimal.Decimal {
	short := qty.Sub(m.QuantityInStock)
	if short.IsNegative() {
		return decimal.Zero
	}
	return short
}

// Consume deducts the given quantity from stock. The caller is expected
// to have verified availability across the whole bill of materials first;
// this guard is the last line of defence against a partial deduction.
func (m *Material) Consume(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Consumption quantity must be positive")
	}
	if !m.CanConsume(qty) {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient %s: need %s, have %s", m.MaterialType, qty.String(), m.QuantityInStock.String()))
	}
	m.QuantityInStock = m.QuantityInStock.Sub(qty)
	m.IncrementVersion()
	return nil
}

// Receive adds purchased stock
func (m *Material) Receive(qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Received quantity must be positive")
	}
	m.QuantityInStock = m.QuantityInStock.Add(qty)
	m.IncrementVersion()
	return nil
}

// SetUnitPrice updates the purchase price used for costing
func (m *Material) SetUnitPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	m.UnitPrice = price
	return nil
}

// IsBelowReorderLevel reports whether stock has fallen to or below the
// reorder threshold
func (m *Material) IsBelowReorderLevel() bool {
	if m.ReorderLevel.IsZero() {
		return false
	}
	return m.QuantityInStock.LessThanOrEqual(m.ReorderLevel)
}

// CostOf returns the cost of the given quantity at the current unit price
func (m *Material) CostOf(qty decimal.Decimal) decimal.Decimal {
	return qty.Mul(m.UnitPrice)
}
