package inventory

import (
	"github.com/shopspring/decimal"
	"github.com/tailor/backend/internal/domain/shared"
)

// WastagePercent is the fixed share of consumed material treated as
// wastage. It is recorded for costing only and never deducted from stock
// a second time.
var WastagePercent = decimal.NewFromFloat(0.05)

// MaterialRequirement is one line of a scaled bill of materials. Qty is
// the total amount needed for the whole order quantity.
type MaterialRequirement struct {
	MaterialType string
	Qty          decimal.Decimal
}

// bomLine is one per-garment-unit line of the static table
type bomLine struct {
	materialType string
	perUnit      decimal.Decimal
}

// billOfMaterials maps cloth types to their per-unit material needs.
// Quantities are in the stock-keeping unit of each material (metres for
// fabric, pieces for buttons, rolls for thread).
var billOfMaterials = map[string][]bomLine{
	"shirt": {
		{materialType: "fabric", perUnit: decimal.NewFromFloat(2.5)},
		{materialType: "button", perUnit: decimal.NewFromInt(8)},
		{materialType: "thread", perUnit: decimal.NewFromInt(1)},
	},
	"pant": {
		{materialType: "fabric", perUnit: decimal.NewFromFloat(1.5)},
		{materialType: "button", perUnit: decimal.NewFromInt(2)},
		{materialType: "thread", perUnit: decimal.NewFromInt(1)},
		{materialType: "zipper", perUnit: decimal.NewFromInt(1)},
	},
	"suit": {
		{materialType: "fabric", perUnit: decimal.NewFromFloat(4.5)},
		{materialType: "button", perUnit: decimal.NewFromInt(12)},
		{materialType: "thread", perUnit: decimal.NewFromInt(3)},
		{materialType: "lining", perUnit: decimal.NewFromFloat(2.0)},
	},
	"kurta": {
		{materialType: "fabric", perUnit: decimal.NewFromFloat(3.0)},
		{materialType: "button", perUnit: decimal.NewFromInt(5)},
		{materialType: "thread", perUnit: decimal.NewFromInt(1)},
	},
	"blouse": {
		{materialType: "fabric", perUnit: decimal.NewFromFloat(1.0)},
		{materialType: "button", perUnit: decimal.NewFromInt(6)},
		{materialType: "thread", perUnit: decimal.NewFromInt(1)},
	},
	"sherwani": {
		{materialType: "fabric", perUnit: decimal.NewFromFloat(5.0)},
		{materialType: "button", perUnit: decimal.NewFromInt(10)},
		{materialType: "thread", perUnit: decimal.NewFromInt(3)},
		{materialType: "lining", perUnit: decimal.NewFromFloat(2.5)},
	},
}

// KnownClothTypes returns the cloth types with a bill of materials
func KnownClothTypes() []string {
	types := make([]string, 0, len(billOfMaterials))
	for t := range billOfMaterials {
		types = append(types, t)
	}
	return types
}

// Requirements returns the total material quantities needed to produce
// the given number of garments of a cloth type.
func Requirements(clothType string, quantity int) ([]MaterialRequirement, error) {
	lines, ok := billOfMaterials[clothType]
	if !ok {
		return nil, shared.NewDomainError("UNKNOWN_CLOTH_TYPE", "No bill of materials for cloth type "+clothType)
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	qty := decimal.NewFromInt(int64(quantity))
	scaled := make([]MaterialRequirement, len(lines))
	for i, line := range lines {
		scaled[i] = MaterialRequirement{
			MaterialType: line.materialType,
			Qty:          line.perUnit.Mul(qty),
		}
	}
	return scaled, nil
}

// Wastage returns the informational wastage quantity for a consumed
// amount of material.
func Wastage(consumed decimal.Decimal) decimal.Decimal {
	return consumed.Mul(WastagePercent)
}
