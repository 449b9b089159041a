package printing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailor/backend/internal/application/document"
	"github.com/tailor/backend/internal/domain/shared/valueobject"
)

func sampleInvoice() document.Invoice {
	return document.Invoice{
		InvoiceNumber: "INV-ORD-20260901-0001",
		OrderNumber:   "ORD-20260901-0001",
		IssuedAt:      time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		CustomerName:  "Asha Verma",
		CustomerPhone: "+919876543210",
		Lines: []document.InvoiceLine{{
			Description: "Tailoring: shirt",
			Quantity:    2,
			UnitPrice:   valueobject.NewMoneyINR(decimal.NewFromInt(750)),
			Amount:      valueobject.NewMoneyINR(decimal.NewFromInt(1500)),
		}},
		Subtotal:      valueobject.NewMoneyINR(decimal.NewFromInt(1500)),
		Discount:      valueobject.NewMoneyINR(decimal.NewFromInt(100)),
		AdvancePaid:   valueobject.NewMoneyINR(decimal.NewFromInt(500)),
		AmountDue:     valueobject.NewMoneyINR(decimal.NewFromInt(900)),
		PaymentMethod: "upi",
	}
}

func TestInvoiceTemplate_Render(t *testing.T) {
	tmpl, err := NewInvoiceTemplate()
	require.NoError(t, err)

	t.Run("renders amounts as rupees", func(t *testing.T) {
		html, err := tmpl.Render(sampleInvoice())
		require.NoError(t, err)

		assert.Contains(t, html, "INV-ORD-20260901-0001")
		assert.Contains(t, html, "Asha Verma")
		assert.Contains(t, html, "₹750.00")
		assert.Contains(t, html, "₹1500.00")
		assert.Contains(t, html, "₹900.00")
		assert.Contains(t, html, "01 Sep 2026")
	})

	t.Run("omits zero discount and advance rows", func(t *testing.T) {
		inv := sampleInvoice()
		inv.Discount = valueobject.ZeroINR()
		inv.AdvancePaid = valueobject.ZeroINR()

		html, err := tmpl.Render(inv)
		require.NoError(t, err)

		assert.NotContains(t, html, "Discount")
		assert.NotContains(t, html, "Advance Paid")
	})
}
