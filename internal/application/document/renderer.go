package document

import (
	"context"
	"time"

	"github.com/tailor/backend/internal/domain/shared/valueobject"
)

// InvoiceLine is one row on an invoice
type InvoiceLine struct {
	Description string
	Quantity    int
	UnitPrice   valueobject.Money
	Amount      valueobject.Money
}

// Invoice carries everything needed to render a final bill
type Invoice struct {
	InvoiceNumber string
	OrderNumber   string
	IssuedAt      time.Time
	CustomerName  string
	CustomerPhone string
	Lines         []InvoiceLine
	Subtotal      valueobject.Money
	Discount      valueobject.Money
	AdvancePaid   valueobject.Money
	AmountDue     valueobject.Money
	PaymentMethod string
}

// InvoiceRenderer produces a PDF for an invoice
type InvoiceRenderer interface {
	RenderPDF(ctx context.Context, inv Invoice) ([]byte, error)
}
