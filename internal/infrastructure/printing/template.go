package printing

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"github.com/tailor/backend/internal/application/document"
	"github.com/tailor/backend/internal/domain/shared/valueobject"
)

//go:embed templates/*.html
var templateFS embed.FS

// InvoiceTemplate renders an invoice into an HTML document ready for
// PDF conversion.
type InvoiceTemplate struct {
	tmpl *template.Template
}

// NewInvoiceTemplate parses the embedded invoice template
func NewInvoiceTemplate() (*InvoiceTemplate, error) {
	tmpl, err := template.New("invoice_a4.html").
		Funcs(template.FuncMap{
			"formatMoney": formatMoney,
			"formatDate":  formatDate,
		}).
		ParseFS(templateFS, "templates/invoice_a4.html")
	if err != nil {
		return nil, err
	}
	return &InvoiceTemplate{tmpl: tmpl}, nil
}

// Render produces the invoice HTML
func (t *InvoiceTemplate) Render(inv document.Invoice) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.Execute(&buf, inv); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "invoice template execution failed", err)
	}
	return buf.String(), nil
}

// formatMoney renders an amount with the rupee sign and two decimal
// places.
func formatMoney(m valueobject.Money) string {
	return "₹" + m.Amount().StringFixed(2)
}

func formatDate(t time.Time) string {
	return t.Format("02 Jan 2006")
}
