package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"

	"invoicepro/backend/internal/domain"
)

type Company struct {
	Name    string
	Tagline string
}

type Renderer struct {
	company Company
}

func New(company Company) *Renderer {
	if company.Name == "" {
		company.Name = "InvoicePro"
	}
	if company.Tagline == "" {
		company.Tagline = "Professional Billing Software"
	}
	return &Renderer{company: company}
}

type invoiceView struct {
	Company Company
	Invoice domain.Invoice
}

var funcs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
}

// invoiceHTMLTmpl renders a self-contained printable invoice. html/template
// escapes every customer and product field.
var invoiceHTMLTmpl = template.Must(template.New("invoice").Funcs(funcs).Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Invoice - {{.Invoice.InvoiceNumber}}</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body { font-family: Arial, sans-serif; padding: 40px; color: #333; }
    .invoice-container { max-width: 800px; margin: 0 auto; }
    .header { display: flex; justify-content: space-between; align-items: center; margin-bottom: 40px; border-bottom: 3px solid #6366f1; padding-bottom: 20px; }
    .company-info h1 { color: #6366f1; font-size: 32px; margin-bottom: 5px; }
    .company-info p, .invoice-info p, .customer-info p { color: #666; font-size: 14px; margin-bottom: 5px; }
    .invoice-info { text-align: right; }
    .invoice-info h2 { color: #6366f1; font-size: 24px; margin-bottom: 10px; }
    .customer-info { background: #f8f9fa; padding: 20px; border-radius: 8px; margin-bottom: 30px; }
    .customer-info h3 { margin-bottom: 10px; font-size: 16px; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 30px; }
    thead { background: #6366f1; color: white; }
    th { padding: 12px; text-align: left; font-size: 14px; }
    td { padding: 12px; border-bottom: 1px solid #e5e7eb; font-size: 14px; }
    .text-right { text-align: right; }
    .totals { margin-left: auto; width: 300px; }
    .totals-row { display: flex; justify-content: space-between; padding: 10px 0; font-size: 14px; }
    .totals-row.subtotal { border-top: 1px solid #e5e7eb; }
    .totals-row.discount { color: #10b981; }
    .totals-row.total { border-top: 2px solid #6366f1; font-size: 18px; font-weight: bold; color: #6366f1; margin-top: 10px; padding-top: 15px; }
    .footer { margin-top: 50px; text-align: center; color: #666; font-size: 12px; border-top: 1px solid #e5e7eb; padding-top: 20px; }
    @media print { body { padding: 20px; } }
  </style>
</head>
<body>
  <div class="invoice-container">
    <div class="header">
      <div class="company-info">
        <h1>{{.Company.Name}}</h1>
        <p>{{.Company.Tagline}}</p>
      </div>
      <div class="invoice-info">
        <h2>INVOICE</h2>
        <p><strong>Invoice #:</strong> {{.Invoice.InvoiceNumber}}</p>
        <p><strong>Date:</strong> {{.Invoice.Date}}</p>
      </div>
    </div>

    <div class="customer-info">
      <h3>Bill To:</h3>
      <p><strong>{{.Invoice.CustomerName}}</strong></p>
      <p>{{.Invoice.CustomerEmail}}</p>
      <p>{{.Invoice.CustomerPhone}}</p>
      <p>{{.Invoice.CustomerAddress}}</p>
    </div>

    <table>
      <thead>
        <tr><th>Product</th><th class="text-right">Quantity</th><th class="text-right">Rate</th><th class="text-right">Amount</th></tr>
      </thead>
      <tbody>{{range .Invoice.Items}}
        <tr><td>{{.ProductName}}</td><td class="text-right">{{.Quantity.String}}</td><td class="text-right">${{money .Rate}}</td><td class="text-right">${{money .Amount}}</td></tr>{{end}}
      </tbody>
    </table>

    <div class="totals">
      <div class="totals-row subtotal"><span>Subtotal:</span><span>${{money .Invoice.Subtotal}}</span></div>{{if .Invoice.Discount.IsPositive}}
      <div class="totals-row discount"><span>Discount ({{.Invoice.Discount.String}}%):</span><span>-${{money .Invoice.DiscountAmount}}</span></div>{{end}}
      <div class="totals-row total"><span>Total:</span><span>${{money .Invoice.Total}}</span></div>
    </div>

    <div class="footer">
      <p>Thank you for your business!</p>
      <p>This is a computer-generated invoice.</p>
    </div>
  </div>
</body>
</html>
`))

func (r *Renderer) Invoice(inv domain.Invoice) ([]byte, error) {
	var buf bytes.Buffer
	if err := invoiceHTMLTmpl.Execute(&buf, invoiceView{Company: r.company, Invoice: inv}); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}
	return buf.Bytes(), nil
}
