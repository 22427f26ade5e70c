package tui_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/invoicekit/invoicekit/internal/adapters/outbound/tui"
	"github.com/invoicekit/invoicekit/internal/domain"
	"github.com/invoicekit/invoicekit/internal/domain/document"
	"github.com/invoicekit/invoicekit/internal/domain/money"
	"github.com/invoicekit/invoicekit/internal/domain/totals"
)

func sampleDescription() document.Description {
	inv := domain.Invoice{
		Business: domain.BusinessInfo{Name: "Navokta", Address: "12 MG Road\nBengaluru", Email: "billing@navokta.example", PaymentID: "navokta@okaxis"},
		Client:   domain.ClientInfo{Name: "Globex Traders"},
		Details:  domain.InvoiceDetails{Number: "INV-2024-001", Currency: "INR", Notes: "Paid within 30 days"},
		Items: []domain.LineItem{
			{Name: "Website Development", Description: "Landing page", Quantity: 1, Rate: 5000},
			{Name: "UI/UX Design", Quantity: 2, Rate: 1500},
		},
		Summary: domain.Summary{Discount: 500, TaxRate: 10},
	}
	assets := domain.Assets{PaymentQR: &domain.Image{Name: "qr"}, PaymentURI: "upi://pay?pa=navokta%40okaxis"}
	return document.Describe(inv, totals.Compute(inv), assets, money.NewFormatter("INR", nil),
		document.Options{Now: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})
}

func TestRenderPreview_ContainsInvoiceContent(t *testing.T) {
	out := tui.RenderPreview(sampleDescription())

	for _, want := range []string{
		"INVOICE", "INV-2024-001", "Navokta", "Globex Traders",
		"Website Development", "Landing page", "UI/UX Design",
		"Subtotal", "₹8,000.00", "Discount", "Tax (10%)", "Total", "₹8,250.00",
		"Scan to Pay", "upi://pay?pa=navokta%40okaxis",
		"Notes", "Paid within 30 days",
		"Thank you for your business!",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "Shipping")
}

func TestRenderTotals(t *testing.T) {
	out := tui.RenderTotals([]document.TotalRow{
		{Label: "Subtotal", Value: "$10.00"},
		{Label: "Total", Value: "$10.00", Emphasis: true},
	}, 40)
	assert.Contains(t, out, "Subtotal")
	assert.Contains(t, out, "$10.00")
}

func TestRenderViolations(t *testing.T) {
	err := &domain.ValidationError{Violations: []domain.FieldViolation{
		{Field: "Business.PaymentID", Message: "is required"},
		{Field: "Items[0].Quantity", Message: "must be greater than 0"},
	}}

	out := tui.RenderViolations(err)
	assert.Contains(t, out, "2 problems")
	assert.Contains(t, out, "Business › Payment ID")
	assert.Contains(t, out, "Item 1 › Quantity")
	assert.Contains(t, out, "must be greater than 0")
}

func TestRenderViolations_Valid(t *testing.T) {
	assert.Contains(t, tui.RenderViolations(nil), "Invoice is valid.")
}

func TestFieldLabel(t *testing.T) {
	cases := map[string]string{
		"Summary.TaxRate":    "Summary › Tax Rate",
		"Items":              "Items",
		"Items[11].Name":     "Item 12 › Name",
		"Details.Currency":   "Details › Currency",
		"Business.PaymentID": "Business › Payment ID",
	}
	for field, want := range cases {
		assert.Equal(t, want, tui.FieldLabel(field), field)
	}
}

func TestRenderHistory(t *testing.T) {
	out := tui.RenderHistory([]domain.ExportEntry{
		{Timestamp: "2024-03-01T10:00:00Z", InvoiceNumber: "INV-1", Pages: 1, Output: "Invoice_INV-1.pdf", CommitHash: "abcdef1234"},
		{Timestamp: "2024-03-02T10:00:00Z", InvoiceNumber: "INV-2", Pages: 3, Output: "Invoice_INV-2.pdf"},
	})
	assert.Contains(t, out, "Export History")
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "abcdef1")
	assert.NotContains(t, out, "abcdef12")
	assert.Contains(t, out, "3 pages")
	assert.Contains(t, out, "INV-2")
}

func TestRenderHistory_Empty(t *testing.T) {
	assert.Contains(t, tui.RenderHistory(nil), "No exports recorded.")
}
