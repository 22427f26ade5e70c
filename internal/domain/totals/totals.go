// Package totals derives invoice amounts from an Invoice value.
package totals

import "github.com/invoicekit/invoicekit/internal/domain"

// Totals are the derived amounts of an invoice. Values are unrounded.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	Discount    float64 `json:"discount"`
	TaxableBase float64 `json:"taxable_base"`
	TaxRate     float64 `json:"tax_rate"`
	Tax         float64 `json:"tax"`
	Shipping    float64 `json:"shipping"`
	Total       float64 `json:"total"`
}

// Compute derives the totals of inv:
//
//	subtotal    = Σ qty*rate, in item order
//	taxableBase = subtotal - discount
//	tax         = taxableBase * taxRate/100
//	total       = taxableBase + tax + shipping
//
// A discount larger than the subtotal yields a negative taxable base and a
// negative tax; neither is clamped.
func Compute(inv domain.Invoice) Totals {
	var subtotal float64
	for _, item := range inv.Items {
		subtotal += item.Total()
	}

	s := inv.Summary
	base := subtotal - s.Discount
	tax := base * (s.TaxRate / 100)

	return Totals{
		Subtotal:    subtotal,
		Discount:    s.Discount,
		TaxableBase: base,
		TaxRate:     s.TaxRate,
		Tax:         tax,
		Shipping:    s.Shipping,
		Total:       base + tax + s.Shipping,
	}
}

// LineTotals returns each item's derived total in item order.
func LineTotals(inv domain.Invoice) []float64 {
	out := make([]float64, len(inv.Items))
	for i, item := range inv.Items {
		out[i] = item.Total()
	}
	return out
}
