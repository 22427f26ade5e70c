package totals_test

import (
	"testing"

	"github.com/invoicekit/invoicekit/internal/domain"
	"github.com/invoicekit/invoicekit/internal/domain/totals"
	"github.com/stretchr/testify/assert"
)

const eps = 1e-9

func invoiceWith(items []domain.LineItem, s domain.Summary) domain.Invoice {
	return domain.Invoice{Items: items, Summary: s}
}

func TestCompute_SingleItemWithTax(t *testing.T) {
	inv := invoiceWith(
		[]domain.LineItem{{Name: "Consulting", Quantity: 1, Rate: 5000}},
		domain.Summary{TaxRate: 18},
	)

	got := totals.Compute(inv)
	assert.InDelta(t, 5000, got.Subtotal, eps)
	assert.InDelta(t, 5000, got.TaxableBase, eps)
	assert.InDelta(t, 900, got.Tax, eps)
	assert.InDelta(t, 5900, got.Total, eps)
}

func TestCompute_DiscountTaxShipping(t *testing.T) {
	inv := invoiceWith(
		[]domain.LineItem{
			{Name: "Website", Quantity: 1, Rate: 5000},
			{Name: "Design", Quantity: 2, Rate: 1500},
		},
		domain.Summary{Discount: 500, TaxRate: 10, Shipping: 200},
	)

	got := totals.Compute(inv)
	assert.InDelta(t, 8000, got.Subtotal, eps)
	assert.InDelta(t, 500, got.Discount, eps)
	assert.InDelta(t, 7500, got.TaxableBase, eps)
	assert.InDelta(t, 750, got.Tax, eps)
	assert.InDelta(t, 200, got.Shipping, eps)
	assert.InDelta(t, 8450, got.Total, eps)
}

func TestCompute_DiscountAboveSubtotalIsNotClamped(t *testing.T) {
	inv := invoiceWith(
		[]domain.LineItem{{Name: "Sticker", Quantity: 3, Rate: 100}},
		domain.Summary{Discount: 500, TaxRate: 10},
	)

	got := totals.Compute(inv)
	assert.InDelta(t, 300, got.Subtotal, eps)
	assert.InDelta(t, -200, got.TaxableBase, eps)
	assert.InDelta(t, -20, got.Tax, eps)
	assert.Less(t, got.Tax, 0.0)
	assert.InDelta(t, -220, got.Total, eps)
}

func TestCompute_MatchesClosedForm(t *testing.T) {
	cases := []struct {
		name  string
		items []domain.LineItem
		sum   domain.Summary
	}{
		{"no adjustments", []domain.LineItem{{Quantity: 4, Rate: 12.5}}, domain.Summary{}},
		{"full tax", []domain.LineItem{{Quantity: 1, Rate: 99.99}}, domain.Summary{TaxRate: 100}},
		{"fractional qty", []domain.LineItem{{Quantity: 2.5, Rate: 40}, {Quantity: 1, Rate: 0}}, domain.Summary{Discount: 10, TaxRate: 7.5, Shipping: 3.25}},
		{"zero rate only", []domain.LineItem{{Quantity: 9, Rate: 0}}, domain.Summary{Shipping: 15}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := totals.Compute(invoiceWith(tc.items, tc.sum))
			want := (got.Subtotal-tc.sum.Discount)*(1+tc.sum.TaxRate/100) + tc.sum.Shipping
			assert.InDelta(t, want, got.Total, 1e-6)
		})
	}
}

func TestCompute_SubtotalIndependentOfOrder(t *testing.T) {
	items := []domain.LineItem{
		{Name: "a", Quantity: 3, Rate: 250},
		{Name: "b", Quantity: 1, Rate: 1999.5},
		{Name: "c", Quantity: 12, Rate: 0.25},
	}
	reversed := []domain.LineItem{items[2], items[1], items[0]}

	a := totals.Compute(invoiceWith(items, domain.Summary{}))
	b := totals.Compute(invoiceWith(reversed, domain.Summary{}))
	assert.InDelta(t, a.Subtotal, b.Subtotal, eps)
	assert.InDelta(t, 3*250+1999.5+12*0.25, a.Subtotal, eps)
}

func TestCompute_Idempotent(t *testing.T) {
	inv := invoiceWith(
		[]domain.LineItem{{Quantity: 7, Rate: 13.37}, {Quantity: 1, Rate: 0.1}},
		domain.Summary{Discount: 1.5, TaxRate: 18, Shipping: 2},
	)
	before := append([]domain.LineItem(nil), inv.Items...)

	first := totals.Compute(inv)
	second := totals.Compute(inv)
	assert.Equal(t, first, second)
	assert.Equal(t, before, inv.Items, "input must not be mutated")
}

func TestCompute_EmptyInvoice(t *testing.T) {
	got := totals.Compute(domain.Invoice{Summary: domain.Summary{Shipping: 40, TaxRate: 10}})
	assert.Zero(t, got.Subtotal)
	assert.InDelta(t, 40, got.Total, eps)
}

func TestLineTotals(t *testing.T) {
	inv := invoiceWith([]domain.LineItem{{Quantity: 2, Rate: 1500}, {Quantity: 10, Rate: 100}}, domain.Summary{})
	assert.Equal(t, []float64{3000, 1000}, totals.LineTotals(inv))
}
