package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicekit/invoicekit/internal/domain"
)

func baseInvoice() domain.Invoice {
	return domain.Invoice{
		Business: domain.BusinessInfo{
			Name:      "Acme Co",
			Address:   "1 Main St\nPune",
			Email:     "billing@acme.test",
			PaymentID: "acme@okaxis",
		},
		Details: domain.InvoiceDetails{Number: "INV-2024-007", Currency: "INR"},
		Items: []domain.LineItem{
			{ID: "a", Name: "Website", Quantity: 1, Rate: 5000},
			{ID: "b", Name: "Design", Quantity: 2, Rate: 1500},
		},
		Summary: domain.Summary{Discount: 500, TaxRate: 10, Shipping: 200},
	}
}

func TestWithFunctions_DoNotMutateReceiver(t *testing.T) {
	inv := baseInvoice()

	_ = inv.WithBusiness(domain.BusinessInfo{Name: "Other"})
	_ = inv.WithClient(domain.ClientInfo{Name: "Globex"})
	_ = inv.WithDetails(domain.InvoiceDetails{Number: "X"})
	_ = inv.WithSummary(domain.Summary{TaxRate: 50})
	_ = inv.WithLineItem(domain.LineItem{Name: "Extra", Quantity: 1, Rate: 1})

	assert.Equal(t, baseInvoice(), inv)
}

func TestWithLineItem_AppendsAndAssignsID(t *testing.T) {
	inv := baseInvoice().WithLineItem(domain.LineItem{Name: "Hosting", Quantity: 12, Rate: 10})

	require.Len(t, inv.Items, 3)
	assert.Equal(t, "Hosting", inv.Items[2].Name)
	assert.NotEmpty(t, inv.Items[2].ID)
}

func TestWithLineItem_DoesNotShareBackingArray(t *testing.T) {
	base := baseInvoice()
	base.Items = append(make([]domain.LineItem, 0, 10), base.Items...)

	a := base.WithLineItem(domain.LineItem{ID: "x", Name: "A"})
	b := base.WithLineItem(domain.LineItem{ID: "y", Name: "B"})
	assert.Equal(t, "A", a.Items[2].Name)
	assert.Equal(t, "B", b.Items[2].Name)
}

func TestReplaceLineItem(t *testing.T) {
	inv := baseInvoice()

	updated, err := inv.ReplaceLineItem(domain.LineItem{ID: "b", Name: "Branding", Quantity: 3, Rate: 1500})
	require.NoError(t, err)
	assert.Equal(t, "Branding", updated.Items[1].Name)
	assert.Equal(t, "Design", inv.Items[1].Name)

	_, err = inv.ReplaceLineItem(domain.LineItem{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrLineItemNotFound)
}

func TestRemoveLineItem(t *testing.T) {
	inv := baseInvoice()

	updated, err := inv.RemoveLineItem("a")
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, "b", updated.Items[0].ID)
	assert.Len(t, inv.Items, 2)

	_, err = updated.RemoveLineItem("b")
	assert.ErrorIs(t, err, domain.ErrLastLineItem)

	_, err = inv.RemoveLineItem("nope")
	assert.ErrorIs(t, err, domain.ErrLineItemNotFound)
}

func TestDisplayNumber(t *testing.T) {
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	inv := baseInvoice()
	assert.Equal(t, "INV-2024-007", inv.DisplayNumber(now))

	inv.Details.Number = " "
	assert.Equal(t, "INV-2024-002", inv.DisplayNumber(now))
}

func TestNormalize(t *testing.T) {
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	inv := domain.Invoice{
		Details: domain.InvoiceDetails{Currency: " usd "},
		Items:   []domain.LineItem{{Name: "a", Quantity: 1, Rate: 1}},
	}

	out := inv.Normalize(now, "INR")
	assert.Equal(t, "INV-2025-001", out.Details.Number)
	assert.Equal(t, "USD", out.Details.Currency)
	assert.NotEmpty(t, out.Items[0].ID)
	assert.Empty(t, inv.Items[0].ID)

	inv.Details.Currency = ""
	assert.Equal(t, "INR", inv.Normalize(now, "INR").Details.Currency)
}
