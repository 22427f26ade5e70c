package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/invoicekit/invoicekit/internal/domain"
)

func TestPaymentID_Scheme(t *testing.T) {
	tests := []struct {
		id   domain.PaymentID
		want domain.PaymentScheme
	}{
		{"name@bank", domain.SchemeUPI},
		{"first.last-1@okhdfcbank", domain.SchemeUPI},
		{"https://paypal.me/jdoe", domain.SchemePayPal},
		{"http://www.PayPal.me/jdoe/", domain.SchemePayPal},
		{"https://paypal.me/jdoe/extra", domain.SchemePayPal},
		{"https://www.paypal.me/jdoe?x=1", domain.SchemePayPal},
		{"https://paypal.me/jdoe#top", domain.SchemePayPal},
		{"https://paypal.me/", domain.SchemeNone},
		{"https://paypal.me/?note=x", domain.SchemeNone},
		{"https://paypal.me/j%20doe", domain.SchemeNone},
		{"paypal.me/jdoe", domain.SchemeNone},
		{"no-at-sign", domain.SchemeNone},
		{"", domain.SchemeNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.id.Scheme(), "id %q", tt.id)
	}
}

func TestClientInfo_DisplayName(t *testing.T) {
	assert.Equal(t, "Globex", domain.ClientInfo{Name: "Globex"}.DisplayName())
	assert.Equal(t, domain.Placeholder, domain.ClientInfo{Name: "  "}.DisplayName())
	assert.Equal(t, "—", domain.ClientInfo{}.DisplayName())
}

func TestLineItem_TotalIsDerived(t *testing.T) {
	item := domain.NewLineItem("Design", 2, 1500)
	assert.NotEmpty(t, item.ID)
	assert.InDelta(t, 3000, item.Total(), 1e-9)

	item.Quantity = 3
	assert.InDelta(t, 4500, item.Total(), 1e-9)
}

func TestNewLineItem_UniqueIDs(t *testing.T) {
	a := domain.NewLineItem("a", 1, 1)
	b := domain.NewLineItem("a", 1, 1)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestParseDate(t *testing.T) {
	d, err := domain.ParseDate("2024-03-15")
	require.NoError(t, err)
	assert.Equal(t, domain.NewDate(2024, time.March, 15), d)
	assert.Equal(t, "2024-03-15", d.String())

	zero, err := domain.ParseDate("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
	assert.Empty(t, zero.String())

	_, err = domain.ParseDate("15/03/2024")
	assert.Error(t, err)
}

func TestDateOf_TruncatesTime(t *testing.T) {
	ts := time.Date(2024, time.December, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "2024-12-31", domain.DateOf(ts).String())
}

func TestInvoice_JSONAndYAMLDates(t *testing.T) {
	inv := domain.Invoice{Details: domain.InvoiceDetails{
		Number:    "INV-1",
		IssueDate: domain.NewDate(2024, time.January, 2),
	}}

	data, err := json.Marshal(inv)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"issue_date":"2024-01-02"`)
	assert.Contains(t, string(data), `"due_date":""`)

	var back domain.Invoice
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, inv.Details.IssueDate, back.Details.IssueDate)
	assert.True(t, back.Details.DueDate.IsZero())

	var fromYAML domain.Invoice
	require.NoError(t, yaml.Unmarshal([]byte("details:\n  number: INV-2\n  due_date: 2024-02-01\n"), &fromYAML))
	assert.Equal(t, domain.NewDate(2024, time.February, 1), fromYAML.Details.DueDate)
}

func TestDate_UnmarshalJSONNull(t *testing.T) {
	d := domain.NewDate(2024, time.May, 1)
	require.NoError(t, json.Unmarshal([]byte("null"), &d))
	assert.True(t, d.IsZero())

	assert.Error(t, json.Unmarshal([]byte("20240501"), &d))
}

func TestAssetRef_IsZero(t *testing.T) {
	assert.True(t, domain.AssetRef("").IsZero())
	assert.True(t, domain.AssetRef("  ").IsZero())
	assert.False(t, domain.AssetRef("logo.png").IsZero())
}
