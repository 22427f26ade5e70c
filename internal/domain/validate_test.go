package domain_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicekit/invoicekit/internal/domain"
)

func validationError(t *testing.T, err error) *domain.ValidationError {
	t.Helper()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "expected *ValidationError, got %v", err)
	return ve
}

func TestValidate_ValidInvoice(t *testing.T) {
	assert.NoError(t, baseInvoice().Validate(domain.SchemeUPI))
}

func TestValidate_ClientFieldsNeverRequired(t *testing.T) {
	inv := baseInvoice()
	inv.Client = domain.ClientInfo{}
	assert.NoError(t, inv.Validate(domain.SchemeUPI))
}

func TestValidate_CollectsEveryViolation(t *testing.T) {
	inv := domain.Invoice{
		Business: domain.BusinessInfo{Email: "not-an-email"},
		Client:   domain.ClientInfo{Email: "also bad"},
		Details:  domain.InvoiceDetails{Currency: "XYZ"},
		Items: []domain.LineItem{
			{Name: "", Quantity: 0, Rate: -1},
		},
		Summary: domain.Summary{Discount: -1, TaxRate: 101, Shipping: -5},
	}

	ve := validationError(t, inv.Validate(domain.SchemeUPI))
	assert.Equal(t, []string{
		"Business.Address",
		"Business.Email",
		"Business.Name",
		"Business.PaymentID",
		"Client.Email",
		"Details.Currency",
		"Items[0].Name",
		"Items[0].Quantity",
		"Items[0].Rate",
		"Summary.Discount",
		"Summary.Shipping",
		"Summary.TaxRate",
	}, ve.Fields())
	assert.Contains(t, ve.Error(), "validation failed: ")
}

func TestValidate_RequiresAtLeastOneItem(t *testing.T) {
	inv := baseInvoice()
	inv.Items = nil
	ve := validationError(t, inv.Validate(domain.SchemeUPI))
	assert.True(t, ve.Has("Items"))
}

func TestValidate_DescriptionStandsInForName(t *testing.T) {
	inv := baseInvoice()
	inv.Items = []domain.LineItem{{Description: "Monthly retainer", Quantity: 1, Rate: 0}}
	assert.NoError(t, inv.Validate(domain.SchemeUPI))
}

func TestValidate_NonFiniteAmounts(t *testing.T) {
	inv := baseInvoice()
	inv.Items[0].Quantity = math.NaN()
	inv.Items[1].Rate = math.Inf(1)
	inv.Summary.Shipping = math.Inf(-1)

	ve := validationError(t, inv.Validate(domain.SchemeUPI))
	assert.True(t, ve.Has("Items[0].Quantity"))
	assert.True(t, ve.Has("Items[1].Rate"))
	assert.True(t, ve.Has("Summary.Shipping"))
}

func TestValidate_TaxRateBounds(t *testing.T) {
	for _, rate := range []float64{0, 18, 100} {
		inv := baseInvoice()
		inv.Summary.TaxRate = rate
		assert.NoError(t, inv.Validate(domain.SchemeUPI), "rate %v", rate)
	}
}

func TestValidate_PaymentScheme(t *testing.T) {
	inv := baseInvoice()
	inv.Business.PaymentID = "https://paypal.me/acme"

	assert.NoError(t, inv.Validate(domain.SchemePayPal))
	assert.NoError(t, inv.Validate(domain.SchemeNone))

	ve := validationError(t, inv.Validate(domain.SchemeUPI))
	assert.Equal(t, []string{"Business.PaymentID"}, ve.Fields())

	inv.Business.PaymentID = "bogus"
	ve = validationError(t, inv.Validate(domain.SchemeNone))
	assert.True(t, ve.Has("Business.PaymentID"))
}

func TestValidate_PayPalLinkWithTrailingParts(t *testing.T) {
	for _, id := range []domain.PaymentID{"https://paypal.me/jdoe/extra", "https://www.paypal.me/jdoe?x=1"} {
		inv := baseInvoice()
		inv.Business.PaymentID = id
		assert.NoError(t, inv.Validate(domain.SchemePayPal), "id %q", id)
	}
}

func TestValidate_DueDateNotComparedWithIssueDate(t *testing.T) {
	inv := baseInvoice()
	inv.Details.IssueDate, _ = domain.ParseDate("2024-05-10")
	inv.Details.DueDate, _ = domain.ParseDate("2024-01-01")
	assert.NoError(t, inv.Validate(domain.SchemeUPI))
}
