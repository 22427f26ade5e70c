package domain

import (
	"fmt"
	"math"
	"net/mail"
	"strings"
)

// Validate checks inv for submission/export. scheme is the payment scheme
// active for the deployment; SchemeNone accepts either scheme.
//
// Client fields are never required, and the due date is not compared with
// the issue date. A non-nil result is always a *ValidationError.
func (inv Invoice) Validate(scheme PaymentScheme) error {
	v := &ValidationError{}

	b := inv.Business
	required(v, "Business.Name", b.Name)
	required(v, "Business.Address", b.Address)
	if required(v, "Business.Email", b.Email) {
		email(v, "Business.Email", b.Email)
	}
	if c := strings.TrimSpace(inv.Client.Email); c != "" {
		email(v, "Client.Email", c)
	}

	switch got := b.PaymentID.Scheme(); {
	case b.PaymentID.IsZero():
		v.add("Business.PaymentID", "is required")
	case got == SchemeNone:
		v.add("Business.PaymentID", "must be a UPI handle (name@bank) or a PayPal.me link (https://paypal.me/username)")
	case scheme != SchemeNone && got != scheme:
		v.add("Business.PaymentID", "is a %s identifier but this deployment accepts %s", got, scheme)
	}

	if code := strings.TrimSpace(inv.Details.Currency); code != "" {
		if _, ok := LookupCurrency(code); !ok {
			v.add("Details.Currency", "%q is not supported", code)
		}
	}

	if len(inv.Items) == 0 {
		v.add("Items", "at least one line item is required")
	}
	for i, item := range inv.Items {
		field := fmt.Sprintf("Items[%d]", i)
		if strings.TrimSpace(item.Name) == "" && strings.TrimSpace(item.Description) == "" {
			v.add(field+".Name", "is required")
		}
		if !finite(item.Quantity) || item.Quantity <= 0 {
			v.add(field+".Quantity", "must be greater than 0")
		}
		if !finite(item.Rate) || item.Rate < 0 {
			v.add(field+".Rate", "cannot be negative")
		}
	}

	s := inv.Summary
	if !finite(s.Discount) || s.Discount < 0 {
		v.add("Summary.Discount", "cannot be negative")
	}
	if !finite(s.TaxRate) || s.TaxRate < 0 || s.TaxRate > 100 {
		v.add("Summary.TaxRate", "must be between 0 and 100")
	}
	if !finite(s.Shipping) || s.Shipping < 0 {
		v.add("Summary.Shipping", "cannot be negative")
	}

	return v.orNil()
}

func required(v *ValidationError, field, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.add(field, "is required")
		return false
	}
	return true
}

func email(v *ValidationError, field, value string) {
	if _, err := mail.ParseAddress(strings.TrimSpace(value)); err != nil {
		v.add(field, "%q is not a valid email address", value)
	}
}

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }
