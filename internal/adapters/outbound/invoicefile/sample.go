package invoicefile

import (
	"time"

	"github.com/invoicekit/invoicekit/internal/domain"
)

// Sample returns a filled-in invoice for scheme, issued on now and due 30
// days later. invoicekit init writes it next to the config.
func Sample(scheme domain.PaymentScheme, now time.Time) domain.Invoice {
	paymentID := domain.PaymentID("navokta@okaxis")
	if scheme == domain.SchemePayPal {
		paymentID = "https://paypal.me/navokta"
	}
	issued := domain.DateOf(now)

	return domain.Invoice{
		Business: domain.BusinessInfo{
			Name:      "Navokta",
			Address:   "531/8 Dhola Kua\nHansi\nHaryana",
			Email:     "billing@navokta.example",
			PaymentID: paymentID,
		},
		Client: domain.ClientInfo{
			Name:    "Globex Traders",
			Email:   "accounts@globex.example",
			Address: "123 First Floor\nABC Nagar\nNew Delhi",
		},
		Details: domain.InvoiceDetails{
			Number:    "INV-" + now.Format("2006") + "-001",
			IssueDate: issued,
			DueDate:   domain.DateOf(issued.AddDate(0, 0, 30)),
			Currency:  "INR",
			Notes:     "Payment is due within 30 days. Please include the invoice number with your payment.",
		},
		Items: []domain.LineItem{
			domain.NewLineItem("Website Development", 1, 5000),
			domain.NewLineItem("UI/UX Design", 2, 1500),
			domain.NewLineItem("Content Creation", 10, 100),
		},
		Summary: domain.Summary{TaxRate: 10},
	}
}
