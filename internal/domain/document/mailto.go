package document

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/invoicekit/invoicekit/internal/domain"
)

// Mailto builds a mailto: link that opens a draft addressed to the client.
// The link carries no attachment; the exported PDF is attached by hand.
func Mailto(inv domain.Invoice, now time.Time) string {
	number := inv.DisplayNumber(now)
	subject := fmt.Sprintf("Invoice %s from %s", number, inv.Business.Name)

	greeting := strings.TrimSpace(inv.Client.Name)
	if greeting == "" {
		greeting = "Sir or Madam"
	}
	body := fmt.Sprintf("Dear %s,\n\nPlease find attached the invoice %s.\n\nBest regards,\n%s",
		greeting, number, inv.Business.Name)

	return "mailto:" + strings.TrimSpace(inv.Client.Email) +
		"?subject=" + encodeComponent(subject) +
		"&body=" + encodeComponent(body)
}

func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
