package domain

import (
	"fmt"
	"strings"
	"time"
)

// WithBusiness returns a copy of inv with Business replaced.
func (inv Invoice) WithBusiness(b BusinessInfo) Invoice {
	out := inv.clone()
	out.Business = b
	return out
}

// WithClient returns a copy of inv with Client replaced.
func (inv Invoice) WithClient(c ClientInfo) Invoice {
	out := inv.clone()
	out.Client = c
	return out
}

// WithDetails returns a copy of inv with Details replaced.
func (inv Invoice) WithDetails(d InvoiceDetails) Invoice {
	out := inv.clone()
	out.Details = d
	return out
}

// WithSummary returns a copy of inv with Summary replaced.
func (inv Invoice) WithSummary(s Summary) Invoice {
	out := inv.clone()
	out.Summary = s
	return out
}

// WithLineItem returns a copy of inv with item appended. Items without an
// ID get one so that ReplaceLineItem and RemoveLineItem can address them.
func (inv Invoice) WithLineItem(item LineItem) Invoice {
	if item.ID == "" {
		item.ID = NewLineItem("", 0, 0).ID
	}
	out := inv.clone()
	out.Items = append(out.Items, item)
	return out
}

// ReplaceLineItem returns a copy of inv with the item sharing item.ID
// replaced in place, keeping its position.
func (inv Invoice) ReplaceLineItem(item LineItem) (Invoice, error) {
	idx := inv.indexOf(item.ID)
	if idx < 0 {
		return inv, fmt.Errorf("line item %q: %w", item.ID, ErrLineItemNotFound)
	}
	out := inv.clone()
	out.Items[idx] = item
	return out, nil
}

// RemoveLineItem returns a copy of inv without the item identified by id.
// The last remaining item cannot be removed.
func (inv Invoice) RemoveLineItem(id string) (Invoice, error) {
	idx := inv.indexOf(id)
	if idx < 0 {
		return inv, fmt.Errorf("line item %q: %w", id, ErrLineItemNotFound)
	}
	if len(inv.Items) <= 1 {
		return inv, ErrLastLineItem
	}
	out := inv.clone()
	out.Items = append(out.Items[:idx:idx], inv.Items[idx+1:]...)
	return out, nil
}

func (inv Invoice) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range inv.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (inv Invoice) clone() Invoice {
	out := inv
	if inv.Items != nil {
		out.Items = make([]LineItem, len(inv.Items))
		copy(out.Items, inv.Items)
	}
	return out
}

// DisplayNumber returns the invoice number, or the placeholder
// INV-<year>-<item count, 3 digits> when the number is blank.
//
// The placeholder is cosmetic: two invoices with the same item count in
// the same year get the same number.
func (inv Invoice) DisplayNumber(now time.Time) string {
	if n := strings.TrimSpace(inv.Details.Number); n != "" {
		return n
	}
	return fmt.Sprintf("INV-%d-%03d", now.Year(), len(inv.Items))
}

// Normalize fills display defaults without changing amounts: the invoice
// number placeholder, the currency fallback and missing line item IDs.
func (inv Invoice) Normalize(now time.Time, defaultCurrency string) Invoice {
	out := inv.clone()
	out.Details.Number = inv.DisplayNumber(now)
	out.Details.Currency = strings.ToUpper(strings.TrimSpace(out.Details.Currency))
	if out.Details.Currency == "" {
		out.Details.Currency = defaultCurrency
	}
	for i := range out.Items {
		if out.Items[i].ID == "" {
			out.Items[i].ID = NewLineItem("", 0, 0).ID
		}
	}
	return out
}
