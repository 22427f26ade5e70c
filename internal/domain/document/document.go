// Package document builds the single declarative description of a rendered
// invoice. Every output (PDF, terminal preview, HTTP) is produced from a
// Description by one renderer, parameterised by a theme.
package document

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/invoicekit/invoicekit/internal/domain"
	"github.com/invoicekit/invoicekit/internal/domain/money"
	"github.com/invoicekit/invoicekit/internal/domain/totals"
)

const (
	Title        = "INVOICE"
	PaymentLabel = "Scan to Pay"
	FooterText   = "Thank you for your business!"
)

// Description is everything a renderer needs, already formatted.
type Description struct {
	Title  string
	Number string
	Meta   []Field // invoice number, dates

	Logo   *domain.Image
	From   Party
	BillTo Party

	Columns []Column
	Rows    []Row
	Totals  []TotalRow

	Payment   *PaymentBlock
	Notes     string
	Terms     string
	Signature *domain.Image
	Footer    string

	Properties domain.DocumentMeta
}

// Field is a label/value pair.
type Field struct {
	Label string
	Value string
}

// Party is an address block: a bold name followed by plain lines.
type Party struct {
	Heading string
	Name    string
	Lines   []string
}

// Align is the horizontal alignment of a column.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
	AlignCenter
)

// Column describes one items-table column. Weight is the share of the
// table width it takes.
type Column struct {
	Header string
	Weight float64
	Align  Align
}

// Row is one items-table row. Cells[0] is the item name; Detail, when
// set, is printed under it.
type Row struct {
	Cells  []string
	Detail string
}

// TotalRow is one line of the totals block.
type TotalRow struct {
	Label    string
	Value    string
	Emphasis bool // the grand total
	Negative bool // subtracted amounts
}

// PaymentBlock is the QR section.
type PaymentBlock struct {
	Caption string
	QR      *domain.Image
	URI     string
	Payee   string
}

// Options tune Describe.
type Options struct {
	Now time.Time
	// ShowZeroRows keeps discount, tax and shipping rows even when zero.
	ShowZeroRows bool
}

// Describe turns an invoice and its totals into a Description. Missing
// assets simply leave their sections out.
func Describe(inv domain.Invoice, t totals.Totals, assets domain.Assets, f *money.Formatter, opts Options) Description {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	number := inv.DisplayNumber(opts.Now)
	code := f.Resolve(inv.Details.Currency).Code
	amount := func(v float64) string { return f.Format(v, code) }

	d := Description{
		Title:  Title,
		Number: number,
		Meta: []Field{
			{Label: "Invoice #", Value: number},
			{Label: "Issue Date", Value: orPlaceholder(inv.Details.IssueDate.String())},
			{Label: "Due Date", Value: orPlaceholder(inv.Details.DueDate.String())},
		},
		Logo: assets.Logo,
		From: Party{
			Heading: "From",
			Name:    inv.Business.Name,
			Lines:   compact(splitLines(inv.Business.Address), inv.Business.Email, inv.Business.Phone),
		},
		BillTo: Party{
			Heading: "Bill To",
			Name:    inv.Client.DisplayName(),
			Lines:   compact(splitLines(inv.Client.Address), inv.Client.Email, inv.Client.Phone),
		},
		Columns: []Column{
			{Header: "Description", Weight: 0.46, Align: AlignLeft},
			{Header: "Qty", Weight: 0.12, Align: AlignRight},
			{Header: "Rate", Weight: 0.21, Align: AlignRight},
			{Header: "Amount", Weight: 0.21, Align: AlignRight},
		},
		Notes:     strings.TrimSpace(inv.Details.Notes),
		Terms:     strings.TrimSpace(inv.Details.Terms),
		Signature: assets.Signature,
		Footer:    FooterText,
		Properties: domain.DocumentMeta{
			Title:    "Invoice " + number,
			Author:   inv.Business.Name,
			Subject:  fmt.Sprintf("Invoice %s for %s", number, inv.Client.DisplayName()),
			Keywords: []string{"invoice", number, code},
		},
	}

	for _, item := range inv.Items {
		name, detail := item.Name, item.Description
		if strings.TrimSpace(name) == "" {
			name, detail = detail, ""
		}
		d.Rows = append(d.Rows, Row{
			Cells:  []string{orPlaceholder(name), Quantity(item.Quantity), amount(item.Rate), amount(item.Total())},
			Detail: detail,
		})
	}

	d.Totals = append(d.Totals, TotalRow{Label: "Subtotal", Value: amount(t.Subtotal)})
	if opts.ShowZeroRows || t.Discount != 0 {
		d.Totals = append(d.Totals, TotalRow{Label: "Discount", Value: "- " + amount(t.Discount), Negative: true})
	}
	if opts.ShowZeroRows || t.TaxRate != 0 {
		d.Totals = append(d.Totals, TotalRow{Label: "Tax (" + Quantity(t.TaxRate) + "%)", Value: amount(t.Tax)})
	}
	if opts.ShowZeroRows || t.Shipping != 0 {
		d.Totals = append(d.Totals, TotalRow{Label: "Shipping", Value: amount(t.Shipping)})
	}
	d.Totals = append(d.Totals, TotalRow{Label: "Total", Value: amount(t.Total), Emphasis: true})

	if assets.PaymentQR != nil {
		d.Payment = &PaymentBlock{
			Caption: PaymentLabel,
			QR:      assets.PaymentQR,
			URI:     assets.PaymentURI,
			Payee:   string(inv.Business.PaymentID),
		}
	}
	return d
}

// Quantity renders a quantity or percentage without trailing zeros.
func Quantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func compact(lines []string, extra ...string) []string {
	for _, e := range extra {
		if e = strings.TrimSpace(e); e != "" {
			lines = append(lines, e)
		}
	}
	return lines
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return domain.Placeholder
	}
	return s
}
