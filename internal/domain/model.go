package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Invoice is the aggregate root handed to the totals calculator and the
// exporter. It is a value: edits go through the With* functions, which
// return a new Invoice and never touch the receiver.
type Invoice struct {
	Business BusinessInfo   `yaml:"business" json:"business"`
	Client   ClientInfo     `yaml:"client"   json:"client"`
	Details  InvoiceDetails `yaml:"details"  json:"details"`
	Items    []LineItem     `yaml:"items"    json:"items"`
	Summary  Summary        `yaml:"summary"  json:"summary"`
}

// BusinessInfo describes the party issuing the invoice.
type BusinessInfo struct {
	Name      string    `yaml:"name"                json:"name"`
	Address   string    `yaml:"address"             json:"address"`
	Email     string    `yaml:"email"               json:"email"`
	Phone     string    `yaml:"phone,omitempty"     json:"phone,omitempty"`
	PaymentID PaymentID `yaml:"payment_id"          json:"payment_id"`
	Logo      AssetRef  `yaml:"logo,omitempty"      json:"logo,omitempty"`
	Signature AssetRef  `yaml:"signature,omitempty" json:"signature,omitempty"`
}

// ClientInfo describes the billed party. Every field is optional.
type ClientInfo struct {
	Name    string `yaml:"name"            json:"name"`
	Address string `yaml:"address"         json:"address"`
	Email   string `yaml:"email"           json:"email"`
	Phone   string `yaml:"phone,omitempty" json:"phone,omitempty"`
}

// DisplayName returns the client name or an em-dash placeholder.
func (c ClientInfo) DisplayName() string {
	if strings.TrimSpace(c.Name) == "" {
		return Placeholder
	}
	return c.Name
}

// Placeholder is rendered in place of empty display fields.
const Placeholder = "—"

type InvoiceDetails struct {
	Number    string `yaml:"number"          json:"number"`
	IssueDate Date   `yaml:"issue_date"      json:"issue_date"`
	DueDate   Date   `yaml:"due_date"        json:"due_date"`
	Currency  string `yaml:"currency"        json:"currency"`
	Notes     string `yaml:"notes,omitempty" json:"notes,omitempty"`
	Terms     string `yaml:"terms,omitempty" json:"terms,omitempty"`
}

// LineItem is a single billed row. Its total is always derived.
type LineItem struct {
	ID          string  `yaml:"id,omitempty"          json:"id,omitempty"`
	Name        string  `yaml:"name"                  json:"name"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Quantity    float64 `yaml:"quantity"              json:"quantity"`
	Rate        float64 `yaml:"rate"                  json:"rate"`
}

// NewLineItem creates a line item with a fresh list identity.
func NewLineItem(name string, quantity, rate float64) LineItem {
	return LineItem{ID: uuid.NewString(), Name: name, Quantity: quantity, Rate: rate}
}

// Total returns Quantity * Rate.
func (li LineItem) Total() float64 { return li.Quantity * li.Rate }

// Summary holds the invoice-level adjustments.
type Summary struct {
	Discount float64 `yaml:"discount" json:"discount"` // absolute amount
	TaxRate  float64 `yaml:"tax_rate" json:"tax_rate"` // percent, 0-100
	Shipping float64 `yaml:"shipping" json:"shipping"` // absolute amount
}

// AssetRef is an opaque image reference: a file path, a data: URI or an
// http(s) URL. The core never interprets it beyond handing it to an
// AssetLoader.
type AssetRef string

func (a AssetRef) IsZero() bool { return strings.TrimSpace(string(a)) == "" }

// Image is a decoded raster asset ready to be composited.
type Image struct {
	Name   string `json:"name"`
	Format string `json:"format"` // png, jpg or gif
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Data   []byte `json:"-"`
}

// Assets groups the optional images composited into a rendered invoice.
// A nil field means the section is omitted.
type Assets struct {
	Logo      *Image
	Signature *Image
	PaymentQR *Image
	// PaymentURI is the link the QR encodes. Terminal previews print it;
	// the PDF prints the payee identifier under the QR instead.
	PaymentURI string
}

// ── Payment identifiers ──

// PaymentScheme selects how a payment request is encoded.
type PaymentScheme string

const (
	SchemeUPI    PaymentScheme = "upi"
	SchemePayPal PaymentScheme = "paypal"
	SchemeNone   PaymentScheme = ""
)

// ValidPaymentSchemes enumerates the schemes a deployment may select.
var ValidPaymentSchemes = []PaymentScheme{SchemeUPI, SchemePayPal}

var (
	upiHandlePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+$`)
	payPalPrefix     = regexp.MustCompile(`(?i)^https?://(www\.)?paypal\.me/`)
	payPalUser       = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
)

// IsPayPalLink reports whether s starts with a paypal.me URL. Scheme and
// host match case-insensitively, with an optional www.
func IsPayPalLink(s string) bool { return payPalPrefix.MatchString(strings.TrimSpace(s)) }

// PayPalUser returns the username of a paypal.me link: the first path
// segment after the host. Later segments, the query and the fragment are
// ignored.
func PayPalUser(link string) (string, bool) {
	link = strings.TrimSpace(link)
	loc := payPalPrefix.FindStringIndex(link)
	if loc == nil {
		return "", false
	}
	user := link[loc[1]:]
	if i := strings.IndexAny(user, "/?#"); i >= 0 {
		user = user[:i]
	}
	return user, payPalUser.MatchString(user)
}

// IsUPIHandle reports whether s has the localpart@handle shape.
func IsUPIHandle(s string) bool { return upiHandlePattern.MatchString(strings.TrimSpace(s)) }

// PaymentID is either a UPI handle (localpart@handle) or a PayPal.me URL.
type PaymentID string

// Scheme reports which payment scheme the identifier belongs to, or
// SchemeNone when it matches neither.
func (p PaymentID) Scheme() PaymentScheme {
	s := string(p)
	if _, ok := PayPalUser(s); ok {
		return SchemePayPal
	}
	switch {
	case IsPayPalLink(s):
		return SchemeNone
	case IsUPIHandle(s):
		return SchemeUPI
	default:
		return SchemeNone
	}
}

func (p PaymentID) IsZero() bool { return strings.TrimSpace(string(p)) == "" }

// ── Dates ──

// DateLayout is the calendar-date wire format used in invoice files and APIs.
const DateLayout = "2006-01-02"

// Date is a calendar date without time-of-day.
type Date struct {
	time.Time
}

// NewDate returns the Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string. The empty string yields the zero Date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := ParseDate(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	return d.UnmarshalText([]byte(s))
}
