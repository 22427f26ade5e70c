// Package payment encodes payment requests as UPI or PayPal.me URIs.
//
// The encoder only describes a payment intent. It never contacts a payment
// provider.
package payment

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/invoicekit/invoicekit/internal/domain"
	"github.com/invoicekit/invoicekit/internal/domain/money"
)

// UPICurrency is the only currency the UPI scheme carries.
const UPICurrency = "INR"

var (
	currencyCode   = regexp.MustCompile(`^[A-Z]{3}$`)
	payPalAmountCu = regexp.MustCompile(`^(-?[0-9]+\.[0-9]{2})([A-Z]{3})$`)
)

// Request is a decoded payment URI.
type Request struct {
	Scheme    domain.PaymentScheme `json:"scheme"`
	Payee     string               `json:"payee"`
	PayeeName string               `json:"payee_name,omitempty"`
	Amount    float64              `json:"amount"`
	Currency  string               `json:"currency"`
	Note      string               `json:"note"`
}

// Note returns the reference note attached to a payment for invoiceNumber.
func Note(invoiceNumber string) string { return "Invoice " + invoiceNumber }

// EncodeURI builds the payment URI for payeeID, picking the scheme from the
// identifier's shape the way domain.PaymentID.Scheme does. UPI handles produce upi://pay links (always cu=INR);
// PayPal.me links produce https://paypal.me/<user>/<amount><CUR> links.
func EncodeURI(payeeID, payeeName string, amount float64, currencyCode, invoiceNumber string) (string, error) {
	id := strings.TrimSpace(payeeID)
	switch {
	case domain.IsPayPalLink(id):
		return EncodePayPal(id, amount, currencyCode, invoiceNumber)
	case domain.IsUPIHandle(id):
		return EncodeUPI(id, payeeName, amount, invoiceNumber)
	default:
		return "", &domain.PaymentEncodingError{
			Reason: fmt.Sprintf("%q is neither a UPI handle nor a PayPal.me link", payeeID),
			Err:    domain.ErrInvalidPaymentIdentifier,
		}
	}
}

// EncodeUPI builds upi://pay?pa=..&pn=..&am=..&cu=INR&tn=..
// Every interpolated value is percent-encoded per RFC 3986.
func EncodeUPI(handle, payeeName string, amount float64, invoiceNumber string) (string, error) {
	handle = strings.TrimSpace(handle)
	if !domain.IsUPIHandle(handle) {
		return "", &domain.PaymentEncodingError{
			Scheme: domain.SchemeUPI,
			Reason: fmt.Sprintf("payee handle %q must look like name@bank", handle),
			Err:    domain.ErrInvalidPaymentIdentifier,
		}
	}
	if err := checkAmount(domain.SchemeUPI, amount); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("upi://pay?pa=")
	b.WriteString(Escape(handle))
	b.WriteString("&pn=")
	b.WriteString(Escape(payeeName))
	b.WriteString("&am=")
	b.WriteString(money.Fixed2(amount))
	b.WriteString("&cu=")
	b.WriteString(UPICurrency)
	b.WriteString("&tn=")
	b.WriteString(Escape(Note(invoiceNumber)))
	return b.String(), nil
}

// EncodePayPal builds https://paypal.me/<user>/<amount><CUR>?note=Invoice <N>.
// The note is left unencoded to match links already handed out.
func EncodePayPal(link string, amount float64, currency, invoiceNumber string) (string, error) {
	user, err := PayPalUsername(link)
	if err != nil {
		return "", err
	}
	cur := strings.ToUpper(strings.TrimSpace(currency))
	if !currencyCode.MatchString(cur) {
		return "", &domain.PaymentEncodingError{
			Scheme: domain.SchemePayPal,
			Reason: fmt.Sprintf("currency %q is not an ISO 4217 code", currency),
			Err:    domain.ErrUnknownCurrency,
		}
	}
	if err := checkAmount(domain.SchemePayPal, amount); err != nil {
		return "", err
	}
	return "https://paypal.me/" + user + "/" + money.Fixed2(amount) + cur + "?note=" + Note(invoiceNumber), nil
}

// PayPalUsername extracts <username> from https://paypal.me/<username>[/...].
func PayPalUsername(link string) (string, error) {
	link = strings.TrimSpace(link)
	if !domain.IsPayPalLink(link) {
		return "", &domain.PaymentEncodingError{
			Scheme: domain.SchemePayPal,
			Reason: fmt.Sprintf("%q is not a paypal.me link", link),
			Err:    domain.ErrInvalidPaymentIdentifier,
		}
	}
	user, ok := domain.PayPalUser(link)
	if !ok {
		return "", &domain.PaymentEncodingError{
			Scheme: domain.SchemePayPal,
			Reason: fmt.Sprintf("no valid username in %q", link),
			Err:    domain.ErrInvalidPaymentIdentifier,
		}
	}
	return user, nil
}

// Parse decodes a URI produced by EncodeURI.
func Parse(uri string) (Request, error) {
	switch {
	case strings.HasPrefix(strings.ToLower(uri), "upi://"):
		return parseUPI(uri)
	case domain.IsPayPalLink(uri):
		return parsePayPal(uri)
	default:
		return Request{}, fmt.Errorf("unrecognised payment uri %q", uri)
	}
}

func parseUPI(uri string) (Request, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Request{}, fmt.Errorf("parsing upi uri: %w", err)
	}
	q := u.Query()
	amount, err := strconv.ParseFloat(q.Get("am"), 64)
	if err != nil {
		return Request{}, fmt.Errorf("parsing upi amount %q: %w", q.Get("am"), err)
	}
	return Request{
		Scheme:    domain.SchemeUPI,
		Payee:     q.Get("pa"),
		PayeeName: q.Get("pn"),
		Amount:    amount,
		Currency:  q.Get("cu"),
		Note:      q.Get("tn"),
	}, nil
}

func parsePayPal(uri string) (Request, error) {
	user, err := PayPalUsername(uri)
	if err != nil {
		return Request{}, err
	}
	path, query, _ := strings.Cut(uri, "?")
	last := path[strings.LastIndex(path, "/")+1:]
	m := payPalAmountCu.FindStringSubmatch(last)
	if m == nil {
		return Request{}, fmt.Errorf("paypal uri %q has no <amount><currency> segment", uri)
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Request{}, fmt.Errorf("parsing paypal amount %q: %w", m[1], err)
	}
	return Request{
		Scheme:   domain.SchemePayPal,
		Payee:    user,
		Amount:   amount,
		Currency: m[2],
		Note:     strings.TrimPrefix(query, "note="),
	}, nil
}

// Escape percent-encodes s per RFC 3986: only unreserved characters
// (ALPHA / DIGIT / "-" / "." / "_" / "~") pass through, space becomes %20.
func Escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func checkAmount(scheme domain.PaymentScheme, amount float64) error {
	switch {
	case math.IsNaN(amount) || math.IsInf(amount, 0):
		return &domain.PaymentEncodingError{Scheme: scheme, Reason: "amount is not a finite number"}
	case amount < 0:
		return &domain.PaymentEncodingError{Scheme: scheme, Reason: fmt.Sprintf("amount %s is negative", money.Fixed2(amount))}
	}
	return nil
}
