package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrInvalidPaymentIdentifier = errors.New("invalid payment identifier")
	ErrUnknownCurrency          = errors.New("unknown currency")
	ErrAssetTimeout             = errors.New("asset not ready before deadline")
	ErrLastLineItem             = errors.New("an invoice must keep at least one line item")
	ErrLineItemNotFound         = errors.New("line item not found")
)

// FieldViolation is a single failed validation rule.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violation found in one validation pass.
type ValidationError struct {
	Violations []FieldViolation `json:"violations"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Message: fmt.Sprintf(format, args...)})
}

// Has reports whether field has at least one violation.
func (e *ValidationError) Has(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// Fields returns the violated field names, sorted and de-duplicated.
func (e *ValidationError) Fields() []string {
	seen := make(map[string]bool, len(e.Violations))
	var out []string
	for _, v := range e.Violations {
		if !seen[v.Field] {
			seen[v.Field] = true
			out = append(out, v.Field)
		}
	}
	sort.Strings(out)
	return out
}

func (e *ValidationError) orNil() error {
	if len(e.Violations) == 0 {
		return nil
	}
	return e
}

// PaymentEncodingError means no payment URI or QR code could be produced.
// Callers omit the payment section and carry on.
type PaymentEncodingError struct {
	Scheme PaymentScheme
	Reason string
	Err    error
}

func (e *PaymentEncodingError) Error() string {
	msg := "payment encoding"
	if e.Scheme != SchemeNone {
		msg += " (" + string(e.Scheme) + ")"
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PaymentEncodingError) Unwrap() error { return e.Err }

// AssetLoadError means an image could not be loaded or decoded in time.
// The asset is dropped from the rendered document.
type AssetLoadError struct {
	Asset string // logo, signature or payment_qr
	Ref   string
	Err   error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("loading %s asset %q: %v", e.Asset, e.Ref, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }

// ExportError is fatal to one export attempt. The invoice is untouched and
// no output file is left behind.
type ExportError struct {
	Stage string // render, paginate, write
	Err   error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export failed during %s: %v", e.Stage, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
