// Package money formats monetary amounts for display.
//
// Formatting never mutates or rounds stored amounts; rounding happens only
// in the returned strings.
package money

import (
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/invoicekit/invoicekit/internal/domain"
)

// Formatter renders amounts as symbol + grouped digits.
type Formatter struct {
	fallback domain.Currency
	printer  *message.Printer
	logger   *zap.Logger
}

// NewFormatter creates a Formatter that falls back to defaultCode for
// unknown currency codes. A nil logger discards the fallback warnings.
func NewFormatter(defaultCode string, logger *zap.Logger) *Formatter {
	fallback, ok := domain.LookupCurrency(defaultCode)
	if !ok {
		fallback, _ = domain.LookupCurrency(domain.DefaultCurrency)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Formatter{
		fallback: fallback,
		printer:  message.NewPrinter(language.MustParse("en-IN")),
		logger:   logger,
	}
}

// Format renders amount in the given currency, e.g. "₹5,900.00" or "¥1,500".
// Zero-decimal currencies get no fraction digits. Unknown or empty codes
// fall back to the default currency.
func (f *Formatter) Format(amount float64, code string) string {
	cur := f.Resolve(code)
	scale := Scale(cur.Code)

	d := decimal.NewFromFloat(finiteOrZero(amount)).Round(int32(scale))
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	digits := f.printer.Sprint(number.Decimal(d.Abs().InexactFloat64(), number.Scale(scale)))
	return sign + cur.Symbol + digits
}

// Resolve returns the supported currency for code, or the fallback.
func (f *Formatter) Resolve(code string) domain.Currency {
	if cur, ok := domain.LookupCurrency(code); ok {
		return cur
	}
	f.logger.Warn("unknown currency code, using default",
		zap.String("code", code),
		zap.String("default", f.fallback.Code),
	)
	return f.fallback
}

// Fallback returns the currency used for unknown codes.
func (f *Formatter) Fallback() domain.Currency { return f.fallback }

// Scale returns the number of fraction digits of code's standard rounding.
func Scale(code string) int {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return 2
	}
	scale, _ := currency.Standard.Rounding(unit)
	return scale
}

// Fixed2 renders amount with exactly two decimals and no grouping,
// rounding half away from zero: 1234.5 -> "1234.50".
func Fixed2(amount float64) string {
	return decimal.NewFromFloat(finiteOrZero(amount)).StringFixed(2)
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
