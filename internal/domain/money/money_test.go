package money_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/invoicekit/invoicekit/internal/domain/money"
)

func TestFormat(t *testing.T) {
	f := money.NewFormatter("INR", nil)

	tests := []struct {
		amount float64
		code   string
		want   string
	}{
		{5900, "INR", "₹5,900.00"},
		{1234.5, "USD", "$1,234.50"},
		{1500, "JPY", "¥1,500"},
		{0.005, "EUR", "€0.01"},
		{99.9, "gbp", "£99.90"},
		{12, "CHF", "CHF 12.00"},
		{0, "INR", "₹0.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, f.Format(tt.amount, tt.code), "%v %s", tt.amount, tt.code)
	}
}

func TestFormat_Negative(t *testing.T) {
	f := money.NewFormatter("INR", nil)
	assert.Equal(t, "-₹20.00", f.Format(-20, "INR"))
	assert.Equal(t, "₹0.00", f.Format(-0.001, "INR"), "rounds to zero without a sign")
}

func TestFormat_UnknownCodeFallsBackAndWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	f := money.NewFormatter("USD", zap.New(core))

	assert.Equal(t, "$10.00", f.Format(10, "XYZ"))
	assert.Equal(t, "$10.00", f.Format(10, ""))

	warnings := logs.FilterMessage("unknown currency code, using default").All()
	require.Len(t, warnings, 2)
	assert.Equal(t, "XYZ", warnings[0].ContextMap()["code"])
	assert.Equal(t, "USD", warnings[0].ContextMap()["default"])
}

func TestNewFormatter_InvalidDefault(t *testing.T) {
	f := money.NewFormatter("???", nil)
	assert.Equal(t, "INR", f.Fallback().Code)
}

func TestFormat_NonFinite(t *testing.T) {
	f := money.NewFormatter("USD", nil)
	assert.Equal(t, "$0.00", f.Format(math.NaN(), "USD"))
}

func TestScale(t *testing.T) {
	assert.Equal(t, 2, money.Scale("INR"))
	assert.Equal(t, 0, money.Scale("JPY"))
	assert.Equal(t, 2, money.Scale("not a code"))
}

func TestFixed2(t *testing.T) {
	tests := map[float64]string{
		1234.5:      "1234.50",
		99.9:        "99.90",
		2.675:       "2.68",
		-0.005:      "-0.01",
		1000000:     "1000000.00",
		math.Inf(1): "0.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, money.Fixed2(in), "%v", in)
	}
}
