package domain

import "strings"

// Currency is one of the fixed set of currencies an invoice may use.
type Currency struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// Currencies lists the supported currencies in display order.
var Currencies = []Currency{
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee"},
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	{Code: "CHF", Symbol: "CHF ", Name: "Swiss Franc"},
	{Code: "CNY", Symbol: "CN¥", Name: "Chinese Yuan"},
}

// DefaultCurrency is used when neither the invoice nor the config names one.
const DefaultCurrency = "INR"

// LookupCurrency finds a supported currency by code, case-insensitively.
func LookupCurrency(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}
