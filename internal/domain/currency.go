package domain

import (
	"fmt"
	"strings"
)

// Currency identifies a supported currency. The text form is lowercase ("gbp").
type Currency string

const (
	CurrencyGBP Currency = "gbp"
	CurrencyNZD Currency = "nzd"
)

// BaseCurrency is the currency every price filter compares in
const BaseCurrency = CurrencyGBP

// exchangeRates maps each currency to units per one GBP
var exchangeRates = map[Currency]float64{
	CurrencyGBP: 1,
	CurrencyNZD: 1.90,
}

// Currencies returns the supported currencies in a stable order
func Currencies() []Currency {
	return []Currency{CurrencyGBP, CurrencyNZD}
}

// ParseCurrency resolves a currency code such as "GBP" or "nzd"
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := exchangeRates[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCurrency, s)
	}
	return c, nil
}

// ExchangeRate returns the factor that converts an amount in from into an amount in to
func ExchangeRate(from, to Currency) (float64, error) {
	fromRate, ok := exchangeRates[from]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, string(from))
	}
	toRate, ok := exchangeRates[to]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCurrency, string(to))
	}
	return toRate / fromRate, nil
}

// Valid reports whether the currency is in the exchange-rate table
func (c Currency) Valid() bool {
	_, ok := exchangeRates[c]
	return ok
}

func (c Currency) String() string {
	return strings.ToUpper(string(c))
}

// UnmarshalText accepts any casing of a supported code
func (c *Currency) UnmarshalText(text []byte) error {
	parsed, err := ParseCurrency(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
