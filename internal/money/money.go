// Package money models signed monetary amounts in an ISO 4217 currency.
package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// ErrUnknownCurrency is returned for codes that are not registered ISO 4217 currencies.
var ErrUnknownCurrency = errors.New("unknown currency")

// Amount is a signed decimal value in a currency. Debits are negative.
type Amount struct {
	Value    decimal.Decimal
	Currency currency.Unit
}

// ParseCurrency resolves a three-letter upper-case ISO 4217 code.
func ParseCurrency(code string) (currency.Unit, error) {
	if len(code) != 3 {
		return currency.Unit{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}

	for i := range len(code) {
		if code[i] < 'A' || code[i] > 'Z' {
			return currency.Unit{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
		}
	}

	unit, err := currency.ParseISO(code)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("%w: %q", ErrUnknownCurrency, code)
	}

	return unit, nil
}

// New builds an Amount from a decimal value and a currency code.
func New(value decimal.Decimal, code string) (Amount, error) {
	unit, err := ParseCurrency(code)
	if err != nil {
		return Amount{}, err
	}

	return Amount{Value: value, Currency: unit}, nil
}

// Parse builds an Amount from a plain decimal string such as "12.50".
func Parse(value, code string) (Amount, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Amount{}, fmt.Errorf("parsing amount %q: %w", value, err)
	}

	return New(d, code)
}

func (a Amount) Neg() Amount {
	return Amount{Value: a.Value.Neg(), Currency: a.Currency}
}

func (a Amount) IsNegative() bool {
	return a.Value.IsNegative()
}

// Code returns the ISO 4217 code, or an empty string for the zero Amount.
func (a Amount) Code() string {
	if a.Currency == (currency.Unit{}) {
		return ""
	}

	return a.Currency.String()
}

// String formats the amount with two decimals, e.g. "-12.50 EUR".
func (a Amount) String() string {
	return fmt.Sprintf("%s %s", a.Value.StringFixed(2), a.Code())
}
