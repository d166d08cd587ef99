// Package core provides money parsing and handling utilities.
//
// Amounts are held as integer cents. This file converts between cents, the
// decimal strings typed into forms and the REAL values kept in the database.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

type Money struct {
	Cents int64
}

// ParseDecimalToCents converts a decimal string to cents with half-up rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Zero is a
// valid amount; negative values and malformed input return ErrInvalidAmount.
//
// Examples:
//
//	ParseDecimalToCents("12.34")  -> 1234, nil
//	ParseDecimalToCents("12,34")  -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil (half-up)
//	ParseDecimalToCents("12.344") -> 1234, nil
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Reject exponent notation and overflow; forms only produce plain decimals.
	if strings.ContainsAny(s, "eE") || d.Shift(2).GreaterThan(decimal.NewFromInt(maxCents)) {
		return 0, ErrInvalidAmount
	}
	return d.Round(2).Shift(2).IntPart(), nil
}

const maxCents = (1<<63 - 1) / 100

// ParseMoney parses a decimal string into Money.
func ParseMoney(s string) (Money, error) {
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents}, nil
}

// MoneyFromFloat converts a REAL column value to cents, rounding half away from zero.
// NaN, infinities and values outside the int64 cents range return ErrInvalidAmount.
func MoneyFromFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxCents/100 {
		return Money{}, ErrInvalidAmount
	}
	return Money{Cents: decimal.NewFromFloat(f).Round(2).Shift(2).IntPart()}, nil
}

// Float returns the amount in whole units, as stored in the database and in exports.
func (m Money) Float() float64 {
	f, _ := decimal.New(m.Cents, -2).Float64()
	return f
}

// Decimal returns the amount as an exact two-place decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// Format renders the amount with the given currency symbol, e.g. "₹250.50" or "-₹200.00".
func (m Money) Format(symbol string) string {
	if m.Cents < 0 {
		return "-" + symbol + decimal.New(-m.Cents, -2).StringFixed(2)
	}
	return symbol + m.Decimal().StringFixed(2)
}
