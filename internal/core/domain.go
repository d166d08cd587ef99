package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO layout used for dates in the database and in forms.
const DateLayout = "2006-01-02"

type (
	Date struct {
		time.Time
	}

	// Month is a date truncated to year and month, used as an aggregation key.
	Month struct {
		Year  int
		Month time.Month
	}

	Expense struct {
		ID          int64 // Assigned by the store on insert
		Date        Date
		Category    string
		Description string
		Amount      Money
		PaymentMode string
	}
)

// DefaultCategories is the fixed list offered by the expense form.
var DefaultCategories = []string{
	"Food", "Transport", "Groceries", "Rent",
	"Shopping", "Entertainment", "Bills", "Others",
}

// PaymentModes is the fixed list of payment modes offered by the expense form.
var PaymentModes = []string{"UPI", "Cash", "Card", "Net Banking"}

var (
	ErrZeroDate           = errors.New("date cannot be zero")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrNegativeAmount     = errors.New("amount cannot be negative")
	ErrEmptyCategory      = errors.New("empty category")
	ErrEmptyPaymentMode   = errors.New("empty payment mode")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the clock part of t, keeping its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a date in YYYY-MM-DD format.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// Month returns the month-period the date belongs to.
func (d Date) Month() Month {
	return Month{Year: d.Year(), Month: d.Time.Month()}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// MonthOf returns the month-period containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// Before reports whether m is an earlier month than other.
func (m Month) Before(other Month) bool {
	if m.Year != other.Year {
		return m.Year < other.Year
	}
	return m.Month < other.Month
}

// Validate checks user input before it reaches the store. The store itself
// accepts any record.
func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(e.PaymentMode) == "" {
		return ErrEmptyPaymentMode
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if e.Amount.Cents < 0 {
		return ErrNegativeAmount
	}
	return nil
}
