package core

import (
	"slices"
	"strings"
)

// BudgetStatus classifies the remaining monthly budget.
type BudgetStatus string

const (
	BudgetOver BudgetStatus = "OVER"
	BudgetLow  BudgetStatus = "LOW"
	BudgetOK   BudgetStatus = "OK"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthAmount is the spend of a single month-period.
type MonthAmount struct {
	Month  Month
	Amount Money
}

// BudgetSummary compares a monthly budget with what was spent in that month.
type BudgetSummary struct {
	Month       Month
	Budget      Money
	Spent       Money
	Remaining   Money
	Status      BudgetStatus
	Progress    int // percent of budget spent, capped at 100
	TopCategory string
	HasTop      bool
}

// Filter keeps the records whose category and payment mode are selected.
// An empty selection does not filter on that column.
type Filter struct {
	Categories   []string
	PaymentModes []string
}

// Total sums every amount; zero for an empty slice.
func Total(records []Expense) Money {
	var total int64
	for _, e := range records {
		total += e.Amount.Cents
	}
	return Money{Cents: total}
}

// ByCategory groups amounts by exact category string.
func ByCategory(records []Expense) map[string]Money {
	out := make(map[string]Money)
	for _, e := range records {
		m := out[e.Category]
		m.Cents += e.Amount.Cents
		out[e.Category] = m
	}
	return out
}

// CategoryTotals returns the per-category sums in first-encountered order.
func CategoryTotals(records []Expense) []CategoryAmount {
	idx := make(map[string]int)
	var out []CategoryAmount
	for _, e := range records {
		i, ok := idx[e.Category]
		if !ok {
			i = len(out)
			idx[e.Category] = i
			out = append(out, CategoryAmount{Name: e.Category})
		}
		out[i].Amount.Cents += e.Amount.Cents
	}
	return out
}

// ByMonth groups amounts by the month-period of each record's date.
func ByMonth(records []Expense) map[Month]Money {
	out := make(map[Month]Money)
	for _, e := range records {
		k := e.Date.Month()
		m := out[k]
		m.Cents += e.Amount.Cents
		out[k] = m
	}
	return out
}

// MonthlyTrend returns the per-month sums in ascending month order.
func MonthlyTrend(records []Expense) []MonthAmount {
	byMonth := ByMonth(records)
	out := make([]MonthAmount, 0, len(byMonth))
	for m, amt := range byMonth {
		out = append(out, MonthAmount{Month: m, Amount: amt})
	}
	slices.SortFunc(out, func(a, b MonthAmount) int {
		switch {
		case a.Month.Before(b.Month):
			return -1
		case b.Month.Before(a.Month):
			return 1
		}
		return 0
	})
	return out
}

// DistinctMonthCount returns how many month-periods appear in records.
func DistinctMonthCount(records []Expense) int {
	return len(ByMonth(records))
}

// FilterMonth keeps the records dated within month.
func FilterMonth(records []Expense, month Month) []Expense {
	var out []Expense
	for _, e := range records {
		if e.Date.Month() == month {
			out = append(out, e)
		}
	}
	return out
}

// RemainingBudget is budget minus the spend of month. Negative means overspend.
func RemainingBudget(records []Expense, budget Money, month Month) Money {
	return budget.Sub(Total(FilterMonth(records, month)))
}

// BudgetStatusFor classifies remaining against budget: OVER below zero, LOW
// under 20% of the budget, OK otherwise.
func BudgetStatusFor(remaining, budget Money) BudgetStatus {
	switch {
	case remaining.Cents < 0:
		return BudgetOver
	case remaining.Cents*5 < budget.Cents:
		return BudgetLow
	default:
		return BudgetOK
	}
}

// TopCategory returns the category with the highest total. Ties go to the
// category encountered first. ok is false for empty input.
func TopCategory(records []Expense) (name string, ok bool) {
	var best Money
	for _, c := range CategoryTotals(records) {
		if !ok || c.Amount.Cents > best.Cents {
			name, best, ok = c.Name, c.Amount, true
		}
	}
	return name, ok
}

// BudgetOverview builds the budget page summary for month.
func BudgetOverview(records []Expense, budget Money, month Month) BudgetSummary {
	monthRecords := FilterMonth(records, month)
	spent := Total(monthRecords)
	remaining := budget.Sub(spent)
	top, hasTop := TopCategory(monthRecords)
	return BudgetSummary{
		Month:       month,
		Budget:      budget,
		Spent:       spent,
		Remaining:   remaining,
		Status:      BudgetStatusFor(remaining, budget),
		Progress:    progress(spent, budget),
		TopCategory: top,
		HasTop:      hasTop,
	}
}

func progress(spent, budget Money) int {
	if budget.Cents <= 0 {
		if spent.Cents > 0 {
			return 100
		}
		return 0
	}
	if spent.Cents <= 0 {
		return 0
	}
	if spent.Cents >= budget.Cents {
		return 100
	}
	return int(spent.Cents * 100 / budget.Cents)
}

// Apply returns the records matching the filter, preserving order.
func (f Filter) Apply(records []Expense) []Expense {
	out := make([]Expense, 0, len(records))
	for _, e := range records {
		if len(f.Categories) > 0 && !slices.Contains(f.Categories, e.Category) {
			continue
		}
		if len(f.PaymentModes) > 0 && !slices.Contains(f.PaymentModes, e.PaymentMode) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Categories lists the distinct categories in records, first-seen order.
func Categories(records []Expense) []string {
	return distinct(records, func(e Expense) string { return e.Category })
}

// PaymentModesIn lists the distinct payment modes in records, first-seen order.
func PaymentModesIn(records []Expense) []string {
	return distinct(records, func(e Expense) string { return e.PaymentMode })
}

func distinct(records []Expense, key func(Expense) string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, e := range records {
		k := key(e)
		if strings.TrimSpace(k) == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
