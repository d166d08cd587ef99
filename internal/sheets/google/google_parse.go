package google

import (
	"fmt"
	"strconv"
	"strings"

	"expenses/internal/core"
)

// expenseRow lays out e as ID, Date, Category, Description, Amount, Payment.
func expenseRow(e core.Expense) []any {
	return []any{e.ID, e.Date.String(), e.Category, e.Description, e.Amount.Float(), e.PaymentMode}
}

// findRowByID returns the zero-based row index whose first cell holds id.
// Header and malformed rows are skipped.
func findRowByID(values [][]any, id int64) (int, bool) {
	for i, row := range values {
		if len(row) == 0 {
			continue
		}
		if v, ok := parseID(row[0]); ok && v == id {
			return i, true
		}
	}
	return 0, false
}

// parseID accepts the cell both as formatted text and as a raw number.
func parseID(cell any) (int64, bool) {
	s := strings.TrimSpace(fmt.Sprint(cell))
	if s == "" {
		return 0, false
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, false
	}
	return int64(f), true
}

func isHeaderRow(values [][]any) bool {
	if len(values) == 0 || len(values[0]) == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(fmt.Sprint(values[0][0])), "ID")
}
