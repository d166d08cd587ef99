package sheets

import (
	"context"

	"expenses/internal/core"
)

// Ports for outbound adapters.
type (
	// RowWriter mirrors stored expenses into a spreadsheet, one row per record
	// keyed by the expense id in the first column.
	RowWriter interface {
		AppendExpense(ctx context.Context, e core.Expense) (rowRef string, err error)
		// DeleteExpense removes the row for id. A missing row is not an error.
		DeleteExpense(ctx context.Context, id int64) error
	}
)

// Header is the first row of the mirror sheet
var Header = []string{"ID", "Date", "Category", "Description", "Amount", "Payment"}
