package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// ExpenseRow mirrors one row of the expenses table. Columns are nullable
// because the table has no NOT NULL constraints.
type ExpenseRow struct {
	ID          int64
	Date        sql.NullString
	Category    sql.NullString
	Description sql.NullString
	Amount      sql.NullFloat64
	PaymentMode sql.NullString
}

const createExpense = `INSERT INTO expenses (date, category, description, amount, payment_mode)
VALUES (?, ?, ?, ?, ?)`

type CreateExpenseParams struct {
	Date        string
	Category    string
	Description string
	Amount      float64
	PaymentMode string
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, createExpense,
		arg.Date,
		arg.Category,
		arg.Description,
		arg.Amount,
		arg.PaymentMode,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const listExpenses = `SELECT id, date, category, description, amount, payment_mode
FROM expenses
ORDER BY date DESC, id DESC`

func (q *Queries) ListExpenses(ctx context.Context) ([]ExpenseRow, error) {
	rows, err := q.db.QueryContext(ctx, listExpenses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ExpenseRow
	for rows.Next() {
		var i ExpenseRow
		if err := rows.Scan(
			&i.ID,
			&i.Date,
			&i.Category,
			&i.Description,
			&i.Amount,
			&i.PaymentMode,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getExpense = `SELECT id, date, category, description, amount, payment_mode
FROM expenses
WHERE id = ?`

func (q *Queries) GetExpense(ctx context.Context, id int64) (ExpenseRow, error) {
	row := q.db.QueryRowContext(ctx, getExpense, id)
	var i ExpenseRow
	err := row.Scan(
		&i.ID,
		&i.Date,
		&i.Category,
		&i.Description,
		&i.Amount,
		&i.PaymentMode,
	)
	return i, err
}

const deleteExpense = `DELETE FROM expenses WHERE id = ?`

func (q *Queries) DeleteExpense(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteExpense, id)
	return err
}
