package storage

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"expenses/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	dbPath  string
	queries *Queries
}

// NewSQLiteRepository opens (creating if needed) the database file at dbPath
// and makes sure the expenses table exists.
func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// Single writer: every statement goes through one connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		dbPath:  dbPath,
		queries: New(db),
	}

	if err := repo.Initialize(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

// Initialize creates the expenses table if absent. Safe to call on every startup.
func (r *SQLiteRepository) Initialize(ctx context.Context) error {
	if err := RunMigrations(r.dbPath); err != nil {
		return failure("initialize", err)
	}
	slog.DebugContext(ctx, "Expenses table ready", "db_path", r.dbPath)
	return nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks that the database file is still reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return failure("ping", err)
	}
	return nil
}

// Insert appends e and returns the id assigned by the database. e.ID is ignored.
func (r *SQLiteRepository) Insert(ctx context.Context, e core.Expense) (int64, error) {
	id, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		Date:        e.Date.String(),
		Category:    e.Category,
		Description: e.Description,
		Amount:      e.Amount.Float(),
		PaymentMode: e.PaymentMode,
	})
	if err != nil {
		return 0, failure("insert", err)
	}

	slog.InfoContext(ctx, "Expense saved to SQLite",
		"id", id,
		"date", e.Date.String(),
		"category", e.Category,
		"amount_cents", e.Amount.Cents,
		"payment_mode", e.PaymentMode)

	return id, nil
}

// ListAll returns every expense, most recent date first. Same-day records
// are ordered newest id first. Rows that cannot be decoded are logged and skipped.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.queries.ListExpenses(ctx)
	if err != nil {
		return nil, failure("list", err)
	}

	expenses := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		e, err := row.toCore()
		if err != nil {
			// One bad legacy row must not hide the rest of the history
			slog.WarnContext(ctx, "Skipping unreadable expense row", "id", row.ID, "error", err)
			continue
		}
		expenses = append(expenses, e)
	}

	slices.SortStableFunc(expenses, func(a, b core.Expense) int {
		if c := b.Date.Compare(a.Date.Time); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})

	return expenses, nil
}

// Get returns a single expense or ErrNotFound. A row that cannot be decoded
// yields a Failure wrapping ErrUnreadableRow.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Expense, error) {
	row, err := r.queries.GetExpense(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, ErrNotFound
	}
	if err != nil {
		return core.Expense{}, failure("get", err)
	}
	e, err := row.toCore()
	if err != nil {
		return core.Expense{}, failure("get", err)
	}
	return e, nil
}

// Delete removes the expense with id. Unknown ids are a no-op.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	if err := r.queries.DeleteExpense(ctx, id); err != nil {
		return failure("delete", err)
	}
	slog.InfoContext(ctx, "Expense deleted from SQLite", "id", id)
	return nil
}

// storedDateLayouts are tried in order on the date column. Files written by
// other tools may carry a time part or unpadded month and day.
var storedDateLayouts = []string{
	core.DateLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-1-2",
}

func parseStoredDate(s string) (core.Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range storedDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.DateOf(t), nil
		}
	}
	// Accept any suffix after a valid ISO day, e.g. "2024-03-15T10:00"
	if len(s) > len(core.DateLayout) {
		if t, err := time.Parse(core.DateLayout, s[:len(core.DateLayout)]); err == nil {
			return core.DateOf(t), nil
		}
	}
	return core.Date{}, fmt.Errorf("parse date %q", s)
}

func (row ExpenseRow) toCore() (core.Expense, error) {
	if !row.Date.Valid {
		return core.Expense{}, fmt.Errorf("expense %d: %w: date is NULL", row.ID, ErrUnreadableRow)
	}
	date, err := parseStoredDate(row.Date.String)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d: %w: %v", row.ID, ErrUnreadableRow, err)
	}
	amount, err := core.MoneyFromFloat(row.Amount.Float64)
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense %d: %w: amount %v: %v", row.ID, ErrUnreadableRow, row.Amount.Float64, err)
	}
	return core.Expense{
		ID:          row.ID,
		Date:        date,
		Category:    row.Category.String,
		Description: row.Description.String,
		Amount:      amount,
		PaymentMode: row.PaymentMode.String,
	}, nil
}
