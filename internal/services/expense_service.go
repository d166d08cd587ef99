package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expenses/internal/amqp"
	"expenses/internal/core"
	applog "expenses/internal/log"
)

// Store is the persistence the service needs
type Store interface {
	Insert(ctx context.Context, e core.Expense) (int64, error)
	ListAll(ctx context.Context) ([]core.Expense, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
	Close() error
}

// EventPublisher announces changes to the sync worker
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *amqp.ExpenseEvent) error
	Close() error
}

// Analytics is the all-time summary shown on the analytics page
type Analytics struct {
	Count      int
	Total      core.Money
	MonthCount int
	Categories []core.CategoryAmount
	Trend      []core.MonthAmount
}

// defaultPublishTimeout bounds how long a write waits on the broker
const defaultPublishTimeout = 3 * time.Second

// ExpenseService orchestrates expense operations across SQLite and AMQP
type ExpenseService struct {
	storage        Store
	publisher      EventPublisher
	logger         *applog.Logger
	publishTimeout time.Duration
}

// NewExpenseService wires the store and an optional publisher. A nil
// publisher disables change events.
func NewExpenseService(storage Store, publisher EventPublisher, logger *applog.Logger) *ExpenseService {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ExpenseService{
		storage:        storage,
		publisher:      publisher,
		logger:         logger.WithComponent(applog.ComponentExpense),
		publishTimeout: defaultPublishTimeout,
	}
}

// CreateExpense validates e, saves it locally and publishes a created event
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}

	id, err := s.storage.Insert(ctx, e)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save expense",
			applog.NewFields().WithOperation(applog.OpCreate).WithError(err).ToSlice()...)
		return 0, fmt.Errorf("save expense: %w", err)
	}

	s.logger.InfoContext(ctx, "Expense created",
		applog.NewFields().WithOperation(applog.OpCreate).
			WithExpense(id, e.Category, e.Amount.Cents, e.PaymentMode).ToSlice()...)

	s.publish(ctx, amqp.EventCreated, id)
	return id, nil
}

// DeleteExpense removes an expense locally and publishes a deleted event
func (s *ExpenseService) DeleteExpense(ctx context.Context, id int64) error {
	if err := s.storage.Delete(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete expense",
			applog.FieldOperation, applog.OpDelete, applog.FieldExpenseID, id, applog.FieldError, err)
		return fmt.Errorf("delete expense: %w", err)
	}

	s.publish(ctx, amqp.EventDeleted, id)
	return nil
}

// ListExpenses returns the history, most recent first, narrowed by filter
func (s *ExpenseService) ListExpenses(ctx context.Context, filter core.Filter) ([]core.Expense, error) {
	records, err := s.list(ctx, applog.OpList)
	if err != nil {
		return nil, err
	}
	return filter.Apply(records), nil
}

// Analytics summarizes every stored expense
func (s *ExpenseService) Analytics(ctx context.Context) (Analytics, error) {
	records, err := s.list(ctx, applog.OpAnalyze)
	if err != nil {
		return Analytics{}, err
	}
	return Analytics{
		Count:      len(records),
		Total:      core.Total(records),
		MonthCount: core.DistinctMonthCount(records),
		Categories: core.CategoryTotals(records),
		Trend:      core.MonthlyTrend(records),
	}, nil
}

// Budget compares budget with the spend of the month containing now
func (s *ExpenseService) Budget(ctx context.Context, budget core.Money, now time.Time) (core.BudgetSummary, error) {
	records, err := s.list(ctx, applog.OpBudget)
	if err != nil {
		return core.BudgetSummary{}, err
	}
	return core.BudgetOverview(records, budget, core.MonthOf(now)), nil
}

// Ping reports whether the database is reachable
func (s *ExpenseService) Ping(ctx context.Context) error {
	return s.storage.Ping(ctx)
}

func (s *ExpenseService) list(ctx context.Context, op string) ([]core.Expense, error) {
	records, err := s.storage.ListAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load expenses",
			applog.FieldOperation, op, applog.FieldError, err)
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	return records, nil
}

// publish is best effort: the expense is already saved locally
func (s *ExpenseService) publish(ctx context.Context, eventType amqp.EventType, id int64) {
	if s.publisher == nil {
		s.logger.DebugContext(ctx, "AMQP publisher not configured, skipping event",
			applog.FieldEventType, string(eventType), applog.FieldExpenseID, id)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()
	if err := s.publisher.PublishEvent(ctx, amqp.NewExpenseEvent(eventType, id)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish expense event",
			applog.FieldEventType, string(eventType), applog.FieldExpenseID, id, applog.FieldError, err)
	}
}

// Close closes both storage and AMQP connections
func (s *ExpenseService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %w", errors.Join(errs...))
	}
	return nil
}
