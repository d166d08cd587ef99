package worker

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"expenses/internal/amqp"
	"expenses/internal/core"
	applog "expenses/internal/log"
	"expenses/internal/sheets"
	"expenses/internal/storage"
)

// ExpenseReader loads a single stored expense
type ExpenseReader interface {
	Get(ctx context.Context, id int64) (core.Expense, error)
}

// Consumer feeds events to a handler until its context ends
type Consumer interface {
	Consume(ctx context.Context, handler func(context.Context, *amqp.ExpenseEvent) error) error
	Close() error
}

// SyncWorker mirrors the expenses table into a spreadsheet as change events arrive
type SyncWorker struct {
	storage ExpenseReader
	sheets  sheets.RowWriter
	logger  *applog.Logger
}

func NewSyncWorker(storage ExpenseReader, rows sheets.RowWriter, logger *applog.Logger) *SyncWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &SyncWorker{
		storage: storage,
		sheets:  rows,
		logger:  logger.WithComponent(applog.ComponentWorker),
	}
}

// Run consumes events until ctx is cancelled. The consumer is closed when
// ctx ends so a blocked delivery loop returns.
func (w *SyncWorker) Run(ctx context.Context, consumer Consumer) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := consumer.Consume(gctx, w.HandleEvent)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		w.logger.Info("Stopping sync worker")
		if err := consumer.Close(); err != nil {
			w.logger.Warn("Failed to close consumer", applog.FieldError, err)
		}
		return nil
	})

	return g.Wait()
}

// HandleEvent applies a single change event to the mirror
func (w *SyncWorker) HandleEvent(ctx context.Context, event *amqp.ExpenseEvent) error {
	w.logger.InfoContext(ctx, "Processing expense event",
		applog.FieldEventType, string(event.Type),
		applog.FieldExpenseID, event.ID)

	switch event.Type {
	case amqp.EventCreated:
		return w.handleCreated(ctx, event.ID)
	case amqp.EventDeleted:
		return w.handleDeleted(ctx, event.ID)
	default:
		// Unknown types would loop forever if requeued
		w.logger.WarnContext(ctx, "Ignoring unknown event type", applog.FieldEventType, string(event.Type))
		return nil
	}
}

func (w *SyncWorker) handleCreated(ctx context.Context, id int64) error {
	expense, err := w.storage.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		w.logger.WarnContext(ctx, "Expense deleted before sync, skipping", applog.FieldExpenseID, id)
		return nil
	}
	if errors.Is(err, storage.ErrUnreadableRow) {
		// Requeueing would never succeed
		w.logger.WarnContext(ctx, "Expense row unreadable, skipping sync",
			applog.FieldExpenseID, id, applog.FieldError, err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}

	ref, err := w.sheets.AppendExpense(ctx, expense)
	if err != nil {
		return fmt.Errorf("append to sheets: %w", err)
	}

	w.logger.InfoContext(ctx, "Successfully synced expense",
		applog.FieldExpenseID, id,
		applog.FieldSheetsRef, ref,
		applog.FieldAmountCents, expense.Amount.Cents)
	return nil
}

func (w *SyncWorker) handleDeleted(ctx context.Context, id int64) error {
	if err := w.sheets.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("delete from sheets: %w", err)
	}
	w.logger.InfoContext(ctx, "Successfully removed expense from mirror", applog.FieldExpenseID, id)
	return nil
}
