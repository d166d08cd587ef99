// Package backend builds the row writer the sync worker mirrors into.
package backend

import (
	"context"
	"fmt"

	applog "expenses/internal/log"
	"expenses/internal/sheets"
	gsheet "expenses/internal/sheets/google"
	"expenses/internal/sheets/memory"
)

// Mirror is a ready row writer and the kind that was built
type Mirror struct {
	Writer sheets.RowWriter
	Type   MirrorType
}

// Factory creates mirrors based on configuration
type Factory struct {
	logger *applog.Logger

	// newSheets is swapped in tests to avoid real credentials
	newSheets func(ctx context.Context, cfg gsheet.Config, logger *applog.Logger) (sheetsWriter, error)
}

type sheetsWriter interface {
	sheets.RowWriter
	EnsureHeader(ctx context.Context) error
}

// NewFactory creates a new mirror factory
func NewFactory(logger *applog.Logger) *Factory {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Factory{
		logger: logger.WithComponent(applog.ComponentSheets),
		newSheets: func(ctx context.Context, cfg gsheet.Config, logger *applog.Logger) (sheetsWriter, error) {
			return gsheet.NewClient(ctx, cfg, logger)
		},
	}
}

// CreateMirror validates config and builds the matching row writer. The
// Sheets mirror has its header row ensured before it is returned.
func (f *Factory) CreateMirror(ctx context.Context, config Config) (*Mirror, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SheetsMirror:
		return f.createSheetsMirror(ctx, config)
	default:
		f.logger.Info("Google Sheets disabled, mirroring to memory")
		return &Mirror{Writer: memory.New(), Type: MemoryMirror}, nil
	}
}

func (f *Factory) createSheetsMirror(ctx context.Context, config Config) (*Mirror, error) {
	client, err := f.newSheets(ctx, gsheet.Config{
		SpreadsheetID:      config.GoogleSpreadsheetID,
		SheetName:          config.GoogleSheetName,
		ServiceAccountFile: config.GoogleServiceAccountFile,
		ServiceAccountJSON: config.GoogleServiceAccountJSON,
	}, f.logger)
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}
	if err := client.EnsureHeader(ctx); err != nil {
		return nil, fmt.Errorf("prepare sheet: %w", err)
	}

	f.logger.Info("Initialized Google Sheets mirror",
		"spreadsheet_id", config.GoogleSpreadsheetID,
		"sheet", config.GoogleSheetName)
	return &Mirror{Writer: client, Type: SheetsMirror}, nil
}
