package backend

import (
	"errors"
	"fmt"

	"expenses/internal/config"
)

// MirrorType selects where the sync worker mirrors the expense table
type MirrorType string

const (
	SheetsMirror MirrorType = "sheets"
	MemoryMirror MirrorType = "memory"
)

func (t MirrorType) IsValid() bool {
	return t == SheetsMirror || t == MemoryMirror
}

func (t MirrorType) String() string {
	return string(t)
}

// Config holds what the factory needs to build a mirror
type Config struct {
	Type MirrorType

	GoogleSpreadsheetID      string
	GoogleSheetName          string
	GoogleServiceAccountFile string
	GoogleServiceAccountJSON string
}

// FromAppConfig picks the Sheets mirror when a spreadsheet is configured
// and the in-memory mirror otherwise.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}

	mirrorType := MemoryMirror
	if appConfig.GoogleSpreadsheetID != "" {
		mirrorType = SheetsMirror
	}

	return Config{
		Type:                     mirrorType,
		GoogleSpreadsheetID:      appConfig.GoogleSpreadsheetID,
		GoogleSheetName:          appConfig.GoogleSheetName,
		GoogleServiceAccountFile: appConfig.GoogleServiceAccountFile,
		GoogleServiceAccountJSON: appConfig.GoogleServiceAccountJSON,
	}, nil
}

// Validate validates the mirror configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid mirror type: %s", c.Type)
	}

	if c.Type == SheetsMirror {
		if c.GoogleSpreadsheetID == "" {
			return errors.New("Google Spreadsheet ID is required for the sheets mirror")
		}
		if c.GoogleSheetName == "" {
			return errors.New("Google Sheet name is required for the sheets mirror")
		}
		if c.GoogleServiceAccountFile == "" && c.GoogleServiceAccountJSON == "" {
			return errors.New("either a service account file or inline JSON must be provided for the sheets mirror")
		}
	}

	return nil
}
