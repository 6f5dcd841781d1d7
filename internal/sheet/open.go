package sheet

import (
	"context"
	"fmt"

	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/model"
)

// Open returns the store selected by cfg.Backend.  The memory backend
// starts with a header row only.
func Open(ctx context.Context, cfg config.SheetConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendGoogle:
		creds, err := cfg.Credentials()
		if err != nil {
			return nil, fmt.Errorf("read credentials: %w", err)
		}
		return OpenGoogle(ctx, creds, cfg.SpreadsheetID, cfg.Worksheet)
	case config.BackendXLSX:
		return OpenXLSX(cfg.XLSXPath, cfg.Worksheet)
	case config.BackendMemory:
		return NewMemoryStore([][]string{model.Columns}), nil
	default:
		return nil, fmt.Errorf("unknown sheet backend %q", cfg.Backend)
	}
}
