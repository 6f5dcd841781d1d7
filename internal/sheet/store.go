// Package sheet provides access to the spreadsheet that backs the movie
// catalog.  A Store returns the raw grid of cell values and accepts batched
// cell writes addressed by row and column.  Three implementations exist:
// Google Sheets for production, an xlsx workbook on disk and an in-memory
// grid used by tests and the demo backend.
package sheet

import (
	"context"
	"errors"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrWorksheetNotFound is returned when the configured tab does not exist
// in the spreadsheet.
var ErrWorksheetNotFound = errors.New("worksheet not found")

// Store is the backing table of the catalog.
type Store interface {
	// Values returns every row of the worksheet, header first.  Rows may
	// be ragged; trailing empty cells are not guaranteed to be present.
	Values(ctx context.Context) ([][]string, error)
	// BatchUpdate writes all cells in a single request.
	BatchUpdate(ctx context.Context, updates []CellUpdate) error
}

// CellUpdate writes Value into the cell at (Row, Col), both 1-based.
type CellUpdate struct {
	Row   int    `json:"row"`
	Col   int    `json:"col"`
	Value string `json:"value"`
}

// A1 returns the A1 notation of the cell, e.g. J5.
func (u CellUpdate) A1() string {
	name, err := excelize.CoordinatesToCellName(u.Col, u.Row)
	if err != nil {
		return ""
	}
	return name
}

// quoteSheet wraps a worksheet title for use in an A1 range.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
