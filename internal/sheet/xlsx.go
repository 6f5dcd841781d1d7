package sheet

import (
	"context"
	"fmt"
	"sync"

	"github.com/xuri/excelize/v2"
)

// XLSXStore keeps the catalog in a local workbook.  Each call opens the file
// so edits made in a spreadsheet program between requests are picked up.
type XLSXStore struct {
	mu        sync.Mutex
	path      string
	worksheet string
}

// OpenXLSX checks that the workbook can be opened and contains worksheet.
func OpenXLSX(path, worksheet string) (*XLSXStore, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	if idx, err := f.GetSheetIndex(worksheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrWorksheetNotFound, worksheet)
	}
	return &XLSXStore{path: path, worksheet: worksheet}, nil
}

// Values returns all rows of the worksheet.
func (s *XLSXStore) Values(_ context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(s.worksheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, nil
}

// BatchUpdate writes every cell and saves the workbook once.
func (s *XLSXStore) BatchUpdate(_ context.Context, updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	for _, u := range updates {
		cell := u.A1()
		if cell == "" {
			return fmt.Errorf("invalid cell r%dc%d", u.Row, u.Col)
		}
		if err := f.SetCellValue(s.worksheet, cell, u.Value); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
