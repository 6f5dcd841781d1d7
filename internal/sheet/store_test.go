package sheet

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestCellUpdateA1(t *testing.T) {
	tests := []struct {
		row, col int
		want     string
	}{
		{1, 1, "A1"},
		{5, 9, "I5"},
		{12, 10, "J12"},
		{3, 27, "AA3"},
		{0, 1, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CellUpdate{Row: tt.row, Col: tt.col}.A1())
	}
}

func TestQuoteSheet(t *testing.T) {
	assert.Equal(t, "'Movies'", quoteSheet("Movies"))
	assert.Equal(t, "'Bob''s list'", quoteSheet("Bob's list"))
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore([][]string{{"Nombre", "¿Mugui?"}, {"Alien"}})

	require.NoError(t, s.BatchUpdate(ctx, nil))
	assert.Equal(t, 0, s.Batches())

	require.NoError(t, s.BatchUpdate(ctx, []CellUpdate{{Row: 2, Col: 2, Value: "TRUE"}}))
	assert.Equal(t, 1, s.Batches())
	assert.Equal(t, "TRUE", s.Cell(2, 2))

	rows, err := s.Values(ctx)
	require.NoError(t, err)
	rows[1][0] = "changed"
	assert.Equal(t, "Alien", s.Cell(2, 1), "Values must return a copy")

	s.FailWith = errors.New("boom")
	_, err = s.Values(ctx)
	assert.EqualError(t, err, "boom")
}

func TestXLSXStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Movies"))
	require.NoError(t, f.SetSheetRow("Movies", "A1", &[]interface{}{"Nombre", "Año", "¿Mugui?"}))
	require.NoError(t, f.SetSheetRow("Movies", "A2", &[]interface{}{"Alien", 1979, "FALSE"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := OpenXLSX(path, "Missing")
	assert.ErrorIs(t, err, ErrWorksheetNotFound)

	s, err := OpenXLSX(path, "Movies")
	require.NoError(t, err)

	ctx := context.Background()
	rows, err := s.Values(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Alien", "1979", "FALSE"}, rows[1])

	require.NoError(t, s.BatchUpdate(ctx, []CellUpdate{{Row: 2, Col: 3, Value: "TRUE"}}))

	rows, err = s.Values(ctx)
	require.NoError(t, err)
	assert.Equal(t, "TRUE", rows[1][2])
}
