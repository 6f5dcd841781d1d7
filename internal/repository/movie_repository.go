// Package repository contains data access logic separated from HTTP handlers.
// This file reads the movie catalog out of the backing sheet and writes the
// seen flags back.  The sheet is the single source of truth: every call to
// Load reads it again and nothing is cached between requests.
package repository

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
	"github.com/iliyamo/movie-catalog/internal/sheet"
)

// truthy lists the lower-cased cell values read as true in a boolean column.
var truthy = map[string]bool{
	"true": true, "1": true, "yes": true, "y": true, "si": true, "sí": true, "x": true,
}

// firstDataRow is the sheet row number of the first record; row 1 is the header.
const firstDataRow = 2

// Catalog is one read of the sheet: the movies in sheet order, the seen flags
// as they were read, and the position of every header found.
type Catalog struct {
	Movies  []model.Movie
	Seen    map[int]model.SeenFlags
	columns map[string]int
}

// ColumnPosition returns the 1-based sheet position of a header.  Writes
// follow the sheet's own header row, so a reordered sheet still gets the
// right cell; only columns missing from the header use the canonical index.
func (c *Catalog) ColumnPosition(header string) int {
	if pos, ok := c.columns[header]; ok {
		return pos
	}
	return model.CanonicalPosition(header)
}

// MovieRepo loads and updates the catalog stored in a sheet.
type MovieRepo struct {
	store sheet.Store
}

// NewMovieRepo constructs a MovieRepo over the given store.
func NewMovieRepo(store sheet.Store) *MovieRepo {
	return &MovieRepo{store: store}
}

// Load reads the whole worksheet.  Missing columns read as empty cells,
// unparseable numbers become nil and an empty sheet yields no movies.
func (r *MovieRepo) Load(ctx context.Context) (*Catalog, error) {
	values, err := r.store.Values(ctx)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}
	cat := &Catalog{Seen: map[int]model.SeenFlags{}, columns: map[string]int{}}
	if len(values) == 0 {
		return cat, nil
	}

	for i, h := range values[0] {
		if _, dup := cat.columns[h]; !dup {
			cat.columns[h] = i + 1
		}
	}

	cat.Movies = make([]model.Movie, 0, len(values)-1)
	for i, row := range values[1:] {
		cell := func(header string) string {
			pos, ok := cat.columns[header]
			if !ok || pos > len(row) {
				return ""
			}
			return row[pos-1]
		}
		m := model.Movie{
			RowID:      firstDataRow + i,
			Name:       cell(model.ColName),
			Genre:      cell(model.ColGenre),
			Year:       parseWhole(cell(model.ColYear)),
			Saga:       cell(model.ColSaga),
			SagaNumber: cell(model.ColSagaNumber),
			Duration:   parseWhole(cell(model.ColDuration)),
			Platform:   cell(model.ColPlatform),
			Rating:     parseNumber(cell(model.ColRating)),
			SeenByA:    ParseBool(cell(model.ColSeenByA)),
			SeenByB:    ParseBool(cell(model.ColSeenByB)),
		}
		cat.Movies = append(cat.Movies, m)
		cat.Seen[m.RowID] = m.Seen()
	}
	return cat, nil
}

// ApplyChanges writes every change in a single batch and returns the cell
// updates that were sent.  No request is made when changes is empty.
func (r *MovieRepo) ApplyChanges(ctx context.Context, cat *Catalog, changes []model.SeenChange) ([]sheet.CellUpdate, error) {
	if len(changes) == 0 {
		return nil, nil
	}
	updates := make([]sheet.CellUpdate, 0, len(changes))
	for _, ch := range changes {
		updates = append(updates, sheet.CellUpdate{
			Row:   ch.RowID,
			Col:   cat.ColumnPosition(ch.Column),
			Value: EncodeBool(ch.New),
		})
	}
	if err := r.store.BatchUpdate(ctx, updates); err != nil {
		return nil, fmt.Errorf("write sheet: %w", err)
	}
	return updates, nil
}

// ParseBool reports whether a cell holds one of the accepted truthy tokens.
func ParseBool(s string) bool {
	return truthy[strings.ToLower(strings.TrimSpace(s))]
}

// EncodeBool renders a flag the way it is stored in the sheet.
func EncodeBool(b bool) string {
	return strings.ToUpper(strconv.FormatBool(b))
}

func parseNumber(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseWhole accepts integers and integral floats such as "2001.0".
func parseWhole(s string) *int {
	f := parseNumber(s)
	if f == nil || *f != math.Trunc(*f) || math.Abs(*f) > math.MaxInt32 {
		return nil
	}
	n := int(*f)
	return &n
}
