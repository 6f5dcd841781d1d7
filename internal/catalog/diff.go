package catalog

import (
	"slices"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// Diff compares the edited seen flags against the flags read from the sheet.
// Only rows present in both snapshots are compared; edited rows unknown to
// the original are ignored.  The result is ordered by RowID, then column.
func Diff(original, edited map[int]model.SeenFlags) []model.SeenChange {
	rows := make([]int, 0, len(edited))
	for id := range edited {
		if _, ok := original[id]; ok {
			rows = append(rows, id)
		}
	}
	slices.Sort(rows)

	var changes []model.SeenChange
	for _, id := range rows {
		before, after := original[id], edited[id]
		for _, col := range model.SeenColumns {
			if o, n := before.Get(col), after.Get(col); o != n {
				changes = append(changes, model.SeenChange{RowID: id, Column: col, Old: o, New: n})
			}
		}
	}
	return changes
}
