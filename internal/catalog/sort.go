package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// SortKey names a sortable column.
type SortKey string

const (
	SortName       SortKey = "name"
	SortYear       SortKey = "year"
	SortDuration   SortKey = "duration"
	SortRating     SortKey = "rating"
	SortGenre      SortKey = "genre"
	SortPlatform   SortKey = "platform"
	SortSaga       SortKey = "saga"
	SortSagaNumber SortKey = "saga_number"
)

// SortOption pairs a key with the sheet header shown to users.
type SortOption struct {
	Key   SortKey `json:"key"`
	Label string  `json:"label"`
}

// SortOptions lists the sortable columns in the order they are offered.
var SortOptions = []SortOption{
	{SortName, model.ColName},
	{SortYear, model.ColYear},
	{SortDuration, model.ColDuration},
	{SortRating, model.ColRating},
	{SortGenre, model.ColGenre},
	{SortPlatform, model.ColPlatform},
	{SortSaga, model.ColSaga},
	{SortSagaNumber, model.ColSagaNumber},
}

// ParseSortKey validates a key; the empty string means SortName.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortName, nil
	}
	for _, o := range SortOptions {
		if string(o.Key) == s {
			return o.Key, nil
		}
	}
	return "", fmt.Errorf("unknown sort column %q", s)
}

// Order is a single-column sort.
type Order struct {
	Key  SortKey
	Desc bool
}

// Sort returns a sorted copy of movies.  Rows with a null key always come
// last.  Equal keys are ordered by RowID in the same direction, so a
// descending sort is the exact reverse of the ascending one.
func Sort(movies []model.Movie, o Order) []model.Movie {
	out := slices.Clone(movies)
	slices.SortFunc(out, func(a, b model.Movie) int {
		an, bn := isNull(a, o.Key), isNull(b, o.Key)
		switch {
		case an && bn:
			return cmp.Compare(a.RowID, b.RowID)
		case an:
			return 1
		case bn:
			return -1
		}
		c := compareKey(a, b, o.Key)
		if c == 0 {
			c = cmp.Compare(a.RowID, b.RowID)
		}
		if o.Desc {
			return -c
		}
		return c
	})
	return out
}

func isNull(m model.Movie, k SortKey) bool {
	switch k {
	case SortYear:
		return m.Year == nil
	case SortDuration:
		return m.Duration == nil
	case SortRating:
		return m.Rating == nil
	}
	return false
}

func compareKey(a, b model.Movie, k SortKey) int {
	switch k {
	case SortYear:
		return cmp.Compare(*a.Year, *b.Year)
	case SortDuration:
		return cmp.Compare(*a.Duration, *b.Duration)
	case SortRating:
		return cmp.Compare(*a.Rating, *b.Rating)
	case SortGenre:
		return strings.Compare(a.Genre, b.Genre)
	case SortPlatform:
		return strings.Compare(a.Platform, b.Platform)
	case SortSaga:
		return strings.Compare(a.Saga, b.Saga)
	case SortSagaNumber:
		return strings.Compare(a.SagaNumber, b.SagaNumber)
	default:
		return strings.Compare(a.Name, b.Name)
	}
}
