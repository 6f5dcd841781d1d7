package catalog

import (
	"slices"
	"strings"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// Year slider bounds used when no movie has a year.
const (
	DefaultYearMin = 1900
	DefaultYearMax = 2025
)

// Facets are the option lists offered by the filter panel.
type Facets struct {
	Genres    []string     `json:"genres"`
	Platforms []string     `json:"platforms"`
	YearMin   int          `json:"year_min"`
	YearMax   int          `json:"year_max"`
	Sort      []SortOption `json:"sort"`
}

// BuildFacets collects distinct non-blank genres, distinct platform tokens
// and the year range of the full movie list.
func BuildFacets(movies []model.Movie) Facets {
	genres := map[string]struct{}{}
	platforms := map[string]struct{}{}
	f := Facets{YearMin: DefaultYearMin, YearMax: DefaultYearMax, Sort: SortOptions}
	haveYear := false

	for _, m := range movies {
		if strings.TrimSpace(m.Genre) != "" {
			genres[m.Genre] = struct{}{}
		}
		for _, p := range m.Platforms() {
			platforms[p] = struct{}{}
		}
		if m.Year == nil {
			continue
		}
		if !haveYear {
			f.YearMin, f.YearMax, haveYear = *m.Year, *m.Year, true
			continue
		}
		f.YearMin = min(f.YearMin, *m.Year)
		f.YearMax = max(f.YearMax, *m.Year)
	}
	f.Genres = sortedKeys(genres)
	f.Platforms = sortedKeys(platforms)
	return f
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}
