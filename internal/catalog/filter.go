// Package catalog holds the in-memory operations on a loaded movie list:
// filtering, sorting, diffing edited seen flags and random selection.
package catalog

import (
	"github.com/iliyamo/movie-catalog/internal/model"
)

// Filter combines the optional predicates with logical AND.  An empty
// selection or a nil bound disables that predicate.
type Filter struct {
	Genres       []string
	Platforms    []string
	YearMin      *int
	YearMax      *int
	ExcludeSeenA bool
	ExcludeSeenB bool
}

// Match reports whether m passes every active predicate.
func (f Filter) Match(m model.Movie) bool {
	if len(f.Genres) > 0 && !contains(f.Genres, m.Genre) {
		return false
	}
	if len(f.Platforms) > 0 && !anyPlatform(m, f.Platforms) {
		return false
	}
	// A null year stands in as -inf for the lower bound and +inf for the
	// upper bound, so it passes both.
	if m.Year != nil {
		if f.YearMin != nil && *m.Year < *f.YearMin {
			return false
		}
		if f.YearMax != nil && *m.Year > *f.YearMax {
			return false
		}
	}
	if f.ExcludeSeenA && m.SeenByA {
		return false
	}
	if f.ExcludeSeenB && m.SeenByB {
		return false
	}
	return true
}

// Apply returns the movies that match f, preserving order.
func Apply(movies []model.Movie, f Filter) []model.Movie {
	out := make([]model.Movie, 0, len(movies))
	for _, m := range movies {
		if f.Match(m) {
			out = append(out, m)
		}
	}
	return out
}

func anyPlatform(m model.Movie, selected []string) bool {
	for _, tok := range m.Platforms() {
		if contains(selected, tok) {
			return true
		}
	}
	return false
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
