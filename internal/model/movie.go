package model

import "strings"

// Column headers as they appear in the first row of the catalog sheet.
// The order of Columns defines the canonical column positions (1-based),
// used when a column is absent from the sheet header.
const (
	ColName       = "Nombre"
	ColGenre      = "Género"
	ColYear       = "Año"
	ColSaga       = "Saga"
	ColSagaNumber = "Numero saga"
	ColDuration   = "Duración"
	ColPlatform   = "Plataforma"
	ColRating     = "Rating"
	ColSeenByA    = "¿Mugui?"
	ColSeenByB    = "¿Punti?"
)

// Columns lists every expected header in canonical order.
var Columns = []string{
	ColName, ColGenre, ColYear, ColSaga, ColSagaNumber,
	ColDuration, ColPlatform, ColRating, ColSeenByA, ColSeenByB,
}

// SeenColumns lists the two editable boolean columns in write order.
var SeenColumns = []string{ColSeenByA, ColSeenByB}

// CanonicalPosition returns the 1-based canonical position of a header, or 0
// when the header is not one of Columns.
func CanonicalPosition(header string) int {
	for i, c := range Columns {
		if c == header {
			return i + 1
		}
	}
	return 0
}

// Movie represents one data row of the catalog sheet.  Numeric columns are
// pointers because a blank or unparseable cell is kept as null rather than
// coerced to zero.
//
// Fields:
//  RowID      – sheet row number of the record (header is row 1).
//  Name       – movie title.
//  Genre      – single genre label.
//  Year       – release year, nil when blank or not a whole number.
//  Saga       – saga/franchise name, may be empty.
//  SagaNumber – position within the saga, kept as text.
//  Duration   – runtime in minutes, nil when unknown.
//  Platform   – semicolon separated list of streaming platforms.
//  Rating     – free-form numeric score, nil when unknown.
//  SeenByA    – first viewer has watched it.
//  SeenByB    – second viewer has watched it.
type Movie struct {
	RowID      int      `json:"row_id"`
	Name       string   `json:"name"`
	Genre      string   `json:"genre"`
	Year       *int     `json:"year"`
	Saga       string   `json:"saga"`
	SagaNumber string   `json:"saga_number"`
	Duration   *int     `json:"duration"`
	Platform   string   `json:"platform"`
	Rating     *float64 `json:"rating"`
	SeenByA    bool     `json:"seen_by_a"`
	SeenByB    bool     `json:"seen_by_b"`
}

// Platforms splits the platform cell into its trimmed, non-empty tokens.
func (m Movie) Platforms() []string {
	return PlatformTokens(m.Platform)
}

// Seen returns the editable flags of the movie.
func (m Movie) Seen() SeenFlags {
	return SeenFlags{A: m.SeenByA, B: m.SeenByB}
}

// PlatformTokens splits a semicolon delimited token list.
func PlatformTokens(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ";") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// SeenFlags is the pair of editable booleans of a row.
type SeenFlags struct {
	A bool `json:"seen_by_a"`
	B bool `json:"seen_by_b"`
}

// Get returns the flag stored under a seen column header.
func (f SeenFlags) Get(column string) bool {
	if column == ColSeenByB {
		return f.B
	}
	return f.A
}

// SeenChange describes one boolean cell whose value differs between the
// snapshot read from the sheet and the edited snapshot.
type SeenChange struct {
	RowID  int    `json:"row_id"`
	Column string `json:"column"`
	Old    bool   `json:"old"`
	New    bool   `json:"new"`
}
