package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// genreSeparator joins genres in the genres column.
const genreSeparator = ","

// Genres is the list of musical genres of a venue or artist.  In the
// database it is a single comma-joined column; Value and Scan convert at
// that boundary so the rest of the code only sees a list.
type Genres []string

// ParseGenres splits a comma-joined string, trimming whitespace and dropping
// empty items.
func ParseGenres(s string) Genres {
	out := Genres{}
	for _, g := range strings.Split(s, genreSeparator) {
		if g = strings.TrimSpace(g); g != "" {
			out = append(out, g)
		}
	}
	return out
}

// GenresFromValues merges multi-valued form input.  Each value may itself be
// comma separated, so ["Jazz", "Blues,Folk"] yields [Jazz Blues Folk].
func GenresFromValues(values []string) Genres {
	out := Genres{}
	for _, v := range values {
		out = append(out, ParseGenres(v)...)
	}
	return out
}

// String returns the storage form, e.g. "Jazz,Blues".
func (g Genres) String() string {
	clean := make([]string, 0, len(g))
	for _, s := range g {
		if s = strings.TrimSpace(s); s != "" {
			clean = append(clean, s)
		}
	}
	return strings.Join(clean, genreSeparator)
}

// Contains reports whether name is one of the genres.
func (g Genres) Contains(name string) bool {
	for _, s := range g {
		if s == name {
			return true
		}
	}
	return false
}

// Value implements driver.Valuer.
func (g Genres) Value() (driver.Value, error) {
	return g.String(), nil
}

// Scan implements sql.Scanner.
func (g *Genres) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*g = Genres{}
	case string:
		*g = ParseGenres(v)
	case []byte:
		*g = ParseGenres(string(v))
	default:
		return fmt.Errorf("genres: cannot scan %T", src)
	}
	return nil
}
