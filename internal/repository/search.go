package repository

import "strings"

// SearchResult is what the search pages render: how many records matched
// and the matches themselves.
type SearchResult[T any] struct {
	Count int
	Items []T
}

func newSearchResult[T any](items []T) SearchResult[T] {
	if items == nil {
		items = []T{}
	}
	return SearchResult[T]{Count: len(items), Items: items}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns a user search term into a LIKE pattern matching the
// term as a literal, case-folded substring.  MySQL's default LIKE escape
// character is the backslash.  An empty term yields "%%", matching every
// row.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}
