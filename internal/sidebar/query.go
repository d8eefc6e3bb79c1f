package sidebar

import (
	"strings"

	"github.com/marcus/sidenote/internal/store"
)

// Reserved search tokens.
const (
	FlagBody  = "--body"
	FlagTitle = "--title"
)

// ParsedQuery is a search input split into text and scope flags.
type ParsedQuery struct {
	Query string
	Body  bool
	Title bool
}

// ParseQuery tokenizes raw on whitespace. Reserved flags set the matching
// scope; every other token is joined back with single spaces.
func ParseQuery(raw string) ParsedQuery {
	var q ParsedQuery
	var words []string
	for _, tok := range strings.Fields(raw) {
		switch tok {
		case FlagBody:
			q.Body = true
		case FlagTitle:
			q.Title = true
		default:
			words = append(words, tok)
		}
	}
	q.Query = strings.Join(words, " ")
	return q
}

// Blank reports whether raw holds nothing to search for.
func Blank(raw string) bool {
	return strings.TrimSpace(raw) == ""
}

// StoreQuery converts q for store.Search.
func (q ParsedQuery) StoreQuery() store.SearchQuery {
	return store.SearchQuery{Text: q.Query, Body: q.Body, Title: q.Title}
}
