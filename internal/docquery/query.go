package docquery

import (
	"fmt"
	"strings"

	"github.com/docvault-console/internal/models"
)

// All disables the year or category filter
const All = "All"

// SortKey selects the field documents are ordered by
type SortKey string

const (
	SortByTitle SortKey = "title"
	SortByDate  SortKey = "date"
)

// SortDir selects ascending or descending order
type SortDir string

const (
	Asc  SortDir = "asc"
	Desc SortDir = "desc"
)

// Query describes one view of the document list. The zero value matches
// every document and sorts by title ascending.
type Query struct {
	Text     string
	Year     string // "All" or YYYY
	Category string // "All" or a models.Category
	SortBy   SortKey
	SortDir  SortDir
}

// Normalized fills empty fields with their defaults
func (q Query) Normalized() Query {
	if q.Year == "" {
		q.Year = All
	}
	if q.Category == "" {
		q.Category = All
	}
	if q.SortBy == "" {
		q.SortBy = SortByTitle
	}
	if q.SortDir == "" {
		q.SortDir = Asc
	}
	return q
}

// ParseQuery builds a Query from user input and rejects unknown values
func ParseQuery(text, year, category, sortBy, sortDir string) (Query, error) {
	q := Query{
		Text:     text,
		Year:     strings.TrimSpace(year),
		Category: strings.TrimSpace(category),
		SortBy:   SortKey(strings.ToLower(strings.TrimSpace(sortBy))),
		SortDir:  SortDir(strings.ToLower(strings.TrimSpace(sortDir))),
	}.Normalized()

	if q.Year != All && !isYear(q.Year) {
		return Query{}, fmt.Errorf("%w: year must be %q or YYYY, got %q", models.ErrValidation, All, q.Year)
	}
	if q.Category != All && !models.ValidCategories[models.Category(q.Category)] {
		return Query{}, fmt.Errorf("%w: unknown category %q", models.ErrValidation, q.Category)
	}
	if q.SortBy != SortByTitle && q.SortBy != SortByDate {
		return Query{}, fmt.Errorf("%w: sort key must be title or date, got %q", models.ErrValidation, q.SortBy)
	}
	if q.SortDir != Asc && q.SortDir != Desc {
		return Query{}, fmt.Errorf("%w: sort direction must be asc or desc, got %q", models.ErrValidation, q.SortDir)
	}
	return q, nil
}

func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
