// Package docquery filters and orders a document collection for display.
//
// Date ordering compares created_at as plain strings. That is only correct
// while every timestamp uses the zero-padded "YYYY-MM-DD hh:mm:ss" layout the
// API emits; "2020-2-1" sorts after "2020-10-1".
package docquery

import (
	"sort"
	"strings"

	"github.com/docvault-console/internal/models"
)

// Apply returns the documents matching q in the order q asks for.
// The result references the input documents; docs itself is never modified.
func Apply(docs []*models.Document, q Query) []*models.Document {
	q = q.Normalized()
	text := strings.ToLower(q.Text)

	out := make([]*models.Document, 0, len(docs))
	for _, d := range docs {
		if d != nil && matches(d, q, text) {
			out = append(out, d)
		}
	}

	less := lessFunc(q.SortBy)
	if q.SortDir == Desc {
		sort.SliceStable(out, func(i, j int) bool { return less(out[j], out[i]) })
	} else {
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func matches(d *models.Document, q Query, lowerText string) bool {
	if lowerText != "" && !strings.Contains(strings.ToLower(d.Title), lowerText) {
		return false
	}
	if q.Year != All {
		if d.CreatedAt == nil || len(*d.CreatedAt) < 4 || (*d.CreatedAt)[:4] != q.Year {
			return false
		}
	}
	if q.Category != All && string(d.CategoryOrEmpty()) != q.Category {
		return false
	}
	return true
}

func lessFunc(key SortKey) func(a, b *models.Document) bool {
	if key == SortByDate {
		return func(a, b *models.Document) bool {
			return a.CreatedAtOrEmpty() < b.CreatedAtOrEmpty()
		}
	}
	return func(a, b *models.Document) bool {
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	}
}

// Years returns the distinct creation years present in docs, newest first
func Years(docs []*models.Document) []string {
	seen := make(map[string]bool)
	var years []string
	for _, d := range docs {
		if d == nil || d.CreatedAt == nil || len(*d.CreatedAt) < 4 {
			continue
		}
		y := (*d.CreatedAt)[:4]
		if isYear(y) && !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))
	return years
}
