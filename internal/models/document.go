package models

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Category classifies a document
type Category string

const (
	CategoryOrder       Category = "Приказ"
	CategoryRegulation  Category = "Регламент"
	CategoryInstruction Category = "Инструкция"
	CategoryReport      Category = "Отчет"
	CategoryOther       Category = "Другое"
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryOrder,
	CategoryRegulation,
	CategoryInstruction,
	CategoryReport,
	CategoryOther,
}

// ValidCategories defines allowed document categories
var ValidCategories = map[Category]bool{
	CategoryOrder:       true,
	CategoryRegulation:  true,
	CategoryInstruction: true,
	CategoryReport:      true,
	CategoryOther:       true,
}

// CreatedAtLayout is the timestamp format used by the API
const CreatedAtLayout = "2006-01-02 15:04:05"

// Document is an author-owned record. Category and CreatedAt are nil
// for records created by older clients.
type Document struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Category  *Category `json:"category,omitempty"`
	CreatedAt *string   `json:"created_at,omitempty"`
}

// CategoryOrEmpty returns the category or "" when absent
func (d *Document) CategoryOrEmpty() Category {
	if d.Category == nil {
		return ""
	}
	return *d.Category
}

// CreatedAtOrEmpty returns the creation timestamp or "" when absent
func (d *Document) CreatedAtOrEmpty() string {
	if d.CreatedAt == nil {
		return ""
	}
	return *d.CreatedAt
}

// DecodedContent returns the raw bytes of the document body.
// Content stored as a data URI is decoded; anything else is returned as is.
func (d *Document) DecodedContent() ([]byte, error) {
	if !strings.HasPrefix(d.Content, "data:") {
		return []byte(d.Content), nil
	}

	header, payload, ok := strings.Cut(d.Content[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI in document %d", d.ID)
	}

	if strings.HasSuffix(header, ";base64") {
		raw, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 content of document %d: %w", d.ID, err)
		}
		return raw, nil
	}

	raw, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to unescape content of document %d: %w", d.ID, err)
	}
	return []byte(raw), nil
}

// DownloadName is the file name used when saving the document content
func (d *Document) DownloadName() string {
	name := strings.TrimSpace(d.Title)
	name = strings.NewReplacer("/", "_", "\\", "_").Replace(name)
	if name == "" {
		name = fmt.Sprintf("document_%d", d.ID)
	}
	if path.Ext(name) == "" {
		name += ".txt"
	}
	return name
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// CategoryPtr returns a pointer to c
func CategoryPtr(c Category) *Category {
	return &c
}
