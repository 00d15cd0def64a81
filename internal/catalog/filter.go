package catalog

import (
	"strings"
	"sync"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Criteria is the active category plus search text.
type Criteria struct {
	Category   Category
	SearchText string
}

// DefaultCriteria matches every item.
func DefaultCriteria() Criteria {
	return Criteria{Category: CategoryAll}
}

// Matches reports whether item passes the criteria. Unknown categories match nothing.
func (c Criteria) Matches(item CatalogItem) bool {
	if c.Category != CategoryAll && item.Category != c.Category {
		return false
	}
	return strings.Contains(lower(item.Name), lower(c.SearchText))
}

// Filter returns the items matching c in source order. The input is not modified.
func Filter(items []CatalogItem, c Criteria) []CatalogItem {
	out := make([]CatalogItem, 0, len(items))
	for _, item := range items {
		if c.Matches(item) {
			out = append(out, item)
		}
	}
	return out
}

// cases.Caser keeps state, so each call gets its own.
func lower(s string) string {
	if s == "" {
		return s
	}
	return cases.Lower(language.Und).String(s)
}

// Browser owns the mutable filter criteria of one view.
type Browser struct {
	mu       sync.Mutex
	criteria Criteria
}

// NewBrowser returns a Browser with the default criteria.
func NewBrowser() *Browser {
	return &Browser{criteria: DefaultCriteria()}
}

// SetCategory replaces the category and keeps the search text.
func (b *Browser) SetCategory(c Category) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.criteria.Category = c
}

// SetSearchText replaces the search text and keeps the category.
func (b *Browser) SetSearchText(text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.criteria.SearchText = text
}

// Criteria returns the current criteria.
func (b *Browser) Criteria() Criteria {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.criteria
}

// Visible filters items with the current criteria.
func (b *Browser) Visible(items []CatalogItem) []CatalogItem {
	return Filter(items, b.Criteria())
}
