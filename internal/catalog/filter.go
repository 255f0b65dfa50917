package catalog

import "strings"

// FilterKind distinguishes "nothing to filter by" from "filtered down
// to nothing". Callers render a prompt for the former and an empty
// state for the latter.
type FilterKind int

const (
	// FilterNone means no category and no term were given.
	FilterNone FilterKind = iota
	// FilterMatched means at least one product survived the filter.
	FilterMatched
	// FilterNoMatches means the filter ran and nothing survived.
	FilterNoMatches
)

// FilterResult is the outcome of one filter pass.
type FilterResult struct {
	Kind     FilterKind
	Products []Product
}

// Filter derives the visible subset of products from a category and a
// free-text search term. Products are never mutated and come back in
// source order. Category matches are exact; the term matches
// case-insensitively against name, brand, description, and keywords.
func Filter(products []Product, category, term string) FilterResult {
	if category == "" && strings.TrimSpace(term) == "" {
		return FilterResult{Kind: FilterNone}
	}

	var matched []Product
	needle := strings.ToLower(strings.TrimSpace(term))

	for _, p := range products {
		if category != "" && p.Category != category {
			continue
		}
		if needle != "" {
			haystack := strings.ToLower(p.Name + " " + p.Brand + " " + p.Description + " " + p.Keywords)
			if !strings.Contains(haystack, needle) {
				continue
			}
		}
		matched = append(matched, p)
	}

	if len(matched) == 0 {
		return FilterResult{Kind: FilterNoMatches}
	}
	return FilterResult{Kind: FilterMatched, Products: matched}
}
