// Package query derives the displayable product list from the catalog.
//
// Apply runs category filter, then title search, then price sort, always on
// a copy of its input.
package query

import (
	"slices"
	"strings"

	"storefront/internal/domain"
)

// Apply filters, searches and sorts products according to the query.
// The input slice is never modified.
func Apply(products []domain.Product, spec domain.QuerySpec) []domain.Product {
	result := slices.Clone(products)
	if result == nil {
		result = []domain.Product{}
	}
	if spec.IsZero() {
		return result
	}

	if category := domain.CategoryKey(spec.Category); category != "" {
		result = slices.DeleteFunc(result, func(p domain.Product) bool {
			return domain.CategoryKey(p.Category) != category
		})
	}

	if term := strings.ToLower(strings.TrimSpace(spec.Search)); term != "" {
		result = slices.DeleteFunc(result, func(p domain.Product) bool {
			return !strings.Contains(strings.ToLower(p.Title), term)
		})
	}

	switch spec.Sort {
	case domain.SortPriceAsc:
		slices.SortStableFunc(result, func(a, b domain.Product) int {
			return comparePrice(a.Price, b.Price)
		})
	case domain.SortPriceDesc:
		slices.SortStableFunc(result, func(a, b domain.Product) int {
			return comparePrice(b.Price, a.Price)
		})
	}

	return result
}

func comparePrice(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Categories returns the distinct non-empty categories in first-seen order
func Categories(products []domain.Product) []string {
	seen := make(map[string]bool)
	categories := []string{}

	for _, p := range products {
		key := domain.CategoryKey(p.Category)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		categories = append(categories, p.Category)
	}

	return categories
}
