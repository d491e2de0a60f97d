package domain

import (
	"errors"
	"strings"
)

var ErrInvalidSortOrder = errors.New("invalid sort order")

// SortOrder selects how a query result is ordered
type SortOrder string

const (
	SortNone      SortOrder = ""
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
)

// ParseSortOrder accepts the canonical values plus the storefront's
// legacy control values
func ParseSortOrder(raw string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none":
		return SortNone, nil
	case "price_asc", "asc", "precocrescente":
		return SortPriceAsc, nil
	case "price_desc", "desc", "precodecrescente":
		return SortPriceDesc, nil
	default:
		return SortNone, ErrInvalidSortOrder
	}
}

// QuerySpec is the filter/search/sort combination applied to the catalog
type QuerySpec struct {
	Category string
	Search   string
	Sort     SortOrder
}

// IsZero reports whether the query leaves the catalog untouched
func (q QuerySpec) IsZero() bool {
	return strings.TrimSpace(q.Category) == "" && strings.TrimSpace(q.Search) == "" && q.Sort == SortNone
}
