// Package query implements the pure filter/sort pipeline that runs over an
// aggregated product set. It is deliberately stateless: no I/O, no hidden
// dependencies, and the input slice is never mutated.
package query

import (
	"sort"
	"strings"

	"shopfront/internal/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Apply filters products by every active dimension of f (all composed by
// logical AND) and then sorts the survivors. Sorting is always the last
// step, is stable, and produces a new slice. An empty input yields an empty
// output at every stage.
func Apply(products []model.Product, f model.Filter) []model.Product {
	if f.IsZero() {
		out := make([]model.Product, len(products))
		copy(out, products)
		return out
	}

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if matches(p, f) {
			out = append(out, p)
		}
	}

	if f.Sort != "" {
		sortProducts(out, f.Sort)
	}
	return out
}

// matches evaluates every active filter dimension against one product. The
// dimensions are independent per-item predicates, so evaluation order does
// not affect the result.
func matches(p model.Product, f model.Filter) bool {
	if len(f.Categories) > 0 && !matchesCategory(p, f.Categories) {
		return false
	}

	if f.MinPrice != nil && p.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && p.Price > *f.MaxPrice {
		return false
	}
	// An inverted range (low > high) matches nothing; no item can satisfy
	// both bounds.
	if f.PriceRange != nil && (p.Price < f.PriceRange[0] || p.Price > f.PriceRange[1]) {
		return false
	}

	// A product with no rating counts as rated 0: it passes a floor of 0
	// but fails any positive floor.
	if p.RatingRate() < f.MinRating {
		return false
	}

	if f.InStockOnly && !p.InStock() {
		return false
	}

	// Search matches the title only, never the description.
	if f.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(f.Search)) {
		return false
	}

	return true
}

func matchesCategory(p model.Product, categories []string) bool {
	for _, c := range categories {
		if strings.EqualFold(p.Category, c) {
			return true
		}
	}
	return false
}

// sortProducts orders products in place by exactly one sort key. The sort is
// stable, so equal-key products keep their merged order.
func sortProducts(products []model.Product, key string) {
	// Collators buffer state between comparisons and are not safe for
	// concurrent use, so each sort gets its own.
	collator := collate.New(language.English)

	switch key {
	case model.SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case model.SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case model.SortTitleAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return collator.CompareString(products[i].Title, products[j].Title) < 0
		})
	case model.SortTitleDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return collator.CompareString(products[i].Title, products[j].Title) > 0
		})
	case model.SortRatingAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].RatingRate() < products[j].RatingRate()
		})
	case model.SortRatingDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].RatingRate() > products[j].RatingRate()
		})
	}
}
