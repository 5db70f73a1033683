package model

// Sort orders accepted by the query pipeline. Exactly one is active at a
// time; there is no multi-key sort.
const (
	SortPriceAsc   = "price-asc"
	SortPriceDesc  = "price-desc"
	SortTitleAsc   = "title-asc"
	SortTitleDesc  = "title-desc"
	SortRatingAsc  = "rating-asc"
	SortRatingDesc = "rating-desc"
)

// Filter is the combined filter/sort specification the query pipeline
// evaluates over a fetched product set. Every dimension is optional and all
// active filters compose by logical AND; sorting always runs last.
type Filter struct {
	// Categories passes a product when its category case-insensitively
	// equals any member.
	Categories []string `json:"categories,omitempty"`

	// MinPrice and MaxPrice are inclusive bounds.
	MinPrice *float64 `json:"minPrice,omitempty" validate:"omitempty,gte=0"`
	MaxPrice *float64 `json:"maxPrice,omitempty" validate:"omitempty,gte=0"`

	// PriceRange is the [low, high] pair form of the price bounds. A range
	// where low > high matches nothing rather than erroring.
	PriceRange *[2]float64 `json:"priceRange,omitempty"`

	// MinRating excludes products rated below the floor. A product with no
	// rating counts as 0: it passes a floor of 0 but fails any floor above.
	MinRating float64 `json:"minRating,omitempty" validate:"gte=0,lte=5"`

	// InStockOnly excludes products whose tracked stock is zero. Products
	// from sources that do not track stock always pass.
	InStockOnly bool `json:"inStockOnly,omitempty"`

	// Search is a case-insensitive substring match on the title only.
	Search string `json:"search,omitempty"`

	Sort string `json:"sort,omitempty" validate:"omitempty,oneof=price-asc price-desc title-asc title-desc rating-asc rating-desc"`
}

// IsZero reports whether the filter would pass every product unchanged.
func (f Filter) IsZero() bool {
	return len(f.Categories) == 0 &&
		f.MinPrice == nil && f.MaxPrice == nil && f.PriceRange == nil &&
		f.MinRating == 0 && !f.InStockOnly && f.Search == "" && f.Sort == ""
}
