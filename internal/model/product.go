package model

import (
	"fmt"
	"strings"
)

// Source identifies one upstream catalog API.
type Source string

const (
	SourceFakeStore Source = "fakestore"
	SourceDummyJSON Source = "dummyjson"
	SourcePlatzi    Source = "platzi"
)

// Sources returns all known sources in registration order. Aggregated
// results are always concatenated in this order.
func Sources() []Source {
	return []Source{SourceFakeStore, SourceDummyJSON, SourcePlatzi}
}

// ParseSource validates a source tag from user input.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceFakeStore, SourceDummyJSON, SourcePlatzi:
		return Source(s), nil
	}
	return "", fmt.Errorf("unknown source %q", s)
}

// CanonicalID builds the namespaced product ID for an upstream item.
// The prefix guarantees IDs never collide across sources.
func CanonicalID(source Source, upstreamID int) string {
	return fmt.Sprintf("%s-%d", source, upstreamID)
}

// SourceFromID extracts the source from a canonical product ID.
// Returns an error when the prefix is not a known source tag.
func SourceFromID(id string) (Source, error) {
	for _, src := range Sources() {
		if strings.HasPrefix(id, string(src)+"-") {
			return src, nil
		}
	}
	return "", fmt.Errorf("product ID %q has no recognised source prefix", id)
}

// UpstreamID strips the source prefix from a canonical ID, yielding the
// identifier the upstream API understands.
func UpstreamID(id string, source Source) string {
	return strings.TrimPrefix(id, string(source)+"-")
}

// Rating is an aggregate review score reported by an upstream source.
type Rating struct {
	Rate  float64 `json:"rate"`
	Count int     `json:"count"`
}

// Product is the canonical product shape every adapter normalises into.
// Values are constructed fresh on every fetch and treated as immutable:
// the catalog service and query pipeline only filter and reorder them.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Images      []string `json:"images"`
	Rating      *Rating  `json:"rating,omitempty"`
	Source      Source   `json:"source"`
	// Stock is nil when the source does not track inventory. Filters must
	// treat untracked stock as always in stock.
	Stock *int   `json:"stock,omitempty"`
	Brand string `json:"brand,omitempty"`
}

// RatingRate returns the product's rating, or 0 when the source reported none.
func (p Product) RatingRate() float64 {
	if p.Rating == nil {
		return 0
	}
	return p.Rating.Rate
}

// InStock reports whether the product can be purchased. Sources that do not
// track stock never mark a product out of stock.
func (p Product) InStock() bool {
	return p.Stock == nil || *p.Stock > 0
}

// UncategorisedLabel is the sentinel category for products whose source
// provided no category at all. Never the empty string.
const UncategorisedLabel = "Uncategorized"
