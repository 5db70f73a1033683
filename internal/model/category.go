package model

// Category is the normalised category shape. Upstream representations vary
// (bare strings, {slug,name,url} records, {id,name,slug,image} records);
// adapters collapse all of them into this one shape before anything crosses
// the aggregation boundary.
type Category struct {
	// ID is the upstream numeric identifier, 0 when the source keys
	// categories by name instead.
	ID    int    `json:"id,omitempty"`
	Name  string `json:"name"`
	Slug  string `json:"slug,omitempty"`
	Image string `json:"image,omitempty"`
}
