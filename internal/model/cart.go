package model

// CartItem is one product line in a cart.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart holds a client's purchase-intent state, keyed by canonical product ID.
type Cart struct {
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

// ItemCount returns the total number of units across all lines.
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// RecalculateTotal recomputes the cart total from its lines.
func (c *Cart) RecalculateTotal() {
	total := 0.0
	for _, item := range c.Items {
		total += item.Product.Price * float64(item.Quantity)
	}
	c.Total = total
}

// Wishlist holds products a client saved for later, unique by product ID.
type Wishlist struct {
	Items []Product `json:"items"`
}

// Contains reports whether the wishlist already holds the product.
func (w Wishlist) Contains(productID string) bool {
	for _, p := range w.Items {
		if p.ID == productID {
			return true
		}
	}
	return false
}
