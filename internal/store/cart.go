package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"shopfront/internal/model"

	"github.com/rs/zerolog"
)

// CartStore manages per-client carts on top of a persistence backend. Every
// mutation is read-modify-write under one lock, then saved before it is
// acknowledged.
type CartStore struct {
	mu          sync.Mutex
	persistence Persistence
	logger      zerolog.Logger
}

// NewCartStore creates a cart store backed by the given persistence.
func NewCartStore(persistence Persistence, logger zerolog.Logger) *CartStore {
	return &CartStore{
		persistence: persistence,
		logger:      logger.With().Str("store", "cart").Logger(),
	}
}

func cartKey(clientID string) string {
	return "cart:" + clientID
}

// load reads a client's cart. A corrupt persisted blob resets to an empty
// cart rather than wedging the client permanently.
func (s *CartStore) load(ctx context.Context, clientID string) (model.Cart, error) {
	data, err := s.persistence.Load(ctx, cartKey(clientID))
	if err != nil {
		return model.Cart{}, fmt.Errorf("failed to load cart: %w", err)
	}
	if data == nil {
		return model.Cart{Items: []model.CartItem{}}, nil
	}

	var cart model.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		s.logger.Warn().Err(err).Str("client_id", clientID).Msg("discarding corrupt cart state")
		return model.Cart{Items: []model.CartItem{}}, nil
	}
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	return cart, nil
}

func (s *CartStore) save(ctx context.Context, clientID string, cart model.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.persistence.Save(ctx, cartKey(clientID), data); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// Get returns a client's cart with its total recomputed.
func (s *CartStore) Get(ctx context.Context, clientID string) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx, clientID)
	if err != nil {
		return model.Cart{}, err
	}
	cart.RecalculateTotal()
	return cart, nil
}

// Add puts quantity units of product in the cart, merging with an existing
// line for the same product ID.
func (s *CartStore) Add(ctx context.Context, clientID string, product model.Product, quantity int) (model.Cart, error) {
	if quantity <= 0 {
		return model.Cart{}, model.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx, clientID)
	if err != nil {
		return model.Cart{}, err
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].Product.ID == product.ID {
			cart.Items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, model.CartItem{Product: product, Quantity: quantity})
	}

	cart.RecalculateTotal()
	if err := s.save(ctx, clientID, cart); err != nil {
		return model.Cart{}, err
	}

	s.logger.Debug().
		Str("client_id", clientID).
		Str("product_id", product.ID).
		Int("quantity", quantity).
		Msg("added to cart")

	return cart, nil
}

// UpdateQuantity sets a line's quantity. A quantity of zero or less removes
// the line.
func (s *CartStore) UpdateQuantity(ctx context.Context, clientID, productID string, quantity int) (model.Cart, error) {
	if quantity <= 0 {
		return s.Remove(ctx, clientID, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx, clientID)
	if err != nil {
		return model.Cart{}, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].Product.ID == productID {
			cart.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return model.Cart{}, model.ErrItemNotInCart
	}

	cart.RecalculateTotal()
	if err := s.save(ctx, clientID, cart); err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// Remove drops a product line from the cart. Removing a product that is not
// in the cart is a no-op.
func (s *CartStore) Remove(ctx context.Context, clientID, productID string) (model.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.load(ctx, clientID)
	if err != nil {
		return model.Cart{}, err
	}

	items := cart.Items[:0:0]
	for _, item := range cart.Items {
		if item.Product.ID != productID {
			items = append(items, item)
		}
	}
	cart.Items = items
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}

	cart.RecalculateTotal()
	if err := s.save(ctx, clientID, cart); err != nil {
		return model.Cart{}, err
	}
	return cart, nil
}

// Clear empties the cart.
func (s *CartStore) Clear(ctx context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persistence.Delete(ctx, cartKey(clientID)); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
