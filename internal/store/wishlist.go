package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"shopfront/internal/model"

	"github.com/rs/zerolog"
)

// WishlistStore manages per-client wishlists on top of a persistence
// backend. Wishlists hold at most one entry per product ID.
type WishlistStore struct {
	mu          sync.Mutex
	persistence Persistence
	logger      zerolog.Logger
}

// NewWishlistStore creates a wishlist store backed by the given persistence.
func NewWishlistStore(persistence Persistence, logger zerolog.Logger) *WishlistStore {
	return &WishlistStore{
		persistence: persistence,
		logger:      logger.With().Str("store", "wishlist").Logger(),
	}
}

func wishlistKey(clientID string) string {
	return "wishlist:" + clientID
}

func (s *WishlistStore) load(ctx context.Context, clientID string) (model.Wishlist, error) {
	data, err := s.persistence.Load(ctx, wishlistKey(clientID))
	if err != nil {
		return model.Wishlist{}, fmt.Errorf("failed to load wishlist: %w", err)
	}
	if data == nil {
		return model.Wishlist{Items: []model.Product{}}, nil
	}

	var wishlist model.Wishlist
	if err := json.Unmarshal(data, &wishlist); err != nil {
		s.logger.Warn().Err(err).Str("client_id", clientID).Msg("discarding corrupt wishlist state")
		return model.Wishlist{Items: []model.Product{}}, nil
	}
	if wishlist.Items == nil {
		wishlist.Items = []model.Product{}
	}
	return wishlist, nil
}

func (s *WishlistStore) save(ctx context.Context, clientID string, wishlist model.Wishlist) error {
	data, err := json.Marshal(wishlist)
	if err != nil {
		return fmt.Errorf("failed to encode wishlist: %w", err)
	}
	if err := s.persistence.Save(ctx, wishlistKey(clientID), data); err != nil {
		return fmt.Errorf("failed to save wishlist: %w", err)
	}
	return nil
}

// Get returns a client's wishlist.
func (s *WishlistStore) Get(ctx context.Context, clientID string) (model.Wishlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load(ctx, clientID)
}

// Add puts a product on the wishlist. Adding a product that is already
// listed is a no-op.
func (s *WishlistStore) Add(ctx context.Context, clientID string, product model.Product) (model.Wishlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wishlist, err := s.load(ctx, clientID)
	if err != nil {
		return model.Wishlist{}, err
	}

	if wishlist.Contains(product.ID) {
		return wishlist, nil
	}

	wishlist.Items = append(wishlist.Items, product)
	if err := s.save(ctx, clientID, wishlist); err != nil {
		return model.Wishlist{}, err
	}

	s.logger.Debug().
		Str("client_id", clientID).
		Str("product_id", product.ID).
		Msg("added to wishlist")

	return wishlist, nil
}

// Remove drops a product from the wishlist.
func (s *WishlistStore) Remove(ctx context.Context, clientID, productID string) (model.Wishlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	wishlist, err := s.load(ctx, clientID)
	if err != nil {
		return model.Wishlist{}, err
	}

	items := wishlist.Items[:0:0]
	for _, p := range wishlist.Items {
		if p.ID != productID {
			items = append(items, p)
		}
	}
	wishlist.Items = items
	if wishlist.Items == nil {
		wishlist.Items = []model.Product{}
	}

	if err := s.save(ctx, clientID, wishlist); err != nil {
		return model.Wishlist{}, err
	}
	return wishlist, nil
}

// Clear empties the wishlist.
func (s *WishlistStore) Clear(ctx context.Context, clientID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persistence.Delete(ctx, wishlistKey(clientID)); err != nil {
		return fmt.Errorf("failed to clear wishlist: %w", err)
	}
	return nil
}

// MoveAllToCart adds every wishlist item to the client's cart with quantity
// one, then clears the wishlist.
func (s *WishlistStore) MoveAllToCart(ctx context.Context, clientID string, cart *CartStore) (model.Cart, error) {
	wishlist, err := s.Get(ctx, clientID)
	if err != nil {
		return model.Cart{}, err
	}

	var result model.Cart
	for _, product := range wishlist.Items {
		result, err = cart.Add(ctx, clientID, product, 1)
		if err != nil {
			return model.Cart{}, fmt.Errorf("failed to move %s to cart: %w", product.ID, err)
		}
	}

	if err := s.Clear(ctx, clientID); err != nil {
		return model.Cart{}, err
	}

	if len(wishlist.Items) == 0 {
		return cart.Get(ctx, clientID)
	}
	return result, nil
}
