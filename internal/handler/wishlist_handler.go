package handler

import (
	"encoding/json"
	"net/http"

	"shopfront/internal/catalog"
	"shopfront/internal/model"
	"shopfront/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// WishlistHandler manages a client's wishlist.
type WishlistHandler struct {
	wishlist *store.WishlistStore
	cart     *store.CartStore
	catalog  catalog.Service
	logger   zerolog.Logger
}

// NewWishlistHandler creates a new wishlist handler.
func NewWishlistHandler(wishlist *store.WishlistStore, cart *store.CartStore, service catalog.Service, logger zerolog.Logger) *WishlistHandler {
	return &WishlistHandler{
		wishlist: wishlist,
		cart:     cart,
		catalog:  service,
		logger:   logger.With().Str("handler", "wishlist").Logger(),
	}
}

type addWishlistItemRequest struct {
	ProductID string `json:"productId"`
}

// Get handles GET /api/wishlist.
func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	wishlist, err := h.wishlist.Get(r.Context(), clientID(w, r))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load wishlist")
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to load wishlist", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, wishlist)
}

// AddItem handles POST /api/wishlist/items. Adding a product already on the
// wishlist is a no-op.
func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addWishlistItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	product := h.catalog.Product(r.Context(), req.ProductID)
	if product == nil {
		writeDomainError(w, model.ErrProductNotFound, h.logger)
		return
	}

	wishlist, err := h.wishlist.Add(r.Context(), clientID(w, r), *product)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, wishlist)
}

// RemoveItem handles DELETE /api/wishlist/items/{productId}.
func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	wishlist, err := h.wishlist.Remove(r.Context(), clientID(w, r), chi.URLParam(r, "productId"))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, wishlist)
}

// Clear handles DELETE /api/wishlist.
func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.wishlist.Clear(r.Context(), clientID(w, r)); err != nil {
		h.logger.Error().Err(err).Msg("failed to clear wishlist")
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to clear wishlist", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, model.Wishlist{Items: []model.Product{}})
}

// MoveToCart handles POST /api/wishlist/move-to-cart: every wishlist item
// goes into the cart with quantity one, then the wishlist is emptied.
func (h *WishlistHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	cart, err := h.wishlist.MoveAllToCart(r.Context(), clientID(w, r), h.cart)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to move wishlist to cart")
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to move wishlist to cart", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}
