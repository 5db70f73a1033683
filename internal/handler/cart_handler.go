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

// CartHandler manages a client's cart. Products are always resolved through
// the catalog before they enter the cart, so a cart line carries a full
// canonical product snapshot rather than a bare ID.
type CartHandler struct {
	cart    *store.CartStore
	catalog catalog.Service
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(cart *store.CartStore, service catalog.Service, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		cart:    cart,
		catalog: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

type addCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.Get(r.Context(), clientID(w, r))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load cart")
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to load cart", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		writeDomainError(w, model.ErrInvalidQuantity, h.logger)
		return
	}

	product := h.catalog.Product(r.Context(), req.ProductID)
	if product == nil {
		writeDomainError(w, model.ErrProductNotFound, h.logger)
		return
	}

	cart, err := h.cart.Add(r.Context(), clientID(w, r), *product, req.Quantity)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// UpdateItem handles PUT /api/cart/items/{productId}. A quantity of zero
// removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productId")

	var req updateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	cart, err := h.cart.UpdateQuantity(r.Context(), clientID(w, r), productID, req.Quantity)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// RemoveItem handles DELETE /api/cart/items/{productId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	cart, err := h.cart.Remove(r.Context(), clientID(w, r), chi.URLParam(r, "productId"))
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.Clear(r.Context(), clientID(w, r)); err != nil {
		h.logger.Error().Err(err).Msg("failed to clear cart")
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "failed to clear cart", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, model.Cart{Items: []model.CartItem{}})
}
