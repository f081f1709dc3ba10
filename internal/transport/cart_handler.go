package transport

import (
	"net/http"

	"cleancart/internal/middleware"
	"cleancart/internal/repository"
	"cleancart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddToCartRequest represents the cart add payload
type AddToCartRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// UpdateCartRequest represents the cart quantity update payload
type UpdateCartRequest struct {
	Quantity int `json:"quantity"`
}

// AddToWishlistRequest represents the wishlist add payload
type AddToWishlistRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
}

// CartHandler handles HTTP requests for cart and wishlist operations
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart and wishlist routes. Both stores are
// account-scoped, so every route requires a user token.
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware, requireUser func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authMiddleware, requireUser)
		r.Post("/add", h.AddToCart)
		r.Get("/get/{userId}", h.GetCart)
		r.Put("/update/{cartId}", h.UpdateQuantity)
		r.Delete("/remove/{cartId}", h.RemoveFromCart)
	})

	r.Route("/api/wishlist", func(r chi.Router) {
		r.Use(authMiddleware, requireUser)
		r.Post("/add", h.AddToWishlist)
		r.Get("/get/{userId}", h.GetWishlist)
		r.Delete("/remove/{id}", h.RemoveFromWishlist)
	})
}

// AddToCart adds a product to the caller's cart; re-adding the same
// product adds the quantities together.
func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, _ := middleware.GetUserID(r.Context())

	item, err := h.cartService.AddToCart(r.Context(), userID, req.ProductID, req.Quantity)
	if err != nil {
		switch err {
		case service.ErrInvalidQuantity:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case repository.ErrProductNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		default:
			h.logger.Error("Failed to add cart item", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add cart item")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, item)
}

// GetCart returns the caller's cart with product details.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	callerID, _ := middleware.GetUserID(r.Context())
	if callerID != userID {
		middleware.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	items, err := h.cartService.GetCart(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get cart", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// UpdateQuantity sets a cart line's quantity; zero or less removes it.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	cartID, err := uuid.Parse(chi.URLParam(r, "cartId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid cart item id")
		return
	}

	var req UpdateCartRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, _ := middleware.GetUserID(r.Context())

	if err := h.cartService.UpdateQuantity(r.Context(), userID, cartID, req.Quantity); err != nil {
		if err == repository.ErrCartItemNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "cart item not found")
			return
		}

		h.logger.Error("Failed to update cart item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update cart item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "cart updated successfully",
	})
}

// RemoveFromCart deletes one cart line.
func (h *CartHandler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	cartID, err := uuid.Parse(chi.URLParam(r, "cartId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid cart item id")
		return
	}

	userID, _ := middleware.GetUserID(r.Context())

	if err := h.cartService.RemoveFromCart(r.Context(), userID, cartID); err != nil {
		if err == repository.ErrCartItemNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "cart item not found")
			return
		}

		h.logger.Error("Failed to remove cart item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove cart item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "cart item removed successfully",
	})
}

// AddToWishlist puts a product on the caller's wishlist; a duplicate add
// is a no-op.
func (h *CartHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	var req AddToWishlistRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, _ := middleware.GetUserID(r.Context())

	item, err := h.cartService.AddToWishlist(r.Context(), userID, req.ProductID)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to add wishlist item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to add wishlist item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, item)
}

// GetWishlist returns the caller's wishlist with product details.
func (h *CartHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	callerID, _ := middleware.GetUserID(r.Context())
	if callerID != userID {
		middleware.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	items, err := h.cartService.GetWishlist(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to get wishlist", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get wishlist")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// RemoveFromWishlist deletes one wishlist line.
func (h *CartHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid wishlist item id")
		return
	}

	if err := h.cartService.RemoveFromWishlist(r.Context(), id); err != nil {
		if err == repository.ErrWishlistItemNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "wishlist item not found")
			return
		}

		h.logger.Error("Failed to remove wishlist item", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to remove wishlist item")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "wishlist item removed successfully",
	})
}
