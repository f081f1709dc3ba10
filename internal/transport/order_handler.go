package transport

import (
	"net/http"

	"cleancart/internal/domain"
	"cleancart/internal/middleware"
	"cleancart/internal/repository"
	"cleancart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UpdateStatusRequest represents the status update payload
type UpdateStatusRequest struct {
	Status int `json:"status" validate:"required"`
}

// OrderHandler handles HTTP requests for order operations
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes. Every route requires a token;
// listing all orders, setting status and deleting are admin-only.
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, requireAdmin, rateLimit func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)

		r.With(rateLimit).Post("/create", h.CreateOrder)
		r.Get("/get/{orderId}", h.GetOrder)
		r.Get("/getuserorder/{userId}", h.GetUserOrders)
		r.Put("/cancel/{orderId}", h.CancelOrder)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Get("/getall", h.GetAllOrders)
			r.Put("/updatestatus/{orderId}", h.UpdateStatus)
			r.Delete("/{orderId}", h.DeleteOrder)
		})
	})
}

func isOrderValidationError(err error) bool {
	switch err {
	case service.ErrEmptyOrder, service.ErrInvalidOrderStatus,
		service.ErrInvalidOrderItem, service.ErrUnknownProducts,
		domain.ErrOrderNotCancellable:
		return true
	}
	return false
}

// CreateOrder places an order for the authenticated user. The order, its
// items, and the cart clearing commit together or not at all.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var input service.PlaceOrderInput

	if err := middleware.DecodeAndValidate(r, &input); err != nil {
		h.logger.Debug("Order validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The owner comes from the token, never from the body. Admin tokens
	// place anonymous orders.
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		input.UserID = &userID
	} else {
		input.UserID = nil
	}

	order, err := h.orderService.PlaceOrder(r.Context(), &input)
	if err != nil {
		switch {
		case isOrderValidationError(err):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case err == repository.ErrUserNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "user not found")
		default:
			h.logger.Error("Failed to place order", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to place order")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// GetOrder returns one order with its items. Users can only read their
// own orders.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), id)
	if err != nil {
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}

		h.logger.Error("Failed to get order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get order")
		return
	}

	if !middleware.IsAdmin(r.Context()) {
		userID, ok := middleware.GetUserID(r.Context())
		if !ok || order.UserID == nil || *order.UserID != userID {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// GetAllOrders returns every order, most recent first.
func (h *OrderHandler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.ListOrders(r.Context())
	if err != nil {
		h.logger.Error("Failed to list orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// GetUserOrders returns one user's orders. Users can only read their own.
func (h *OrderHandler) GetUserOrders(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if !middleware.IsAdmin(r.Context()) {
		callerID, ok := middleware.GetUserID(r.Context())
		if !ok || callerID != userID {
			middleware.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
			return
		}
	}

	orders, err := h.orderService.ListUserOrders(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list user orders", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list orders")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// UpdateStatus sets an order's status to any of the five defined codes.
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req UpdateStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.orderService.UpdateStatus(r.Context(), id, req.Status); err != nil {
		switch err {
		case service.ErrInvalidOrderStatus:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case repository.ErrOrderNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		default:
			h.logger.Error("Failed to update order status", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update order status")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "order status updated successfully",
	})
}

// CancelOrder cancels the caller's own pending order.
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	if err := h.orderService.CancelOrder(r.Context(), id, userID); err != nil {
		switch err {
		case domain.ErrOrderNotCancellable:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case repository.ErrOrderNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
		default:
			h.logger.Error("Failed to cancel order", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to cancel order")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "order cancelled successfully",
	})
}

// DeleteOrder hard-deletes an order and its items.
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "orderId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.orderService.DeleteOrder(r.Context(), id); err != nil {
		if err == repository.ErrOrderNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "order not found")
			return
		}

		h.logger.Error("Failed to delete order", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "order deleted successfully",
	})
}
