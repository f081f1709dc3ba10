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

// SubmitRatingRequest represents the rating payload
type SubmitRatingRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Rating    int       `json:"rating" validate:"required,gte=1,lte=5"`
	Review    string    `json:"review"`
}

// RatingHandler handles HTTP requests for rating operations
type RatingHandler struct {
	ratingService service.RatingService
	logger        *zap.Logger
}

// NewRatingHandler creates a new RatingHandler
func NewRatingHandler(ratingService service.RatingService, logger *zap.Logger) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		logger:        logger,
	}
}

// RegisterRoutes registers all rating routes
func (h *RatingHandler) RegisterRoutes(r chi.Router, authMiddleware, requireUser func(http.Handler) http.Handler) {
	r.Route("/api/ratings", func(r chi.Router) {
		r.Get("/product/{productId}", h.ListProductRatings)
		r.Get("/reviews", h.ListReviews)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, requireUser)
			r.Post("/", h.SubmitRating)
			r.Delete("/{ratingId}", h.DeleteRating)
		})
	})
}

// SubmitRating adds the caller's rating for a product, or replaces the
// earlier one. The product aggregate is updated in the same transaction.
func (h *RatingHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	var req SubmitRatingRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID, _ := middleware.GetUserID(r.Context())

	rating, err := h.ratingService.SubmitRating(r.Context(), userID, req.ProductID, req.Rating, req.Review)
	if err != nil {
		switch err {
		case service.ErrInvalidRating:
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case repository.ErrProductNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		default:
			h.logger.Error("Failed to submit rating", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to submit rating")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, rating)
}

// DeleteRating removes a rating. A missing rating is reported as a bad
// request, matching the storefront's expectations.
func (h *RatingHandler) DeleteRating(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "ratingId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid rating id")
		return
	}

	if err := h.ratingService.DeleteRating(r.Context(), id); err != nil {
		if err == repository.ErrRatingNotFound {
			middleware.RespondWithError(w, http.StatusBadRequest, "rating not found")
			return
		}

		h.logger.Error("Failed to delete rating", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete rating")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "rating deleted successfully",
	})
}

// ListProductRatings returns a product's ratings, newest first.
func (h *RatingHandler) ListProductRatings(w http.ResponseWriter, r *http.Request) {
	productID, err := uuid.Parse(chi.URLParam(r, "productId"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	ratings, err := h.ratingService.ListProductRatings(r.Context(), productID)
	if err != nil {
		h.logger.Error("Failed to list ratings", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list ratings")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ratings)
}

// ListReviews returns every rating joined with product and reviewer details.
func (h *RatingHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.ratingService.ListReviews(r.Context())
	if err != nil {
		h.logger.Error("Failed to list reviews", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list reviews")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, reviews)
}
