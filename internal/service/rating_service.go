package service

import (
	"context"
	"errors"
	"time"

	"cleancart/internal/domain"
	"cleancart/internal/repository"

	"github.com/google/uuid"
)

var ErrInvalidRating = errors.New("rating must be an integer between 1 and 5")

// RatingService defines the interface for rating business logic
type RatingService interface {
	// SubmitRating records a user's score for a product. A second submission
	// by the same user for the same product replaces the first.
	SubmitRating(ctx context.Context, userID, productID uuid.UUID, score int, review string) (*domain.Rating, error)
	DeleteRating(ctx context.Context, id uuid.UUID) error
	ListProductRatings(ctx context.Context, productID uuid.UUID) ([]*domain.Rating, error)
	ListReviews(ctx context.Context) ([]*domain.Review, error)
}

type ratingService struct {
	ratingRepo  repository.RatingRepository
	productRepo repository.ProductRepository
}

// NewRatingService creates a new instance of RatingService
func NewRatingService(ratingRepo repository.RatingRepository, productRepo repository.ProductRepository) RatingService {
	return &ratingService{
		ratingRepo:  ratingRepo,
		productRepo: productRepo,
	}
}

func (s *ratingService) SubmitRating(ctx context.Context, userID, productID uuid.UUID, score int, review string) (*domain.Rating, error) {
	if score < 1 || score > 5 {
		return nil, ErrInvalidRating
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	rating := &domain.Rating{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Rating:    score,
		Review:    review,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.ratingRepo.Upsert(ctx, rating); err != nil {
		return nil, err
	}

	ratingsSubmittedTotal.Inc()

	return rating, nil
}

func (s *ratingService) DeleteRating(ctx context.Context, id uuid.UUID) error {
	return s.ratingRepo.Delete(ctx, id)
}

func (s *ratingService) ListProductRatings(ctx context.Context, productID uuid.UUID) ([]*domain.Rating, error) {
	return s.ratingRepo.ListByProduct(ctx, productID)
}

func (s *ratingService) ListReviews(ctx context.Context) ([]*domain.Review, error) {
	return s.ratingRepo.ListReviews(ctx)
}
