package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cleancart/internal/domain"

	"github.com/google/uuid"
)

var ErrRatingNotFound = errors.New("rating not found")

// RatingRepository defines the interface for rating data access. Writes
// keep the product's aggregate columns consistent in the same transaction.
type RatingRepository interface {
	// Upsert inserts a rating or overwrites the existing one for the same
	// (product, user) pair, then refreshes the product aggregate. rating is
	// updated to reflect the stored row.
	Upsert(ctx context.Context, rating *domain.Rating) error
	// Delete removes a rating and refreshes the product aggregate.
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Rating, error)
	ListReviews(ctx context.Context) ([]*domain.Review, error)
}

type ratingRepository struct {
	db *sql.DB
}

// NewRatingRepository creates a new instance of RatingRepository
func NewRatingRepository(db *sql.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// refreshAggregate recomputes the product's rounded average and review
// count from the surviving ratings via domain.AggregateRatings, so the
// rounding rule lives in one place. Zero ratings reset both columns to 0.
func refreshAggregate(ctx context.Context, tx *sql.Tx, productID uuid.UUID) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT rating FROM ratings WHERE product_id = $1`, productID)
	if err != nil {
		return fmt.Errorf("failed to load rating scores: %w", err)
	}
	defer rows.Close()

	var scores []int
	for rows.Next() {
		var score int
		if err := rows.Scan(&score); err != nil {
			return fmt.Errorf("failed to scan rating score: %w", err)
		}
		scores = append(scores, score)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating rating scores: %w", err)
	}

	agg := domain.AggregateRatings(scores)

	query := `
		UPDATE products
		SET average_rating = $2, total_reviews = $3
		WHERE id = $1
	`
	if _, err := tx.ExecContext(ctx, query, productID, agg.Average, agg.Count); err != nil {
		return fmt.Errorf("failed to refresh rating aggregate: %w", err)
	}
	return nil
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *domain.Rating) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The conflict path keeps the existing row's id and created_at; both
	// are written back so the caller holds the stored row, not the draft.
	query := `
		INSERT INTO ratings (id, product_id, user_id, rating, review, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (product_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating,
		              review = EXCLUDED.review,
		              updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	err = tx.QueryRowContext(
		ctx,
		query,
		rating.ID, rating.ProductID, rating.UserID, rating.Rating,
		rating.Review, rating.CreatedAt, rating.UpdatedAt,
	).Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}

	if err := refreshAggregate(ctx, tx, rating.ProductID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rating transaction: %w", err)
	}

	return nil
}

func (r *ratingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var productID uuid.UUID
	err = tx.QueryRowContext(ctx,
		`DELETE FROM ratings WHERE id = $1 RETURNING product_id`, id,
	).Scan(&productID)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrRatingNotFound
		}
		return fmt.Errorf("failed to delete rating: %w", err)
	}

	if err := refreshAggregate(ctx, tx, productID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rating transaction: %w", err)
	}

	return nil
}

// ListByProduct retrieves a product's ratings, newest first.
func (r *ratingRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Rating, error) {
	query := `
		SELECT id, product_id, user_id, rating, review, created_at, updated_at
		FROM ratings
		WHERE product_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ratings: %w", err)
	}
	defer rows.Close()

	ratings := []*domain.Rating{}
	for rows.Next() {
		rating := &domain.Rating{}
		err := rows.Scan(
			&rating.ID, &rating.ProductID, &rating.UserID, &rating.Rating,
			&rating.Review, &rating.CreatedAt, &rating.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	return ratings, nil
}

// ListReviews retrieves every rating joined with product and reviewer
// details, newest first.
func (r *ratingRepository) ListReviews(ctx context.Context) ([]*domain.Review, error) {
	query := `
		SELECT rt.id, rt.product_id, rt.user_id, rt.rating, rt.review,
		       rt.created_at, rt.updated_at, p.name, u.full_name, u.email
		FROM ratings rt
		JOIN products p ON p.id = rt.product_id
		JOIN users u ON u.id = rt.user_id
		ORDER BY rt.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*domain.Review{}
	for rows.Next() {
		review := &domain.Review{}
		err := rows.Scan(
			&review.ID, &review.ProductID, &review.UserID, &review.Rating.Rating,
			&review.Review, &review.CreatedAt, &review.UpdatedAt,
			&review.ProductName, &review.UserName, &review.UserEmail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}
