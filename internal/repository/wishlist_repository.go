package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"cleancart/internal/domain"

	"github.com/google/uuid"
)

var ErrWishlistItemNotFound = errors.New("wishlist item not found")

// WishlistRepository defines the interface for wishlist line data access
type WishlistRepository interface {
	// Add inserts a wishlist line; re-adding the same (user, product) pair
	// is a no-op.
	Add(ctx context.Context, item *domain.WishlistItem) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.WishlistItemDetail, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type wishlistRepository struct {
	db *sql.DB
}

// NewWishlistRepository creates a new instance of WishlistRepository
func NewWishlistRepository(db *sql.DB) WishlistRepository {
	return &wishlistRepository{db: db}
}

func (r *wishlistRepository) Add(ctx context.Context, item *domain.WishlistItem) error {
	query := `
		INSERT INTO wishlist_items (id, user_id, product_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, product_id) DO NOTHING
	`

	_, err := r.db.ExecContext(ctx, query, item.ID, item.UserID, item.ProductID, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}

	return nil
}

// ListByUser retrieves a user's wishlist joined with products, newest first.
func (r *wishlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.WishlistItemDetail, error) {
	query := `
		SELECT wi.id, wi.user_id, wi.product_id, wi.created_at,
		       p.id, p.name, p.price, p.short_description, p.images
		FROM wishlist_items wi
		JOIN products p ON p.id = wi.product_id
		WHERE wi.user_id = $1
		ORDER BY wi.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist items: %w", err)
	}
	defer rows.Close()

	items := []*domain.WishlistItemDetail{}
	for rows.Next() {
		item := &domain.WishlistItemDetail{}
		var images []byte

		err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.CreatedAt,
			&item.Product.ID, &item.Product.Name, &item.Product.Price,
			&item.Product.ShortDescription, &images,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}

		if err := decodeStrings(images, &item.Product.Images); err != nil {
			return nil, fmt.Errorf("failed to decode images: %w", err)
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist items: %w", err)
	}

	return items, nil
}

// Delete removes one wishlist line.
func (r *wishlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM wishlist_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrWishlistItemNotFound
	}

	return nil
}

// ContactRepository stores contact-form submissions.
type ContactRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) error
}

type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new instance of ContactRepository
func NewContactRepository(db *sql.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, name, email, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query, msg.ID, msg.Name, msg.Email, msg.Subject, msg.Message, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to store contact message: %w", err)
	}

	return nil
}
