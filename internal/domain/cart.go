package domain

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line of a user's cart: (user, product, quantity). The
// storage layer enforces at most one line per (user, product) pair; adding
// the same product again increments the quantity instead.
type CartItem struct {
	ID        uuid.UUID `json:"cartId" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartItemDetail is a cart line joined with the product fields the cart
// page renders.
type CartItemDetail struct {
	CartItem
	Product CartProduct `json:"product"`
}

// CartProduct is the product projection embedded in cart reads.
type CartProduct struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Price            float64   `json:"price"`
	ShortDescription string    `json:"shortDescription"`
	Images           []string  `json:"images"`
}

// WishlistItem is one line of a user's wishlist: (user, product), no
// quantity. Duplicate pairs are rejected at the storage layer.
type WishlistItem struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// WishlistItemDetail is a wishlist line joined with its product.
type WishlistItemDetail struct {
	WishlistItem
	Product CartProduct `json:"product"`
}
