package service

import (
	"context"
	"errors"
	"time"

	"cleancart/internal/domain"
	"cleancart/internal/repository"

	"github.com/google/uuid"
)

var ErrInvalidQuantity = errors.New("quantity must be a positive integer")

// CartService defines the interface for cart and wishlist business logic
type CartService interface {
	AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error)
	GetCart(ctx context.Context, userID uuid.UUID) ([]*domain.CartItemDetail, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error
	RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error

	AddToWishlist(ctx context.Context, userID, productID uuid.UUID) (*domain.WishlistItem, error)
	GetWishlist(ctx context.Context, userID uuid.UUID) ([]*domain.WishlistItemDetail, error)
	RemoveFromWishlist(ctx context.Context, itemID uuid.UUID) error
}

type cartService struct {
	cartRepo     repository.CartRepository
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

// NewCartService creates a new instance of CartService
func NewCartService(
	cartRepo repository.CartRepository,
	wishlistRepo repository.WishlistRepository,
	productRepo repository.ProductRepository,
) CartService {
	return &cartService{
		cartRepo:     cartRepo,
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

// AddToCart adds a product to the cart. Adding a product already in the
// cart adds the quantities together instead of creating a second line.
func (s *cartService) AddToCart(ctx context.Context, userID, productID uuid.UUID, quantity int) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	item := &domain.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.cartRepo.Upsert(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) ([]*domain.CartItemDetail, error) {
	return s.cartRepo.ListByUser(ctx, userID)
}

// UpdateQuantity sets a cart line's quantity. A non-positive quantity
// removes the line. The line must belong to the caller.
func (s *cartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) error {
	item, err := s.cartRepo.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return repository.ErrCartItemNotFound
	}

	if quantity <= 0 {
		return s.cartRepo.Delete(ctx, itemID)
	}

	return s.cartRepo.UpdateQuantity(ctx, itemID, quantity)
}

func (s *cartService) RemoveFromCart(ctx context.Context, userID, itemID uuid.UUID) error {
	item, err := s.cartRepo.FindByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item.UserID != userID {
		return repository.ErrCartItemNotFound
	}

	return s.cartRepo.Delete(ctx, itemID)
}

func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.DeleteByUser(ctx, userID)
}

// AddToWishlist puts a product on the wishlist. Re-adding a product that
// is already listed returns the existing state unchanged.
func (s *cartService) AddToWishlist(ctx context.Context, userID, productID uuid.UUID) (*domain.WishlistItem, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	item := &domain.WishlistItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}

	if err := s.wishlistRepo.Add(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *cartService) GetWishlist(ctx context.Context, userID uuid.UUID) ([]*domain.WishlistItemDetail, error) {
	return s.wishlistRepo.ListByUser(ctx, userID)
}

func (s *cartService) RemoveFromWishlist(ctx context.Context, itemID uuid.UUID) error {
	return s.wishlistRepo.Delete(ctx, itemID)
}
