package repository

import (
	"context"
	"testing"
	"time"

	"cleancart/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addCartLine(t *testing.T, repo CartRepository, userID, productID uuid.UUID, quantity int) *domain.CartItem {
	t.Helper()

	item := &domain.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, repo.Upsert(context.Background(), item))
	return item
}

func TestCartUpsertIncrementsExistingLine(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	category := createTestCategory(t)
	product := createTestProduct(t, category.ID, 10)

	repo := NewCartRepository(testDB)

	first := addCartLine(t, repo, user.ID, product.ID, 2)
	second := addCartLine(t, repo, user.ID, product.ID, 3)

	items, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, product.Name, items[0].Product.Name)

	// The conflict path reports the surviving row: same id, merged quantity.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Quantity)

	found, err := repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, found.Quantity)
}

func TestCartUpdateQuantityAndDelete(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	category := createTestCategory(t)
	product := createTestProduct(t, category.ID, 10)

	repo := NewCartRepository(testDB)
	line := addCartLine(t, repo, user.ID, product.ID, 2)

	require.NoError(t, repo.UpdateQuantity(ctx, line.ID, 7))

	found, err := repo.FindByID(ctx, line.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, found.Quantity)

	require.NoError(t, repo.Delete(ctx, line.ID))
	_, err = repo.FindByID(ctx, line.ID)
	assert.Equal(t, ErrCartItemNotFound, err)
}

func TestCartDeleteByUserIsIdempotent(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	category := createTestCategory(t)
	product := createTestProduct(t, category.ID, 10)

	repo := NewCartRepository(testDB)
	addCartLine(t, repo, user.ID, product.ID, 1)

	require.NoError(t, repo.DeleteByUser(ctx, user.ID))
	// Clearing an already-empty cart is not an error.
	require.NoError(t, repo.DeleteByUser(ctx, user.ID))

	items, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWishlistAddIsNoOpOnDuplicate(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	category := createTestCategory(t)
	product := createTestProduct(t, category.ID, 10)

	repo := NewWishlistRepository(testDB)

	for i := 0; i < 2; i++ {
		err := repo.Add(ctx, &domain.WishlistItem{
			ID:        uuid.New(),
			UserID:    user.ID,
			ProductID: product.ID,
			CreatedAt: time.Now(),
		})
		require.NoError(t, err)
	}

	items, err := repo.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestWishlistDeleteMissing(t *testing.T) {
	repo := NewWishlistRepository(testDB)
	err := repo.Delete(context.Background(), uuid.New())
	assert.Equal(t, ErrWishlistItemNotFound, err)
}

func TestUserDeleteCascadesCartNotOrders(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	category := createTestCategory(t)
	product := createTestProduct(t, category.ID, 10)

	cartRepo := NewCartRepository(testDB)
	addCartLine(t, cartRepo, user.ID, product.ID, 1)

	orderRepo := NewOrderRepository(testDB)
	order := buildTestOrder(&user.ID)
	require.NoError(t, orderRepo.CreateWithItems(ctx, order, []*domain.OrderItem{
		{ID: uuid.New(), OrderID: order.ID, ProductID: product.ID, Price: 10, Quantity: 1, TotalAmount: 10, CreatedAt: time.Now()},
	}))

	require.NoError(t, NewUserRepository(testDB).Delete(ctx, user.ID))

	var cartCount int
	require.NoError(t, testDB.QueryRow(
		`SELECT COUNT(*) FROM cart_items WHERE user_id = $1`, user.ID).Scan(&cartCount))
	assert.Zero(t, cartCount)

	// Order history survives with a null owner.
	detail, err := orderRepo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.UserID)
}
