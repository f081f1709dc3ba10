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

func TestProductRoundTripsJSONBFields(t *testing.T) {
	ctx := context.Background()
	category := createTestCategory(t)

	repo := NewProductRepository(testDB)

	scent := "citrus"
	volume := 0.75
	product := &domain.Product{
		ID:               uuid.New(),
		CategoryID:       category.ID,
		Name:             "Glass Cleaner",
		Price:            12.5,
		ShortDescription: "short",
		LongDescription:  "long",
		Stock:            3,
		Features:         []string{"streak free", "fast drying"},
		HowToUse:         []string{"spray", "wipe"},
		SuitableSurfaces: "glass",
		Images:           []string{"uploads/a.png", "uploads/b.png"},
		Volume:           &volume,
		Ingredients:      "water, vinegar",
		Scent:            &scent,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	require.NoError(t, repo.Create(ctx, product))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.Features, found.Features)
	assert.Equal(t, product.HowToUse, found.HowToUse)
	assert.Equal(t, product.Images, found.Images)
	require.NotNil(t, found.Scent)
	assert.Equal(t, scent, *found.Scent)
}

func TestFindByIDsReturnsOnlyExisting(t *testing.T) {
	ctx := context.Background()
	category := createTestCategory(t)
	product := createTestProduct(t, category.ID, 10)

	repo := NewProductRepository(testDB)

	products, err := repo.FindByIDs(ctx, []uuid.UUID{product.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, product.ID, products[0].ID)
}

func TestListBestSellersOrdersByUnitsSold(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)
	category := createTestCategory(t)
	slow := createTestProduct(t, category.ID, 10)
	fast := createTestProduct(t, category.ID, 10)
	never := createTestProduct(t, category.ID, 10)

	orderRepo := NewOrderRepository(testDB)
	order := buildTestOrder(&user.ID)
	require.NoError(t, orderRepo.CreateWithItems(ctx, order, []*domain.OrderItem{
		{ID: uuid.New(), OrderID: order.ID, ProductID: slow.ID, Price: 10, Quantity: 1, TotalAmount: 10, CreatedAt: time.Now()},
		{ID: uuid.New(), OrderID: order.ID, ProductID: fast.ID, Price: 10, Quantity: 9, TotalAmount: 90, CreatedAt: time.Now()},
	}))

	repo := NewProductRepository(testDB)
	sellers, err := repo.ListBestSellers(ctx, 100)
	require.NoError(t, err)

	positions := map[uuid.UUID]int{}
	units := map[uuid.UUID]int{}
	for i, s := range sellers {
		positions[s.ID] = i
		units[s.ID] = s.UnitsSold
	}

	require.Contains(t, positions, fast.ID)
	require.Contains(t, positions, slow.ID)
	assert.Less(t, positions[fast.ID], positions[slow.ID])
	assert.GreaterOrEqual(t, units[fast.ID], 9)

	// A product nobody ordered can never be a best seller.
	assert.NotContains(t, positions, never.ID)
}

func TestListByCategoryAndCategoryByName(t *testing.T) {
	ctx := context.Background()
	category := createTestCategory(t)
	product := createTestProduct(t, category.ID, 10)

	categoryRepo := NewCategoryRepository(testDB)

	found, err := categoryRepo.FindByName(ctx, category.Name)
	require.NoError(t, err)
	assert.Equal(t, category.ID, found.ID)

	// Lookup is case-sensitive exact match.
	_, err = categoryRepo.FindByName(ctx, category.Name+"x")
	assert.Equal(t, ErrCategoryNotFound, err)

	repo := NewProductRepository(testDB)
	products, err := repo.ListByCategory(ctx, category.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, product.ID, products[0].ID)
}

func TestCategoryDeleteCascadesProducts(t *testing.T) {
	ctx := context.Background()
	category := createTestCategory(t)
	product := createTestProduct(t, category.ID, 10)

	require.NoError(t, NewCategoryRepository(testDB).Delete(ctx, category.ID))

	_, err := NewProductRepository(testDB).FindByID(ctx, product.ID)
	assert.Equal(t, ErrProductNotFound, err)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	user := createTestUser(t)

	duplicate := &domain.User{
		ID:           uuid.New(),
		FullName:     "Other",
		UserName:     "other",
		Email:        user.Email,
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuvwx",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	err := NewUserRepository(testDB).Create(ctx, duplicate)
	assert.Equal(t, ErrUserAlreadyExists, err)
}
