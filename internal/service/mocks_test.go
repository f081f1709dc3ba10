package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"cleancart/internal/domain"
	"cleancart/internal/repository"

	"github.com/google/uuid"
)

// Mock repositories for testing
type mockUserRepository struct {
	users map[string]*domain.User
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users: make(map[string]*domain.User),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for email, user := range m.users {
		if user.ID == id {
			delete(m.users, email)
			return nil
		}
	}
	return repository.ErrUserNotFound
}

type mockCategoryRepository struct {
	categories map[uuid.UUID]*domain.Category
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{
		categories: make(map[uuid.UUID]*domain.Category),
	}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	m.categories[category.ID] = category
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	out := make([]*domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	category, exists := m.categories[id]
	if !exists {
		return nil, repository.ErrCategoryNotFound
	}
	return category, nil
}

func (m *mockCategoryRepository) FindByName(ctx context.Context, name string) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.categories[id]; !exists {
		return repository.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product

	createErr error
	updateErr error

	summariesLimit int
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
	}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, exists := m.products[product.ID]; !exists {
		return repository.ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.products[id]; !exists {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(ids))
	for _, id := range ids {
		if product, exists := m.products[id]; exists {
			out = append(out, product)
		}
	}
	return out, nil
}

func (m *mockProductRepository) ListWithCategory(ctx context.Context) ([]*domain.ProductWithCategory, error) {
	out := make([]*domain.ProductWithCategory, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, &domain.ProductWithCategory{Product: *p})
	}
	return out, nil
}

func (m *mockProductRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range m.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductRepository) ListSummaries(ctx context.Context, limit int) ([]*domain.ProductSummary, error) {
	m.summariesLimit = limit
	return nil, nil
}

func (m *mockProductRepository) ListBestSellers(ctx context.Context, limit int) ([]*domain.BestSeller, error) {
	return nil, nil
}

type mockCartRepository struct {
	lines map[uuid.UUID]*domain.CartItem
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{
		lines: make(map[uuid.UUID]*domain.CartItem),
	}
}

func (m *mockCartRepository) Upsert(ctx context.Context, item *domain.CartItem) error {
	for _, line := range m.lines {
		if line.UserID == item.UserID && line.ProductID == item.ProductID {
			line.Quantity += item.Quantity
			line.UpdatedAt = item.UpdatedAt
			// Same write-back as the real upsert: the stored row wins.
			*item = *line
			return nil
		}
	}
	m.lines[item.ID] = item
	return nil
}

func (m *mockCartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.CartItemDetail, error) {
	var out []*domain.CartItemDetail
	for _, line := range m.lines {
		if line.UserID == userID {
			out = append(out, &domain.CartItemDetail{CartItem: *line})
		}
	}
	return out, nil
}

func (m *mockCartRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CartItem, error) {
	line, exists := m.lines[id]
	if !exists {
		return nil, repository.ErrCartItemNotFound
	}
	return line, nil
}

func (m *mockCartRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	line, exists := m.lines[id]
	if !exists {
		return repository.ErrCartItemNotFound
	}
	line.Quantity = quantity
	return nil
}

func (m *mockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.lines[id]; !exists {
		return repository.ErrCartItemNotFound
	}
	delete(m.lines, id)
	return nil
}

func (m *mockCartRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	for id, line := range m.lines {
		if line.UserID == userID {
			delete(m.lines, id)
		}
	}
	return nil
}

type mockWishlistRepository struct {
	items map[uuid.UUID]*domain.WishlistItem
}

func newMockWishlistRepository() *mockWishlistRepository {
	return &mockWishlistRepository{
		items: make(map[uuid.UUID]*domain.WishlistItem),
	}
}

func (m *mockWishlistRepository) Add(ctx context.Context, item *domain.WishlistItem) error {
	for _, existing := range m.items {
		if existing.UserID == item.UserID && existing.ProductID == item.ProductID {
			return nil
		}
	}
	m.items[item.ID] = item
	return nil
}

func (m *mockWishlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.WishlistItemDetail, error) {
	var out []*domain.WishlistItemDetail
	for _, item := range m.items {
		if item.UserID == userID {
			out = append(out, &domain.WishlistItemDetail{WishlistItem: *item})
		}
	}
	return out, nil
}

func (m *mockWishlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.items[id]; !exists {
		return repository.ErrWishlistItemNotFound
	}
	delete(m.items, id)
	return nil
}

// mockOrderRepository mirrors the transactional contract of the real
// repository: a successful CreateWithItems also clears the owning user's
// cart, and a failing one leaves everything untouched.
type mockOrderRepository struct {
	orders map[uuid.UUID]*domain.Order
	items  map[uuid.UUID][]*domain.OrderItem
	carts  *mockCartRepository

	createCalls int
	createErr   error
}

func newMockOrderRepository(carts *mockCartRepository) *mockOrderRepository {
	return &mockOrderRepository{
		orders: make(map[uuid.UUID]*domain.Order),
		items:  make(map[uuid.UUID][]*domain.OrderItem),
		carts:  carts,
	}
}

func (m *mockOrderRepository) CreateWithItems(ctx context.Context, order *domain.Order, items []*domain.OrderItem) error {
	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	m.orders[order.ID] = order
	m.items[order.ID] = items
	if order.UserID != nil && m.carts != nil {
		_ = m.carts.DeleteByUser(ctx, *order.UserID)
	}
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.OrderDetail, error) {
	order, exists := m.orders[id]
	if !exists {
		return nil, repository.ErrOrderNotFound
	}
	detail := &domain.OrderDetail{Order: *order}
	for _, item := range m.items[id] {
		detail.Items = append(detail.Items, domain.OrderItemDetail{OrderItem: *item})
	}
	return detail, nil
}

func (m *mockOrderRepository) List(ctx context.Context) ([]*domain.OrderDetail, error) {
	out := make([]*domain.OrderDetail, 0, len(m.orders))
	for id := range m.orders {
		detail, _ := m.FindByID(ctx, id)
		out = append(out, detail)
	}
	return out, nil
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.OrderDetail, error) {
	var out []*domain.OrderDetail
	for id, order := range m.orders {
		if order.UserID != nil && *order.UserID == userID {
			detail, _ := m.FindByID(ctx, id)
			out = append(out, detail)
		}
	}
	return out, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	order, exists := m.orders[id]
	if !exists {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

func (m *mockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.orders[id]; !exists {
		return repository.ErrOrderNotFound
	}
	delete(m.orders, id)
	delete(m.items, id)
	return nil
}

type ratingKey struct {
	product uuid.UUID
	user    uuid.UUID
}

type mockRatingRepository struct {
	ratings     map[ratingKey]*domain.Rating
	upsertCalls int
}

func newMockRatingRepository() *mockRatingRepository {
	return &mockRatingRepository{
		ratings: make(map[ratingKey]*domain.Rating),
	}
}

func (m *mockRatingRepository) Upsert(ctx context.Context, rating *domain.Rating) error {
	m.upsertCalls++
	key := ratingKey{product: rating.ProductID, user: rating.UserID}
	if existing, ok := m.ratings[key]; ok {
		// Same write-back as the real upsert: the stored row's id and
		// created_at survive a resubmission.
		rating.ID = existing.ID
		rating.CreatedAt = existing.CreatedAt
	}
	m.ratings[key] = rating
	return nil
}

func (m *mockRatingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for key, rating := range m.ratings {
		if rating.ID == id {
			delete(m.ratings, key)
			return nil
		}
	}
	return repository.ErrRatingNotFound
}

func (m *mockRatingRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Rating, error) {
	var out []*domain.Rating
	for key, rating := range m.ratings {
		if key.product == productID {
			out = append(out, rating)
		}
	}
	return out, nil
}

func (m *mockRatingRepository) ListReviews(ctx context.Context) ([]*domain.Review, error) {
	var out []*domain.Review
	for _, rating := range m.ratings {
		out = append(out, &domain.Review{Rating: *rating})
	}
	return out, nil
}

// fakeImageStore records the paths it handed out and the paths it was told
// to remove, without touching the filesystem.
type fakeImageStore struct {
	saved   []string
	removed []string
	saveErr error

	seq int
}

func (f *fakeImageStore) Save(files []*multipart.FileHeader) ([]string, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	paths := make([]string, 0, len(files))
	for range files {
		f.seq++
		paths = append(paths, fmt.Sprintf("uploads/fake-%d.png", f.seq))
	}
	f.saved = append(f.saved, paths...)
	return paths, nil
}

func (f *fakeImageStore) Remove(paths []string) {
	f.removed = append(f.removed, paths...)
}
