package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"cleancart/internal/domain"

	"github.com/google/uuid"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error)
	ListWithCategory(ctx context.Context) ([]*domain.ProductWithCategory, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error)
	ListSummaries(ctx context.Context, limit int) ([]*domain.ProductSummary, error)
	ListBestSellers(ctx context.Context, limit int) ([]*domain.BestSeller, error)
}

type productRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepository{db: db}
}

// encodeStrings marshals a string slice for a JSONB column. Nil becomes
// an empty array rather than SQL null.
func encodeStrings(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return json.Marshal(values)
}

// decodeStrings unmarshals a JSONB column into a string slice.
func decodeStrings(raw []byte, dest *[]string) error {
	if len(raw) == 0 {
		*dest = []string{}
		return nil
	}
	return json.Unmarshal(raw, dest)
}

const productColumns = `
	id, category_id, name, price, short_description, long_description, stock,
	features, how_to_use, suitable_surfaces, images, volume, ingredients,
	scent, ph_level, shelf_life, made_in, packaging, average_rating,
	total_reviews, combos, created_at, updated_at`

func scanProduct(scanner interface{ Scan(...any) error }) (*domain.Product, error) {
	p := &domain.Product{}
	var features, howToUse, images []byte

	err := scanner.Scan(
		&p.ID, &p.CategoryID, &p.Name, &p.Price, &p.ShortDescription,
		&p.LongDescription, &p.Stock, &features, &howToUse,
		&p.SuitableSurfaces, &images, &p.Volume, &p.Ingredients, &p.Scent,
		&p.PHLevel, &p.ShelfLife, &p.MadeIn, &p.Packaging, &p.AverageRating,
		&p.TotalReviews, &p.Combos, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := decodeStrings(features, &p.Features); err != nil {
		return nil, fmt.Errorf("failed to decode features: %w", err)
	}
	if err := decodeStrings(howToUse, &p.HowToUse); err != nil {
		return nil, fmt.Errorf("failed to decode how_to_use: %w", err)
	}
	if err := decodeStrings(images, &p.Images); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}

	return p, nil
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	features, err := encodeStrings(product.Features)
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}
	howToUse, err := encodeStrings(product.HowToUse)
	if err != nil {
		return fmt.Errorf("failed to encode how_to_use: %w", err)
	}
	images, err := encodeStrings(product.Images)
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	query := `
		INSERT INTO products (
			id, category_id, name, price, short_description, long_description,
			stock, features, how_to_use, suitable_surfaces, images, volume,
			ingredients, scent, ph_level, shelf_life, made_in, packaging,
			average_rating, total_reviews, combos, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23)
	`

	_, err = r.db.ExecContext(
		ctx,
		query,
		product.ID, product.CategoryID, product.Name, product.Price,
		product.ShortDescription, product.LongDescription, product.Stock,
		features, howToUse, product.SuitableSurfaces, images, product.Volume,
		product.Ingredients, product.Scent, product.PHLevel, product.ShelfLife,
		product.MadeIn, product.Packaging, product.AverageRating,
		product.TotalReviews, product.Combos, product.CreatedAt, product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update rewrites an existing product row using parameterized queries
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	features, err := encodeStrings(product.Features)
	if err != nil {
		return fmt.Errorf("failed to encode features: %w", err)
	}
	howToUse, err := encodeStrings(product.HowToUse)
	if err != nil {
		return fmt.Errorf("failed to encode how_to_use: %w", err)
	}
	images, err := encodeStrings(product.Images)
	if err != nil {
		return fmt.Errorf("failed to encode images: %w", err)
	}

	query := `
		UPDATE products
		SET category_id = $2, name = $3, price = $4, short_description = $5,
		    long_description = $6, stock = $7, features = $8, how_to_use = $9,
		    suitable_surfaces = $10, images = $11, volume = $12,
		    ingredients = $13, scent = $14, ph_level = $15, shelf_life = $16,
		    made_in = $17, packaging = $18, combos = $19, updated_at = $20
		WHERE id = $1
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID, product.CategoryID, product.Name, product.Price,
		product.ShortDescription, product.LongDescription, product.Stock,
		features, howToUse, product.SuitableSurfaces, images, product.Volume,
		product.Ingredients, product.Scent, product.PHLevel, product.ShelfLife,
		product.MadeIn, product.Packaging, product.Combos, product.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the database using parameterized queries
func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID using parameterized queries
func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindByIDs retrieves every product whose ID is in the given set. Callers
// that need an exact match must compare the result count themselves.
func (r *productRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return []*domain.Product{}, nil
	}

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1::uuid[])`

	rows, err := r.db.QueryContext(ctx, query, idStrings)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by IDs: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// ListWithCategory retrieves all products with the category name flattened in
func (r *productRepository) ListWithCategory(ctx context.Context) ([]*domain.ProductWithCategory, error) {
	query := `
		SELECT p.id, p.category_id, p.name, p.price, p.short_description,
		       p.long_description, p.stock, p.features, p.how_to_use,
		       p.suitable_surfaces, p.images, p.volume, p.ingredients,
		       p.scent, p.ph_level, p.shelf_life, p.made_in, p.packaging,
		       p.average_rating, p.total_reviews, p.combos, p.created_at,
		       p.updated_at, c.name AS category
		FROM products p
		JOIN categories c ON c.id = p.category_id
		ORDER BY p.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.ProductWithCategory{}
	for rows.Next() {
		p := &domain.ProductWithCategory{}
		var features, howToUse, images []byte

		err := rows.Scan(
			&p.ID, &p.CategoryID, &p.Name, &p.Price, &p.ShortDescription,
			&p.LongDescription, &p.Stock, &features, &howToUse,
			&p.SuitableSurfaces, &images, &p.Volume, &p.Ingredients, &p.Scent,
			&p.PHLevel, &p.ShelfLife, &p.MadeIn, &p.Packaging,
			&p.AverageRating, &p.TotalReviews, &p.Combos, &p.CreatedAt,
			&p.UpdatedAt, &p.Category,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		if err := decodeStrings(features, &p.Features); err != nil {
			return nil, fmt.Errorf("failed to decode features: %w", err)
		}
		if err := decodeStrings(howToUse, &p.HowToUse); err != nil {
			return nil, fmt.Errorf("failed to decode how_to_use: %w", err)
		}
		if err := decodeStrings(images, &p.Images); err != nil {
			return nil, fmt.Errorf("failed to decode images: %w", err)
		}

		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// ListByCategory retrieves the full products belonging to one category,
// newest first.
func (r *productRepository) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE category_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products by category: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// ListSummaries retrieves the reduced browse projection, newest first.
// A limit of 0 means no cap.
func (r *productRepository) ListSummaries(ctx context.Context, limit int) ([]*domain.ProductSummary, error) {
	query := `
		SELECT p.id, p.name, p.price, p.images, p.category_id, c.name, p.average_rating
		FROM products p
		JOIN categories c ON c.id = p.category_id
		ORDER BY p.created_at DESC
	`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list product summaries: %w", err)
	}
	defer rows.Close()

	summaries := []*domain.ProductSummary{}
	for rows.Next() {
		s := &domain.ProductSummary{}
		var images []byte

		err := rows.Scan(&s.ID, &s.Name, &s.Price, &images, &s.CategoryID, &s.Category, &s.AverageRating)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product summary: %w", err)
		}

		if err := decodeStrings(images, &s.Images); err != nil {
			return nil, fmt.Errorf("failed to decode images: %w", err)
		}

		summaries = append(summaries, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product summaries: %w", err)
	}

	return summaries, nil
}

// ListBestSellers ranks products by cumulative ordered quantity. Products
// with no order history never appear.
func (r *productRepository) ListBestSellers(ctx context.Context, limit int) ([]*domain.BestSeller, error) {
	query := `
		SELECT p.id, p.name, p.price, p.images, p.category_id, c.name,
		       p.average_rating, SUM(oi.quantity) AS units_sold
		FROM products p
		JOIN categories c ON c.id = p.category_id
		JOIN order_items oi ON oi.product_id = p.id
		GROUP BY p.id, p.name, p.price, p.images, p.category_id, c.name, p.average_rating
		ORDER BY units_sold DESC
		LIMIT $1
	`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list best sellers: %w", err)
	}
	defer rows.Close()

	sellers := []*domain.BestSeller{}
	for rows.Next() {
		b := &domain.BestSeller{}
		var images []byte

		err := rows.Scan(&b.ID, &b.Name, &b.Price, &images, &b.CategoryID,
			&b.Category, &b.AverageRating, &b.UnitsSold)
		if err != nil {
			return nil, fmt.Errorf("failed to scan best seller: %w", err)
		}

		if err := decodeStrings(images, &b.Images); err != nil {
			return nil, fmt.Errorf("failed to decode images: %w", err)
		}

		sellers = append(sellers, b)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating best sellers: %w", err)
	}

	return sellers, nil
}
