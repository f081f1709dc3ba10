package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a product category. Deleting a category cascades
// to its products at the storage layer.
type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Product represents a catalog product. AverageRating and TotalReviews
// are maintained by the rating aggregator and must stay consistent with
// the set of stored ratings for the product.
type Product struct {
	ID               uuid.UUID `json:"id" db:"id"`
	CategoryID       uuid.UUID `json:"categoryId" db:"category_id"`
	Name             string    `json:"name" db:"name"`
	Price            float64   `json:"price" db:"price"`
	ShortDescription string    `json:"shortDescription" db:"short_description"`
	LongDescription  string    `json:"longDescription" db:"long_description"`
	Stock            int       `json:"stock" db:"stock"`
	Features         []string  `json:"features" db:"features"`
	HowToUse         []string  `json:"howToUse" db:"how_to_use"`
	SuitableSurfaces string    `json:"suitableSurfaces" db:"suitable_surfaces"`
	Images           []string  `json:"images" db:"images"`
	Volume           *float64  `json:"volume" db:"volume"`
	Ingredients      string    `json:"ingredients" db:"ingredients"`
	Scent            *string   `json:"scent" db:"scent"`
	PHLevel          *float64  `json:"phLevel" db:"ph_level"`
	ShelfLife        *int      `json:"shelfLife" db:"shelf_life"`
	MadeIn           *string   `json:"madeIn" db:"made_in"`
	Packaging        *string   `json:"packaging" db:"packaging"`
	AverageRating    int       `json:"averageRatings" db:"average_rating"`
	TotalReviews     int       `json:"totalReviews" db:"total_reviews"`
	Combos           bool      `json:"combos" db:"combos"`
	CreatedAt        time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time `json:"updatedAt" db:"updated_at"`
}

// ProductWithCategory is a product with its category name flattened in,
// used by the admin listing view.
type ProductWithCategory struct {
	Product
	Category string `json:"category"`
}

// ProductSummary is the reduced projection served to browse pages
// (all-products page, new arrivals).
type ProductSummary struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Images        []string  `json:"images"`
	CategoryID    uuid.UUID `json:"categoryId"`
	Category      string    `json:"category"`
	AverageRating int       `json:"averageRatings"`
}

// BestSeller is a product ranked by cumulative quantity across all order
// items referencing it. Products that have never been ordered do not rank.
type BestSeller struct {
	ProductSummary
	UnitsSold int `json:"unitsSold"`
}
