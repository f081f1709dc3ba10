package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"time"

	"cleancart/internal/domain"
	"cleancart/internal/repository"
	"cleancart/internal/storage"

	"github.com/google/uuid"
)

const (
	newArrivalsLimit = 4
	bestSellersLimit = 4
)

var (
	ErrMissingFields     = errors.New("required fields are missing")
	ErrInvalidFeatures   = errors.New("invalid features format")
	ErrInvalidHowToUse   = errors.New("invalid how to use format")
	ErrInvalidPrice      = errors.New("price must be a non-negative number")
	ErrInvalidStock      = errors.New("stock must be a non-negative integer")
	ErrNegativeVolume    = errors.New("volume cannot be negative")
	ErrInvalidPHLevel    = errors.New("ph level must be between 0 and 14")
	ErrNegativeShelfLife = errors.New("shelf life cannot be negative")
)

// ProductForm carries the raw multipart form fields of a product create or
// update request. An empty string means the field was omitted; on update,
// omitted fields keep their stored values.
type ProductForm struct {
	Name             string
	CategoryID       string
	Price            string
	ShortDescription string
	LongDescription  string
	Stock            string
	Features         string
	HowToUse         string
	SuitableSurfaces string
	Volume           string
	Ingredients      string
	Scent            string
	PHLevel          string
	ShelfLife        string
	MadeIn           string
	Packaging        string
	Combos           string
}

// CatalogService defines the interface for catalog business logic
type CatalogService interface {
	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, form ProductForm, images []*multipart.FileHeader) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, form ProductForm, images []*multipart.FileHeader) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]*domain.ProductWithCategory, error)
	ListProductPage(ctx context.Context) ([]*domain.ProductSummary, error)
	ListNewArrivals(ctx context.Context) ([]*domain.ProductSummary, error)
	ListByCategoryName(ctx context.Context, name string) ([]*domain.Product, error)
	ListBestSellers(ctx context.Context) ([]*domain.BestSeller, error)
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	images       storage.ImageStore
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	images storage.ImageStore,
) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		images:       images,
	}
}

func (s *catalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	if name == "" {
		return nil, ErrMissingFields
	}

	category := &domain.Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

// parseStringArray decodes a JSON-encoded string array submitted as a
// single form field.
func parseStringArray(raw string, malformed error) ([]string, error) {
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, malformed
	}
	return values, nil
}

func parseOptionalFloat(raw string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func parseOptionalInt(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optionalString(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}

// validateRanges enforces the optional numeric invariants shared by create
// and update.
func validateRanges(volume *float64, phLevel *float64, shelfLife *int) error {
	if volume != nil && *volume < 0 {
		return ErrNegativeVolume
	}
	if phLevel != nil && (*phLevel < 0 || *phLevel > 14) {
		return ErrInvalidPHLevel
	}
	if shelfLife != nil && *shelfLife < 0 {
		return ErrNegativeShelfLife
	}
	return nil
}

// CreateProduct validates the form, stores the uploaded images, and
// persists the product. Saved image files are cleaned up when validation
// or persistence fails after the upload.
func (s *catalogService) CreateProduct(ctx context.Context, form ProductForm, images []*multipart.FileHeader) (*domain.Product, error) {
	if form.Name == "" || form.CategoryID == "" || form.Price == "" ||
		form.ShortDescription == "" || form.LongDescription == "" ||
		form.SuitableSurfaces == "" || form.Ingredients == "" {
		return nil, ErrMissingFields
	}

	features, err := parseStringArray(form.Features, ErrInvalidFeatures)
	if err != nil {
		return nil, err
	}
	howToUse, err := parseStringArray(form.HowToUse, ErrInvalidHowToUse)
	if err != nil {
		return nil, err
	}

	categoryID, err := uuid.Parse(form.CategoryID)
	if err != nil {
		return nil, repository.ErrCategoryNotFound
	}
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}

	price, err := strconv.ParseFloat(form.Price, 64)
	if err != nil || price < 0 {
		return nil, ErrInvalidPrice
	}

	stock := 0
	if form.Stock != "" {
		stock, err = strconv.Atoi(form.Stock)
		if err != nil || stock < 0 {
			return nil, ErrInvalidStock
		}
	}

	volume, err := parseOptionalFloat(form.Volume)
	if err != nil {
		return nil, ErrNegativeVolume
	}
	phLevel, err := parseOptionalFloat(form.PHLevel)
	if err != nil {
		return nil, ErrInvalidPHLevel
	}
	shelfLife, err := parseOptionalInt(form.ShelfLife)
	if err != nil {
		return nil, ErrNegativeShelfLife
	}
	if err := validateRanges(volume, phLevel, shelfLife); err != nil {
		return nil, err
	}

	imagePaths, err := s.images.Save(images)
	if err != nil {
		return nil, fmt.Errorf("failed to store images: %w", err)
	}

	product := &domain.Product{
		ID:               uuid.New(),
		CategoryID:       categoryID,
		Name:             form.Name,
		Price:            price,
		ShortDescription: form.ShortDescription,
		LongDescription:  form.LongDescription,
		Stock:            stock,
		Features:         features,
		HowToUse:         howToUse,
		SuitableSurfaces: form.SuitableSurfaces,
		Images:           imagePaths,
		Volume:           volume,
		Ingredients:      form.Ingredients,
		Scent:            optionalString(form.Scent),
		PHLevel:          phLevel,
		ShelfLife:        shelfLife,
		MadeIn:           optionalString(form.MadeIn),
		Packaging:        optionalString(form.Packaging),
		Combos:           form.Combos == "true",
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.images.Remove(imagePaths)
		return nil, err
	}

	return product, nil
}

// UpdateProduct applies partial-update semantics: any omitted field keeps
// its stored value. New image uploads replace the whole image list and the
// old files are removed best-effort after the row is written.
func (s *catalogService) UpdateProduct(ctx context.Context, id uuid.UUID, form ProductForm, images []*multipart.FileHeader) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if form.Features != "" {
		features, err := parseStringArray(form.Features, ErrInvalidFeatures)
		if err != nil {
			return nil, err
		}
		product.Features = features
	}
	if form.HowToUse != "" {
		howToUse, err := parseStringArray(form.HowToUse, ErrInvalidHowToUse)
		if err != nil {
			return nil, err
		}
		product.HowToUse = howToUse
	}

	if form.CategoryID != "" {
		categoryID, err := uuid.Parse(form.CategoryID)
		if err != nil {
			return nil, repository.ErrCategoryNotFound
		}
		if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
			return nil, err
		}
		product.CategoryID = categoryID
	}

	if form.Name != "" {
		product.Name = form.Name
	}
	if form.Price != "" {
		price, err := strconv.ParseFloat(form.Price, 64)
		if err != nil || price < 0 {
			return nil, ErrInvalidPrice
		}
		product.Price = price
	}
	if form.ShortDescription != "" {
		product.ShortDescription = form.ShortDescription
	}
	if form.LongDescription != "" {
		product.LongDescription = form.LongDescription
	}
	if form.Stock != "" {
		stock, err := strconv.Atoi(form.Stock)
		if err != nil || stock < 0 {
			return nil, ErrInvalidStock
		}
		product.Stock = stock
	}
	if form.SuitableSurfaces != "" {
		product.SuitableSurfaces = form.SuitableSurfaces
	}
	if form.Ingredients != "" {
		product.Ingredients = form.Ingredients
	}
	if form.Scent != "" {
		product.Scent = optionalString(form.Scent)
	}
	if form.MadeIn != "" {
		product.MadeIn = optionalString(form.MadeIn)
	}
	if form.Packaging != "" {
		product.Packaging = optionalString(form.Packaging)
	}
	if form.Combos != "" {
		product.Combos = form.Combos == "true"
	}

	if form.Volume != "" {
		volume, err := parseOptionalFloat(form.Volume)
		if err != nil {
			return nil, ErrNegativeVolume
		}
		product.Volume = volume
	}
	if form.PHLevel != "" {
		phLevel, err := parseOptionalFloat(form.PHLevel)
		if err != nil {
			return nil, ErrInvalidPHLevel
		}
		product.PHLevel = phLevel
	}
	if form.ShelfLife != "" {
		shelfLife, err := parseOptionalInt(form.ShelfLife)
		if err != nil {
			return nil, ErrNegativeShelfLife
		}
		product.ShelfLife = shelfLife
	}
	if err := validateRanges(product.Volume, product.PHLevel, product.ShelfLife); err != nil {
		return nil, err
	}

	oldImages := product.Images
	var newImages []string
	if len(images) > 0 {
		newImages, err = s.images.Save(images)
		if err != nil {
			return nil, fmt.Errorf("failed to store images: %w", err)
		}
		product.Images = newImages
	}

	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		s.images.Remove(newImages)
		return nil, err
	}

	// The row has been rewritten; replaced files are now orphans.
	if len(newImages) > 0 {
		s.images.Remove(oldImages)
	}

	return product, nil
}

// DeleteProduct removes the row, then purges its image files best-effort.
func (s *catalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.images.Remove(product.Images)
	return nil
}

func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

func (s *catalogService) ListProducts(ctx context.Context) ([]*domain.ProductWithCategory, error) {
	return s.productRepo.ListWithCategory(ctx)
}

func (s *catalogService) ListProductPage(ctx context.Context) ([]*domain.ProductSummary, error) {
	return s.productRepo.ListSummaries(ctx, 0)
}

func (s *catalogService) ListNewArrivals(ctx context.Context) ([]*domain.ProductSummary, error) {
	return s.productRepo.ListSummaries(ctx, newArrivalsLimit)
}

// ListByCategoryName resolves the category by exact, case-sensitive name
// before listing; an unknown name is a not-found error.
func (s *catalogService) ListByCategoryName(ctx context.Context, name string) ([]*domain.Product, error) {
	category, err := s.categoryRepo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.productRepo.ListByCategory(ctx, category.ID)
}

func (s *catalogService) ListBestSellers(ctx context.Context) ([]*domain.BestSeller, error) {
	return s.productRepo.ListBestSellers(ctx, bestSellersLimit)
}
