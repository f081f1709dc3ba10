package transport

import (
	"net/http"

	"cleancart/internal/middleware"
	"cleancart/internal/repository"
	"cleancart/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxUploadBytes = 32 << 20

// CreateCategoryRequest represents the category creation payload
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	catalogService service.CatalogService
	maxImages      int
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalogService service.CatalogService, maxImages int, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
		maxImages:      maxImages,
		logger:         logger,
	}
}

// RegisterRoutes registers all catalog routes. Catalog writes are
// admin-only; reads are public.
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Get("/page", h.ListProductPage)
		r.Get("/new-arrivals", h.ListNewArrivals)
		r.Get("/best-sellers", h.ListBestSellers)
		r.Get("/category/{name}", h.ListByCategory)
		r.Get("/{id}", h.GetProduct)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, requireAdmin)
			r.Post("/", h.CreateProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})
	})

	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.ListCategories)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware, requireAdmin)
			r.Post("/", h.CreateCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})
	})
}

// productFormFromRequest maps the multipart form fields onto the service
// form. Absent fields stay empty, which the service reads as omitted.
func productFormFromRequest(r *http.Request) service.ProductForm {
	return service.ProductForm{
		Name:             r.FormValue("name"),
		CategoryID:       r.FormValue("categoryId"),
		Price:            r.FormValue("price"),
		ShortDescription: r.FormValue("shortDescription"),
		LongDescription:  r.FormValue("longDescription"),
		Stock:            r.FormValue("stock"),
		Features:         r.FormValue("features"),
		HowToUse:         r.FormValue("howToUse"),
		SuitableSurfaces: r.FormValue("suitableSurfaces"),
		Volume:           r.FormValue("volume"),
		Ingredients:      r.FormValue("ingredients"),
		Scent:            r.FormValue("scent"),
		PHLevel:          r.FormValue("phLevel"),
		ShelfLife:        r.FormValue("shelfLife"),
		MadeIn:           r.FormValue("madeIn"),
		Packaging:        r.FormValue("packaging"),
		Combos:           r.FormValue("combos"),
	}
}

func isCatalogValidationError(err error) bool {
	switch err {
	case service.ErrMissingFields, service.ErrInvalidFeatures,
		service.ErrInvalidHowToUse, service.ErrInvalidPrice,
		service.ErrInvalidStock, service.ErrNegativeVolume,
		service.ErrInvalidPHLevel, service.ErrNegativeShelfLife:
		return true
	}
	return false
}

// CreateProduct handles multipart product creation with up to maxImages
// uploaded images.
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	images := r.MultipartForm.File["images"]
	if len(images) > h.maxImages {
		middleware.RespondWithError(w, http.StatusBadRequest, "too many images")
		return
	}

	product, err := h.catalogService.CreateProduct(r.Context(), productFormFromRequest(r), images)
	if err != nil {
		switch {
		case isCatalogValidationError(err):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case err == repository.ErrCategoryNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		default:
			h.logger.Error("Failed to create product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// UpdateProduct handles partial multipart updates; new uploads replace the
// whole image list.
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	images := r.MultipartForm.File["images"]
	if len(images) > h.maxImages {
		middleware.RespondWithError(w, http.StatusBadRequest, "too many images")
		return
	}

	product, err := h.catalogService.UpdateProduct(r.Context(), id, productFormFromRequest(r), images)
	if err != nil {
		switch {
		case isCatalogValidationError(err):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		case err == repository.ErrProductNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case err == repository.ErrCategoryNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
		default:
			h.logger.Error("Failed to update product", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		}
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// DeleteProduct removes a product and purges its image files.
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	if err := h.catalogService.DeleteProduct(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "product deleted successfully",
	})
}

// GetProduct returns one product with its full field set.
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}

		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// ListProducts returns every product with its category name flattened in.
func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListProducts(r.Context())
	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// ListProductPage returns the reduced storefront projection, newest first.
func (h *ProductHandler) ListProductPage(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListProductPage(r.Context())
	if err != nil {
		h.logger.Error("Failed to list product page", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// ListNewArrivals returns the four newest products.
func (h *ProductHandler) ListNewArrivals(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListNewArrivals(r.Context())
	if err != nil {
		h.logger.Error("Failed to list new arrivals", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list new arrivals")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// ListBestSellers returns the top four products by units sold.
func (h *ProductHandler) ListBestSellers(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalogService.ListBestSellers(r.Context())
	if err != nil {
		h.logger.Error("Failed to list best sellers", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list best sellers")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// ListByCategory returns the products of one category, matched by exact
// name.
func (h *ProductHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	products, err := h.catalogService.ListByCategoryName(r.Context(), name)
	if err != nil {
		if err == repository.ErrCategoryNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}

		h.logger.Error("Failed to list products by category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// CreateCategory adds a product category.
func (h *ProductHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	category, err := h.catalogService.CreateCategory(r.Context(), req.Name)
	if err != nil {
		if err == repository.ErrCategoryAlreadyExists {
			middleware.RespondWithError(w, http.StatusBadRequest, "category already exists")
			return
		}

		h.logger.Error("Failed to create category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, category)
}

// ListCategories returns every category.
func (h *ProductHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogService.ListCategories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, categories)
}

// DeleteCategory removes a category; its products cascade.
func (h *ProductHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	if err := h.catalogService.DeleteCategory(r.Context(), id); err != nil {
		if err == repository.ErrCategoryNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}

		h.logger.Error("Failed to delete category", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{
		"message": "category deleted successfully",
	})
}
