package transport

import (
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"
	"storefront/internal/view"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductListResponse is the result of a catalog query
type ProductListResponse struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
	Message  string           `json:"message,omitempty"`
}

// CategoryListResponse lists the catalog categories
type CategoryListResponse struct {
	Categories []string `json:"categories"`
}

// CatalogHandler handles HTTP requests for browsing the catalog
type CatalogHandler struct {
	storefront service.StorefrontService
	logger     *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(storefront service.StorefrontService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		storefront: storefront,
		logger:     logger,
	}
}

// RegisterRoutes registers all catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/products", h.ListProducts)
	r.Get("/api/categories", h.ListCategories)
}

// ListProducts handles GET /api/products?category=&search=&sort=
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sort, err := domain.ParseSortOrder(q.Get("sort"))
	if err != nil {
		h.logger.Debug("Invalid sort order", zap.String("sort", q.Get("sort")))
		middleware.RespondWithErrorDetails(w, http.StatusBadRequest, "invalid sort order",
			map[string]interface{}{"allowed": []domain.SortOrder{domain.SortPriceAsc, domain.SortPriceDesc}})
		return
	}

	spec := domain.QuerySpec{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Sort:     sort,
	}

	products, err := h.storefront.Browse(r.Context(), spec)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	response := ProductListResponse{
		Products: products,
		Count:    len(products),
	}
	if len(products) == 0 {
		response.Message = view.NoProducts
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// ListCategories handles GET /api/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.storefront.Categories(r.Context())
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CategoryListResponse{Categories: categories})
}
