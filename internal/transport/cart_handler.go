package transport

import (
	"net/http"
	"strconv"

	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/service"
	"storefront/internal/view"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddCartItemRequest represents the add-to-cart payload
type AddCartItemRequest struct {
	ProductID domain.ProductID `json:"product_id" validate:"required"`
}

// CartResponse represents the cart contents
type CartResponse struct {
	Items        []domain.CartItem `json:"items"`
	Total        float64           `json:"total"`
	TotalDisplay string            `json:"total_display"`
	Message      string            `json:"message,omitempty"`
}

// RemoveProductResponse reports how many entries were removed
type RemoveProductResponse struct {
	Removed int `json:"removed"`
}

// CartHandler handles HTTP requests for the session cart
type CartHandler struct {
	storefront service.StorefrontService
	logger     *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(storefront service.StorefrontService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		storefront: storefront,
		logger:     logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.GetCart)
		r.Delete("/", h.ClearCart)
		r.Post("/items", h.AddItem)
		r.Delete("/items/{entryID}", h.RemoveItem)
		r.Delete("/positions/{index}", h.RemoveAt)
		r.Delete("/products/{productID}", h.RemoveProduct)
	})
}

// GetCart handles GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	summary, err := h.storefront.Cart(r.Context(), middleware.CartKey(r.Context()))
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	response := CartResponse{
		Items:        summary.Items,
		Total:        summary.Total,
		TotalDisplay: view.FormatPrice(summary.Total),
	}
	if response.Items == nil {
		response.Items = []domain.CartItem{}
	}
	if len(response.Items) == 0 {
		response.Message = view.EmptyCart
	}

	middleware.RespondWithJSON(w, http.StatusOK, response)
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddCartItemRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Add to cart validation failed", zap.Error(err))
		respondWithDecodeError(w, err)
		return
	}

	item, err := h.storefront.AddToCart(r.Context(), middleware.CartKey(r.Context()), req.ProductID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Product added to cart",
		zap.String("product_id", item.Product.ID.String()),
		zap.String("entry_id", item.EntryID.String()),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, item)
}

// RemoveItem handles DELETE /api/cart/items/{entryID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	entryID, err := uuid.Parse(chi.URLParam(r, "entryID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid entry id")
		return
	}

	if err := h.storefront.RemoveFromCart(r.Context(), middleware.CartKey(r.Context()), entryID); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveAt handles DELETE /api/cart/positions/{index}
func (h *CartHandler) RemoveAt(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid position")
		return
	}

	if err := h.storefront.RemoveFromCartAt(r.Context(), middleware.CartKey(r.Context()), index); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveProduct handles DELETE /api/cart/products/{productID}
func (h *CartHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := domain.ParseProductID(chi.URLParam(r, "productID"))
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	removed, err := h.storefront.RemoveProductFromCart(r.Context(), middleware.CartKey(r.Context()), productID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, RemoveProductResponse{Removed: removed})
}

// ClearCart handles DELETE /api/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.storefront.ClearCart(r.Context(), middleware.CartKey(r.Context())); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
