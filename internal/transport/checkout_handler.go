package transport

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/service"
	"storefront/internal/view"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutRequest represents the checkout payload
type CheckoutRequest struct {
	Student bool   `json:"student"`
	Coupon  string `json:"coupon" validate:"max=64"`
}

// CheckoutResponse represents a completed purchase
type CheckoutResponse struct {
	TotalCost float64 `json:"total_cost"`
	Reference string  `json:"reference"`
	Message   string  `json:"message"`
}

// CheckoutHandler handles HTTP requests for submitting the cart
type CheckoutHandler struct {
	storefront service.StorefrontService
	logger     *zap.Logger
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(storefront service.StorefrontService, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		storefront: storefront,
		logger:     logger,
	}
}

// RegisterRoutes registers the checkout route behind the given limiter.
// A nil limiter leaves the route unthrottled.
func (h *CheckoutHandler) RegisterRoutes(r chi.Router, rateLimiter func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		if rateLimiter != nil {
			r.Use(rateLimiter)
		}
		r.Post("/api/checkout", h.Checkout)
	})
}

// Checkout handles POST /api/checkout
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Checkout validation failed", zap.Error(err))
		respondWithDecodeError(w, err)
		return
	}

	cartKey := middleware.CartKey(r.Context())
	result, err := h.storefront.Checkout(r.Context(), cartKey, req.Student, req.Coupon)
	if err != nil {
		h.logger.Info("Checkout failed", zap.String("cart_key", cartKey), zap.Error(err))
		respondWithServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Checkout completed",
		zap.String("cart_key", cartKey),
		zap.String("reference", result.Reference),
		zap.Float64("total_cost", result.TotalCost),
	)

	middleware.RespondWithJSON(w, http.StatusOK, CheckoutResponse{
		TotalCost: result.TotalCost,
		Reference: result.Reference,
		Message:   view.CheckoutSuccess(result),
	})
}
