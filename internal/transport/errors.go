package transport

import (
	"errors"
	"net/http"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/domain"
	"storefront/internal/middleware"
	"storefront/internal/view"

	"go.uber.org/zap"
)

// respondWithServiceError maps a service error to a status and message
func respondWithServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		fetchErr   *catalog.FetchError
		httpErr    *checkout.HTTPError
		networkErr *checkout.NetworkError
		parseErr   *checkout.ParseError
	)

	switch {
	case errors.As(err, &fetchErr):
		logger.Warn("Catalog unavailable", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadGateway, view.LoadFailure)
	case errors.Is(err, catalog.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, cart.ErrEntryNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "cart entry not found")
	case errors.Is(err, cart.ErrOutOfRange):
		middleware.RespondWithError(w, http.StatusNotFound, "cart position out of range")
	case errors.Is(err, checkout.ErrEmptyCart):
		middleware.RespondWithError(w, http.StatusBadRequest, view.CheckoutFailure(err))
	case errors.Is(err, checkout.ErrSubmissionInFlight):
		middleware.RespondWithError(w, http.StatusConflict, view.CheckoutFailure(err))
	case errors.As(err, &httpErr):
		middleware.RespondWithErrorDetails(w, http.StatusUnprocessableEntity, view.CheckoutFailure(err),
			map[string]interface{}{"upstream_status": httpErr.Status})
	case errors.As(err, &networkErr), errors.As(err, &parseErr):
		logger.Warn("Checkout upstream failure", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadGateway, view.CheckoutFailure(err))
	case errors.Is(err, domain.ErrInvalidSortOrder), errors.Is(err, domain.ErrInvalidProductID):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error("Request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// respondWithDecodeError answers a body that failed decoding or validation
func respondWithDecodeError(w http.ResponseWriter, err error) {
	if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
		middleware.RespondWithValidationErrors(w, validationErrors)
		return
	}
	middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
}
