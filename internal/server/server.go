package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/app"
	"storefront/internal/database"
	custommiddleware "storefront/internal/middleware"
	"storefront/internal/transport"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	app    *app.App
	logger *zap.Logger
}

func NewServer(a *app.App, logger *zap.Logger) *Server {
	cfg := a.Config

	// Create router
	router := chi.NewRouter()

	router.Use(custommiddleware.BaseStack()...)
	// logging wraps panic recovery so recovered requests are logged with their 500
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server))

	// Health check endpoint
	router.Get("/health", healthHandler(a))

	// Session-scoped API
	router.Group(func(r chi.Router) {
		r.Use(custommiddleware.SessionMiddleware(!cfg.Server.IsDevelopment(), logger))

		var checkoutLimiter func(http.Handler) http.Handler
		if a.Redis != nil && cfg.RateLimit.CheckoutRequests > 0 {
			checkoutLimiter = custommiddleware.RateLimitMiddleware(a.Redis, custommiddleware.RateLimitConfig{
				RequestsPerWindow: cfg.RateLimit.CheckoutRequests,
				Window:            cfg.RateLimit.CheckoutWindow,
				KeyPrefix:         cfg.Redis.KeyPrefix + ":ratelimit:checkout",
			}, logger)
		}

		transport.NewCatalogHandler(a.Storefront, logger).RegisterRoutes(r)
		transport.NewCartHandler(a.Storefront, logger).RegisterRoutes(r)
		transport.NewCheckoutHandler(a.Storefront, logger).RegisterRoutes(r, checkoutLimiter)
	})

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: cfg.Shop.Timeout + 10*time.Second,
		},
		app:    a,
		logger: logger,
	}

	return server
}

func healthHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		health := map[string]interface{}{"status": "ok"}

		if a.DB != nil {
			dbHealth := database.Health(r.Context(), a.DB)
			health["database"] = dbHealth
			if dbHealth["status"] != "up" {
				health["status"] = "degraded"
			}
		}

		if a.Redis != nil {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()
			if err := a.Redis.Ping(ctx).Err(); err != nil {
				health["redis"] = "down"
				health["status"] = "degraded"
			} else {
				health["redis"] = "up"
			}
		}

		custommiddleware.RespondWithJSON(w, http.StatusOK, health)
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if err := s.app.Close(); err != nil {
		s.logger.Error("Failed to close storage", zap.Error(err))
		return err
	}

	s.logger.Info("Storage closed")
	return nil
}
