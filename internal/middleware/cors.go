package middleware

import (
	"net/http"

	"storefront/internal/config"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// corsMaxAge is the preflight cache lifetime in seconds
const corsMaxAge = 300

// CORSMiddleware lets the storefront page call the API from its own origin.
// The session cookie travels cross-origin, so credentials are allowed and the
// origin is always echoed back: browsers drop credentialed responses carrying
// a literal "*". Development, or an empty list, accepts any origin.
func CORSMiddleware(cfg config.ServerConfig) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{
			"X-Request-Id",
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
			"X-RateLimit-Reset",
			"Retry-After",
		},
		AllowCredentials: true,
		MaxAge:           corsMaxAge,
	}

	if cfg.IsDevelopment() || len(cfg.AllowedOrigins) == 0 {
		opts.AllowOriginFunc = func(*http.Request, string) bool { return true }
	} else {
		opts.AllowedOrigins = cfg.AllowedOrigins
	}

	return cors.Handler(opts)
}

// BaseStack is the chi middleware every route runs behind
func BaseStack() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.RealIP,
		middleware.CleanPath,
		middleware.Recoverer,
		middleware.Compress(5, "application/json"),
	}
}
