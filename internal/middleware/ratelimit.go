package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig describes a fixed window limit
type RateLimitConfig struct {
	RequestsPerWindow int
	Window            time.Duration
	KeyPrefix         string
}

// fixedWindow counts requests per client in Redis. The counter and its TTL
// are read in one transaction; a counter found without a TTL gets one, so a
// failed EXPIRE can never leave a client blocked forever.
type fixedWindow struct {
	client *redis.Client
	config RateLimitConfig
}

func (f fixedWindow) hit(ctx context.Context, clientID string) (count int64, resetIn time.Duration, err error) {
	key := fmt.Sprintf("%s:%s", f.config.KeyPrefix, clientID)

	var (
		incr *redis.IntCmd
		ttl  *redis.DurationCmd
	)
	_, err = f.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	resetIn = ttl.Val()
	if resetIn <= 0 {
		if err := f.client.Expire(ctx, key, f.config.Window).Err(); err != nil {
			return 0, 0, err
		}
		resetIn = f.config.Window
	}

	return incr.Val(), resetIn, nil
}

// RateLimitMiddleware limits requests per cart session, or per remote
// address when there is no session. Redis failures let the request through.
func RateLimitMiddleware(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	window := fixedWindow{client: redisClient, config: config}
	limit := strconv.Itoa(config.RequestsPerWindow)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := GetSessionID(r.Context())
			if clientID == "" {
				clientID = r.RemoteAddr
			}

			count, resetIn, err := window.hit(r.Context(), clientID)
			if err != nil {
				logger.Error("Rate limit check failed, allowing request",
					zap.String("client_id", clientID),
					zap.Error(err),
				)
				next.ServeHTTP(w, r)
				return
			}

			remaining := max(int64(config.RequestsPerWindow)-count, 0)
			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(resetIn).Unix(), 10))

			if count > int64(config.RequestsPerWindow) {
				logger.Warn("Rate limit exceeded",
					zap.String("client_id", clientID),
					zap.Int64("count", count),
					zap.Int("limit", config.RequestsPerWindow),
					zap.Duration("reset_in", resetIn),
				)

				h.Set("Retry-After", strconv.Itoa(int(resetIn.Round(time.Second).Seconds())))
				RespondWithError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
