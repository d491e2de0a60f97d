package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	SessionIDKey contextKey = "session_id"

	// SessionCookieName identifies the browser's cart
	SessionCookieName = "cart_session"

	sessionCookieMaxAge = 30 * 24 * time.Hour
)

// SessionMiddleware resolves the cart session from its cookie, issuing a
// new one when the cookie is missing or not a valid id
func SessionMiddleware(secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var sessionID uuid.UUID

			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				if id, err := uuid.Parse(cookie.Value); err == nil && id != uuid.Nil {
					sessionID = id
				}
			}

			if sessionID == uuid.Nil {
				sessionID = uuid.New()
				http.SetCookie(w, &http.Cookie{
					Name:     SessionCookieName,
					Value:    sessionID.String(),
					Path:     "/",
					MaxAge:   int(sessionCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})

				logger.Debug("Session issued", zap.String("session_id", sessionID.String()))
			}

			ctx := context.WithValue(r.Context(), SessionIDKey, sessionID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSessionID extracts the session id from request context
func GetSessionID(ctx context.Context) string {
	sessionID, _ := ctx.Value(SessionIDKey).(string)
	return sessionID
}

// CartKey returns the storage key of the session's cart
func CartKey(ctx context.Context) string {
	return "cart:" + GetSessionID(ctx)
}
