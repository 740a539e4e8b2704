// backend/src/handlers/middleware.go
package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/username/moneymap/backend/src/logger"
)

type contextKey string

const (
	requestIDContextKey contextKey = "requestID"
	userIDContextKey    contextKey = "userID"
)

// ContextualLoggerMiddleware creates a logger with a requestID for each request.
func ContextualLoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()

		ctxLogger := logger.L.With(slog.String("requestID", requestID))

		ctx := logger.ToContext(r.Context(), ctxLogger)
		ctx = context.WithValue(ctx, requestIDContextKey, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserContextMiddleware resolves the caller's user ID from the
// X-User-ID header set by the upstream identity layer. Identity
// resolution itself happens outside this service.
func UserContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxLogger := logger.FromContext(r.Context())

		header := r.Header.Get("X-User-ID")
		if header == "" {
			ctxLogger.Debug("UserContextMiddleware: X-User-ID header missing", "path", r.URL.Path)
			sendJSONError(w, "X-User-ID header required", http.StatusBadRequest)
			return
		}

		userID, err := strconv.ParseInt(header, 10, 64)
		if err != nil || userID <= 0 {
			ctxLogger.Warn("UserContextMiddleware: invalid X-User-ID header", "value", header, "path", r.URL.Path)
			sendJSONError(w, "Invalid X-User-ID header", http.StatusBadRequest)
			return
		}

		enrichedLogger := ctxLogger.With(slog.Int64("userID", userID))
		ctx := logger.ToContext(r.Context(), enrichedLogger)
		ctx = context.WithValue(ctx, userIDContextKey, userID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUserIDFromContext returns the user ID placed by UserContextMiddleware.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int64)
	return userID, ok
}
