// backend/src/handlers/analytics_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/username/moneymap/backend/src/analytics"
	"github.com/username/moneymap/backend/src/logger"
	"github.com/username/moneymap/backend/src/models"
	"github.com/username/moneymap/backend/src/services"
)

const (
	defaultForecastMonths = 6
	maxForecastMonths     = 24
)

// AnalyticsHandler exposes the forecasting engine over HTTP.
type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

func (h *AnalyticsHandler) HandleGetHistoricalPatterns(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "user ID not found in context", http.StatusBadRequest)
		return
	}

	analysis, err := h.analyticsService.AnalyzeHistoricalPatterns(r.Context(), userID)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Historical pattern analysis failed", "error", err)
		sendJSONError(w, "Failed to analyze historical patterns", http.StatusInternalServerError)
		return
	}
	sendJSON(w, analysis, http.StatusOK)
}

func (h *AnalyticsHandler) HandleGetPredictions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "user ID not found in context", http.StatusBadRequest)
		return
	}

	months := monthsParam(r)
	opts := analytics.ForecastOptions{}
	if raw := r.URL.Query().Get("base_amount"); raw != "" {
		base, err := strconv.ParseFloat(raw, 64)
		if err != nil || base < 0 {
			sendJSONError(w, "base_amount must be a non-negative number", http.StatusBadRequest)
			return
		}
		opts.BaseAmount = base
	}

	result, err := h.analyticsService.PredictFutureSpending(r.Context(), userID, months, opts)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Spending prediction failed", "error", err)
		sendJSONError(w, "Failed to predict future spending", http.StatusInternalServerError)
		return
	}
	sendJSON(w, result, http.StatusOK)
}

func (h *AnalyticsHandler) HandleGetIncomeForecasts(w http.ResponseWriter, r *http.Request) {
	h.handleForecasts(w, r, h.analyticsService.GenerateIncomeForecasts)
}

func (h *AnalyticsHandler) HandleGetExpenseForecasts(w http.ResponseWriter, r *http.Request) {
	h.handleForecasts(w, r, h.analyticsService.GenerateExpenseForecasts)
}

func (h *AnalyticsHandler) handleForecasts(w http.ResponseWriter, r *http.Request, generate forecastFunc) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "user ID not found in context", http.StatusBadRequest)
		return
	}

	points, err := generate(r.Context(), userID, monthsParam(r))
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Forecast generation failed", "error", err)
		sendJSONError(w, "Failed to generate forecasts", http.StatusInternalServerError)
		return
	}
	sendJSON(w, points, http.StatusOK)
}

func (h *AnalyticsHandler) HandleGetSeasonalPatterns(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "user ID not found in context", http.StatusBadRequest)
		return
	}

	profile, err := h.analyticsService.DetectSeasonalPatterns(r.Context(), userID)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Seasonal pattern detection failed", "error", err)
		sendJSONError(w, "Failed to detect seasonal patterns", http.StatusInternalServerError)
		return
	}
	sendJSON(w, profile, http.StatusOK)
}

func (h *AnalyticsHandler) HandleGetRecurringTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "user ID not found in context", http.StatusBadRequest)
		return
	}

	patterns, err := h.analyticsService.IdentifyRecurringTransactions(r.Context(), userID)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Recurring transaction detection failed", "error", err)
		sendJSONError(w, "Failed to identify recurring transactions", http.StatusInternalServerError)
		return
	}
	sendJSON(w, patterns, http.StatusOK)
}

func (h *AnalyticsHandler) HandleGetCacheStats(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, h.analyticsService.GetCacheStats(), http.StatusOK)
}

// InvalidateCacheRequest selects cache entries by key substring.
type InvalidateCacheRequest struct {
	Pattern string `json:"pattern"`
}

func (h *AnalyticsHandler) HandleInvalidateCache(w http.ResponseWriter, r *http.Request) {
	var req InvalidateCacheRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Pattern == "" {
		sendJSONError(w, "pattern is required; use the clear endpoint to drop everything", http.StatusBadRequest)
		return
	}
	h.analyticsService.InvalidateCache(req.Pattern)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AnalyticsHandler) HandleClearCache(w http.ResponseWriter, r *http.Request) {
	h.analyticsService.ClearCache()
	w.WriteHeader(http.StatusNoContent)
}

type forecastFunc func(ctx context.Context, userID int64, months int) ([]models.ForecastPoint, error)

// monthsParam reads the months query parameter, clamped to a sane range.
func monthsParam(r *http.Request) int {
	months := defaultForecastMonths
	if raw := r.URL.Query().Get("months"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			months = parsed
		}
	}
	if months > maxForecastMonths {
		months = maxForecastMonths
	}
	return months
}
