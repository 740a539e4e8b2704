// backend/src/services/interfaces.go
package services

import (
	"context"
	"errors"
	"io"

	"github.com/username/moneymap/backend/src/analytics"
	"github.com/username/moneymap/backend/src/models"
)

// Define common service errors
var (
	ErrStoreFailed    = errors.New("transaction store access failed")
	ErrInvalidPeriods = errors.New("months to predict must be positive")
	ErrParsingFailed  = errors.New("error parsing import file")
)

// AnalyticsService is the engine's public surface. Every read operation
// is memoized; sparse or missing data degrades to labeled low-confidence
// results instead of errors. Returned results are derived value objects:
// top-level structs are the caller's own copy, nested slices and maps
// are shared with the cache and must be treated as read-only.
type AnalyticsService interface {
	AnalyzeHistoricalPatterns(ctx context.Context, userID int64) (*models.HistoricalAnalysis, error)
	PredictFutureSpending(ctx context.Context, userID int64, months int, opts analytics.ForecastOptions) (*models.PredictionResult, error)
	GenerateIncomeForecasts(ctx context.Context, userID int64, months int) ([]models.ForecastPoint, error)
	GenerateExpenseForecasts(ctx context.Context, userID int64, months int) ([]models.ForecastPoint, error)
	DetectSeasonalPatterns(ctx context.Context, userID int64) (models.SeasonalProfile, error)
	IdentifyRecurringTransactions(ctx context.Context, userID int64) ([]models.RecurringPattern, error)

	// Cache management.
	InvalidateCache(pattern string)
	InvalidateUserCache(userID int64)
	ClearCache()
	GetCacheStats() models.CacheStats
}

// ImportResult summarizes one processed import file.
type ImportResult struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
	Total    int `json:"total"`
}

// ImportService turns uploaded CSV files into stored transactions.
type ImportService interface {
	ProcessImport(ctx context.Context, userID int64, source string, file io.Reader, filename string) (*ImportResult, error)
}
