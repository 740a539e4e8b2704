// backend/src/services/analytics_service.go
package services

import (
	"context"
	"fmt"

	"github.com/username/moneymap/backend/src/analytics"
	"github.com/username/moneymap/backend/src/logger"
	"github.com/username/moneymap/backend/src/models"
	"github.com/username/moneymap/backend/src/store"
)

// Memoized operation names. They prefix every cache key, so the
// invalidation patterns below stay stable even as parameters change.
const (
	opHistoricalPatterns = "historical_patterns"
	opPredictSpending    = "predict_spending"
	opIncomeForecast     = "income_forecast"
	opExpenseForecast    = "expense_forecast"
	opSeasonalPatterns   = "seasonal_patterns"
	opRecurring          = "recurring_transactions"
)

type analyticsServiceImpl struct {
	txStore  store.TransactionStore
	cache    *analytics.Cache
	baseline float64 // insufficient-data forecast base amount
	alpha    float64 // exponential smoothing factor

	aggregator *analytics.Aggregator
	trend      *analytics.TrendEstimator
	seasonal   *analytics.SeasonalAnalyzer
	recurring  *analytics.RecurringDetector
	forecaster *analytics.ForecastGenerator
	categories *analytics.CategoryPredictor
}

// NewAnalyticsService wires the engine components behind the memoizing
// cache. alpha and baseline come from configuration; zero values fall
// back to the engine defaults.
func NewAnalyticsService(txStore store.TransactionStore, cache *analytics.Cache, alpha, baseline float64) AnalyticsService {
	return &analyticsServiceImpl{
		txStore:    txStore,
		cache:      cache,
		baseline:   baseline,
		alpha:      alpha,
		aggregator: analytics.NewAggregator(),
		trend:      analytics.NewTrendEstimator(),
		seasonal:   analytics.NewSeasonalAnalyzer(),
		recurring:  analytics.NewRecurringDetector(),
		forecaster: analytics.NewForecastGenerator(),
		categories: analytics.NewCategoryPredictor(),
	}
}

func (s *analyticsServiceImpl) AnalyzeHistoricalPatterns(ctx context.Context, userID int64) (*models.HistoricalAnalysis, error) {
	txs, err := s.txStore.GetAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	key := s.cache.Key(opHistoricalPatterns, map[string]any{"user": userID}, txs)
	value, err := s.cache.Memoize(key, func() (any, error) {
		return s.analyzeHistoricalPatterns(txs), nil
	})
	if err != nil {
		return nil, err
	}
	analysis := *value.(*models.HistoricalAnalysis)
	return &analysis, nil
}

func (s *analyticsServiceImpl) analyzeHistoricalPatterns(txs []models.Transaction) *models.HistoricalAnalysis {
	expenses := analytics.FilterByType(txs, models.TypeExpense)
	buckets := s.aggregator.AggregateByMonth(expenses)

	analysis := &models.HistoricalAnalysis{
		MonthsAnalyzed:   len(buckets),
		MonthlySpending:  buckets,
		SeasonalPatterns: models.NeutralSeasonalProfile(),
	}
	if len(buckets) < analytics.MinForecastMonths {
		// A normal, expected state; the caller shows "need more data".
		analysis.Trend = s.trend.Fit(buckets)
		analysis.CategoryPatterns = analytics.BuildCategoryPatterns(buckets)
		return analysis
	}

	totals := make([]float64, len(buckets))
	for i, b := range buckets {
		totals[i] = b.TotalAmount
	}

	analysis.HasEnoughData = true
	analysis.Trend = s.trend.Fit(buckets)
	analysis.SeasonalPatterns = s.seasonal.Detect(buckets)
	analysis.CategoryPatterns = analytics.BuildCategoryPatterns(buckets)
	analysis.Volatility = analytics.Volatility(totals)
	analysis.AverageMonthlySpending = analytics.Mean(totals)
	return analysis
}

func (s *analyticsServiceImpl) PredictFutureSpending(ctx context.Context, userID int64, months int, opts analytics.ForecastOptions) (*models.PredictionResult, error) {
	if months <= 0 {
		return nil, ErrInvalidPeriods
	}
	txs, err := s.txStore.GetAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	// The reference time anchors every forecast period, so it is part of
	// the key; a zero value keys as 0 (defaults to "now" at compute time).
	var ref int64
	if !opts.ReferenceTime.IsZero() {
		ref = opts.ReferenceTime.Unix()
	}
	key := s.cache.Key(opPredictSpending, map[string]any{
		"user":   userID,
		"months": months,
		"alpha":  opts.Alpha,
		"base":   opts.BaseAmount,
		"ref":    ref,
	}, txs)
	value, err := s.cache.Memoize(key, func() (any, error) {
		return s.predictFutureSpending(txs, months, opts), nil
	})
	if err != nil {
		return nil, err
	}
	result := *value.(*models.PredictionResult)
	return &result, nil
}

func (s *analyticsServiceImpl) predictFutureSpending(txs []models.Transaction, months int, opts analytics.ForecastOptions) *models.PredictionResult {
	opts = s.applyDefaults(opts)
	predictions := s.forecaster.Forecast(txs, months, models.TypeExpense, opts)

	result := &models.PredictionResult{
		Predictions:       predictions,
		CategoryForecasts: []models.CategoryForecast{},
	}
	if len(predictions) == 0 {
		return result
	}

	var confidenceSum float64
	for _, p := range predictions {
		confidenceSum += p.Confidence
	}
	result.Confidence = confidenceSum / float64(len(predictions))
	result.HasEnoughData = predictions[0].Method != models.MethodInsufficientData

	if result.HasEnoughData {
		expenses := analytics.FilterByType(txs, models.TypeExpense)
		patterns := analytics.BuildCategoryPatterns(s.aggregator.AggregateByMonth(expenses))
		result.CategoryForecasts = s.categories.PredictCategories(patterns, predictions[0].PredictedAmount)
	}
	return result
}

func (s *analyticsServiceImpl) GenerateIncomeForecasts(ctx context.Context, userID int64, months int) ([]models.ForecastPoint, error) {
	return s.generateForecasts(ctx, userID, months, models.TypeIncome, opIncomeForecast)
}

func (s *analyticsServiceImpl) GenerateExpenseForecasts(ctx context.Context, userID int64, months int) ([]models.ForecastPoint, error) {
	return s.generateForecasts(ctx, userID, months, models.TypeExpense, opExpenseForecast)
}

func (s *analyticsServiceImpl) generateForecasts(ctx context.Context, userID int64, months int, kind, operation string) ([]models.ForecastPoint, error) {
	if months <= 0 {
		return nil, ErrInvalidPeriods
	}
	txs, err := s.txStore.GetAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	key := s.cache.Key(operation, map[string]any{"user": userID, "months": months}, txs)
	value, err := s.cache.Memoize(key, func() (any, error) {
		return s.forecaster.Forecast(txs, months, kind, s.applyDefaults(analytics.ForecastOptions{})), nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.ForecastPoint), nil
}

func (s *analyticsServiceImpl) DetectSeasonalPatterns(ctx context.Context, userID int64) (models.SeasonalProfile, error) {
	txs, err := s.txStore.GetAll(ctx, userID)
	if err != nil {
		return models.NeutralSeasonalProfile(), fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	key := s.cache.Key(opSeasonalPatterns, map[string]any{"user": userID}, txs)
	value, err := s.cache.Memoize(key, func() (any, error) {
		expenses := analytics.FilterByType(txs, models.TypeExpense)
		return s.seasonal.Detect(s.aggregator.AggregateByMonth(expenses)), nil
	})
	if err != nil {
		return models.NeutralSeasonalProfile(), err
	}
	return value.(models.SeasonalProfile), nil
}

func (s *analyticsServiceImpl) IdentifyRecurringTransactions(ctx context.Context, userID int64) ([]models.RecurringPattern, error) {
	txs, err := s.txStore.GetAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
	}

	key := s.cache.Key(opRecurring, map[string]any{"user": userID}, txs)
	value, err := s.cache.Memoize(key, func() (any, error) {
		return s.recurring.Detect(txs), nil
	})
	if err != nil {
		return nil, err
	}
	return value.([]models.RecurringPattern), nil
}

func (s *analyticsServiceImpl) InvalidateCache(pattern string) {
	s.cache.Invalidate(pattern)
}

// InvalidateUserCache drops every memoized result for one user. Called
// after any transaction mutation.
func (s *analyticsServiceImpl) InvalidateUserCache(userID int64) {
	// Trailing separator so user 12 does not match user 123.
	s.cache.Invalidate(fmt.Sprintf("|user=%d|", userID))
	logger.L.Debug("User analytics cache invalidated", "userID", userID)
}

func (s *analyticsServiceImpl) ClearCache() {
	s.cache.Clear()
}

func (s *analyticsServiceImpl) GetCacheStats() models.CacheStats {
	return s.cache.Stats()
}

// applyDefaults fills the configured smoothing alpha and baseline into
// options the caller left zero.
func (s *analyticsServiceImpl) applyDefaults(opts analytics.ForecastOptions) analytics.ForecastOptions {
	if opts.Alpha == 0 {
		opts.Alpha = s.alpha
	}
	if opts.BaseAmount == 0 {
		opts.BaseAmount = s.baseline
	}
	return opts
}
