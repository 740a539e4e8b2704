// backend/src/analytics/category.go
package analytics

import (
	"math"
	"sort"

	"github.com/username/moneymap/backend/src/models"
)

// Category prediction policy.
const (
	// MinCategoryDataPoints is the history needed before the split-half
	// trend test is applied to a category.
	MinCategoryDataPoints = 2

	// SplitHalfAdjustment is the adjustment applied when a category's
	// recent half diverges from its older half by more than
	// SplitHalfDivergence.
	SplitHalfAdjustment = 0.10
	SplitHalfDivergence = 0.10

	// Coefficient-of-variation cutoffs for the confidence label.
	CategoryCVHighThreshold   = 0.3
	CategoryCVMediumThreshold = 0.6
)

// CategoryPredictor extrapolates a total forecast into per-category
// shares using each category's own history.
type CategoryPredictor struct{}

func NewCategoryPredictor() *CategoryPredictor { return &CategoryPredictor{} }

// BuildCategoryPatterns condenses monthly buckets into one pattern per
// category: the category's amount in each month it appears, its average
// and its share of overall spending.
func BuildCategoryPatterns(buckets []models.MonthlyBucket) []models.CategoryPattern {
	amounts := make(map[string][]float64)
	totals := make(map[string]float64)
	var overall float64

	for _, b := range buckets {
		for category, entry := range b.CategoryBreakdown {
			amounts[category] = append(amounts[category], entry.Amount)
			totals[category] += entry.Amount
			overall += entry.Amount
		}
	}

	patterns := make([]models.CategoryPattern, 0, len(amounts))
	for category, series := range amounts {
		pattern := models.CategoryPattern{
			Category:       category,
			MonthlyAmounts: series,
			AverageAmount:  totals[category] / float64(len(series)),
		}
		if overall > 0 {
			pattern.Percentage = (totals[category] / overall) * 100
		}
		patterns = append(patterns, pattern)
	}

	sort.Slice(patterns, func(i, j int) bool {
		return patterns[i].AverageAmount > patterns[j].AverageAmount
	})
	return patterns
}

// PredictCategories splits totalPredictedAmount across categories. Each
// category with enough history gets a ±10% adjustment from the
// split-half trend test, then every share is renormalized so the parts
// sum to the predicted total. Results are sorted descending by amount.
func (p *CategoryPredictor) PredictCategories(patterns []models.CategoryPattern, totalPredictedAmount float64) []models.CategoryForecast {
	if len(patterns) == 0 || totalPredictedAmount <= 0 {
		return []models.CategoryForecast{}
	}

	type adjusted struct {
		pattern models.CategoryPattern
		amount  float64
		trend   string
	}

	var adjustedTotal float64
	entries := make([]adjusted, 0, len(patterns))
	for _, pattern := range patterns {
		amount := pattern.AverageAmount
		trend := models.TrendStable
		if len(pattern.MonthlyAmounts) >= MinCategoryDataPoints {
			trend = splitHalfTrend(pattern.MonthlyAmounts)
			switch trend {
			case models.TrendIncreasing:
				amount *= 1 + SplitHalfAdjustment
			case models.TrendDecreasing:
				amount *= 1 - SplitHalfAdjustment
			}
		}
		entries = append(entries, adjusted{pattern: pattern, amount: amount, trend: trend})
		adjustedTotal += amount
	}

	if adjustedTotal <= 0 {
		return []models.CategoryForecast{}
	}

	forecasts := make([]models.CategoryForecast, 0, len(entries))
	for _, e := range entries {
		share := e.amount / adjustedTotal
		forecasts = append(forecasts, models.CategoryForecast{
			Category:            e.pattern.Category,
			PredictedAmount:     share * totalPredictedAmount,
			PredictedPercentage: share * 100,
			Trend:               e.trend,
			Confidence:          categoryConfidence(e.pattern.MonthlyAmounts),
		})
	}

	sort.Slice(forecasts, func(i, j int) bool {
		return forecasts[i].PredictedAmount > forecasts[j].PredictedAmount
	})
	return forecasts
}

// splitHalfTrend compares the average of the older half of the series
// against the recent half. A simple test, but cheap and explainable.
func splitHalfTrend(series []float64) string {
	half := len(series) / 2
	if half == 0 {
		return models.TrendStable
	}
	firstAvg := mean(series[:half])
	secondAvg := mean(series[half:])
	if firstAvg <= 0 {
		return models.TrendStable
	}
	switch {
	case secondAvg > firstAvg*(1+SplitHalfDivergence):
		return models.TrendIncreasing
	case secondAvg < firstAvg*(1-SplitHalfDivergence):
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

// categoryConfidence labels a category by the spread of its history:
// the noisier the series relative to its mean, the lower the label.
func categoryConfidence(series []float64) string {
	m := mean(series)
	if m <= 0 || len(series) < MinCategoryDataPoints {
		return models.ConfidenceLow
	}
	cv := math.Sqrt(sampleVariance(series)) / m
	switch {
	case cv < CategoryCVHighThreshold:
		return models.ConfidenceHigh
	case cv < CategoryCVMediumThreshold:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
