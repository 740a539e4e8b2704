// backend/src/analytics/category_test.go
package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/moneymap/backend/src/models"
)

// bucketsWithCategories builds sequential monthly buckets from a series
// of per-category amounts, one map per month.
func bucketsWithCategories(months []map[string]float64) []models.MonthlyBucket {
	buckets := make([]models.MonthlyBucket, 0, len(months))
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i, categories := range months {
		month := start.AddDate(0, i, 0)
		bucket := models.MonthlyBucket{
			Year:              month.Year(),
			Month:             month.Month(),
			CategoryBreakdown: make(map[string]models.CategoryAmount),
		}
		for category, amount := range categories {
			bucket.CategoryBreakdown[category] = models.CategoryAmount{Amount: amount}
			bucket.TotalAmount += amount
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

func TestBuildCategoryPatterns(t *testing.T) {
	t.Run("empty input yields empty patterns", func(t *testing.T) {
		assert.Empty(t, BuildCategoryPatterns(nil))
	})

	t.Run("patterns carry averages and overall shares", func(t *testing.T) {
		buckets := bucketsWithCategories([]map[string]float64{
			{"Rent": 500, "Food": 100},
			{"Rent": 500, "Food": 300},
		})

		patterns := BuildCategoryPatterns(buckets)
		require.Len(t, patterns, 2)

		// Sorted descending by average amount.
		assert.Equal(t, "Rent", patterns[0].Category)
		assert.Equal(t, 500.0, patterns[0].AverageAmount)
		assert.InDelta(t, 1000.0/1400.0*100, patterns[0].Percentage, 1e-9)

		assert.Equal(t, "Food", patterns[1].Category)
		assert.Equal(t, 200.0, patterns[1].AverageAmount)
		assert.Equal(t, []float64{100, 300}, patterns[1].MonthlyAmounts)
	})
}

func TestCategoryPredictorPredictCategories(t *testing.T) {
	predictor := NewCategoryPredictor()

	t.Run("no patterns or non-positive total yields empty forecast", func(t *testing.T) {
		assert.Empty(t, predictor.PredictCategories(nil, 1000))

		patterns := BuildCategoryPatterns(bucketsWithCategories([]map[string]float64{{"Food": 100}}))
		assert.Empty(t, predictor.PredictCategories(patterns, 0))
	})

	t.Run("shares sum to the predicted total", func(t *testing.T) {
		buckets := bucketsWithCategories([]map[string]float64{
			{"Rent": 500, "Food": 100, "Travel": 50},
			{"Rent": 500, "Food": 120, "Travel": 80},
			{"Rent": 500, "Food": 140, "Travel": 20},
		})
		patterns := BuildCategoryPatterns(buckets)

		forecasts := predictor.PredictCategories(patterns, 1000)
		require.Len(t, forecasts, 3)

		var amountSum, percentSum float64
		for _, f := range forecasts {
			amountSum += f.PredictedAmount
			percentSum += f.PredictedPercentage
		}
		assert.InDelta(t, 1000.0, amountSum, 1e-9)
		assert.InDelta(t, 100.0, percentSum, 1e-9)

		// Sorted descending by predicted amount.
		assert.Equal(t, "Rent", forecasts[0].Category)
	})

	t.Run("growing category is adjusted upward", func(t *testing.T) {
		buckets := bucketsWithCategories([]map[string]float64{
			{"Food": 100, "Rent": 500},
			{"Food": 100, "Rent": 500},
			{"Food": 200, "Rent": 500},
			{"Food": 200, "Rent": 500},
		})
		patterns := BuildCategoryPatterns(buckets)

		forecasts := predictor.PredictCategories(patterns, 1000)
		require.Len(t, forecasts, 2)

		var food, rent models.CategoryForecast
		for _, f := range forecasts {
			switch f.Category {
			case "Food":
				food = f
			case "Rent":
				rent = f
			}
		}

		assert.Equal(t, models.TrendIncreasing, food.Trend)
		assert.Equal(t, models.TrendStable, rent.Trend)

		// Food's recent half doubled, so its adjusted share
		// (150 * 1.1 = 165 of 665) beats its raw average share.
		assert.InDelta(t, 165.0/665.0*1000, food.PredictedAmount, 1e-9)
		assert.InDelta(t, 500.0/665.0*1000, rent.PredictedAmount, 1e-9)
	})

	t.Run("shrinking category is adjusted downward", func(t *testing.T) {
		buckets := bucketsWithCategories([]map[string]float64{
			{"Subscriptions": 200},
			{"Subscriptions": 200},
			{"Subscriptions": 100},
			{"Subscriptions": 100},
		})
		patterns := BuildCategoryPatterns(buckets)

		forecasts := predictor.PredictCategories(patterns, 500)
		require.Len(t, forecasts, 1)
		assert.Equal(t, models.TrendDecreasing, forecasts[0].Trend)
		// Sole category still absorbs the whole total after renormalization.
		assert.InDelta(t, 500.0, forecasts[0].PredictedAmount, 1e-9)
	})

	t.Run("confidence labels follow series stability", func(t *testing.T) {
		buckets := bucketsWithCategories([]map[string]float64{
			{"Rent": 500, "Food": 100, "Hobby": 10},
			{"Rent": 500, "Food": 160, "Hobby": 300},
			{"Rent": 500, "Food": 130, "Hobby": 20},
			{"Rent": 500, "Food": 110, "Hobby": 250},
		})
		patterns := BuildCategoryPatterns(buckets)

		forecasts := predictor.PredictCategories(patterns, 1000)
		labels := make(map[string]string)
		for _, f := range forecasts {
			labels[f.Category] = f.Confidence
		}

		assert.Equal(t, models.ConfidenceHigh, labels["Rent"])
		assert.Equal(t, models.ConfidenceLow, labels["Hobby"])
	})
}

func TestSplitHalfTrend(t *testing.T) {
	assert.Equal(t, models.TrendStable, splitHalfTrend([]float64{100}))
	assert.Equal(t, models.TrendIncreasing, splitHalfTrend([]float64{100, 100, 200, 200}))
	assert.Equal(t, models.TrendDecreasing, splitHalfTrend([]float64{200, 200, 100, 100}))
	assert.Equal(t, models.TrendStable, splitHalfTrend([]float64{100, 100, 105, 105}))
	// Odd length: older half is the shorter one.
	assert.Equal(t, models.TrendIncreasing, splitHalfTrend([]float64{100, 200, 200}))
}
