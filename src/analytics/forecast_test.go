// backend/src/analytics/forecast_test.go
package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/moneymap/backend/src/models"
)

// monthlyExpenses builds one uniquely-described expense per month so the
// recurring detector has nothing to latch onto.
func monthlyExpenses(amount float64, start time.Time, months int) []models.Transaction {
	txs := make([]models.Transaction, 0, months)
	for i := 0; i < months; i++ {
		when := start.AddDate(0, i, 0)
		txs = append(txs, models.Transaction{
			ID:          fmt.Sprintf("exp-%d", i),
			Amount:      amount,
			Type:        models.TypeExpense,
			Category:    "Groceries",
			Description: fmt.Sprintf("shop visit %d", i),
			Timestamp:   when.Format("2006-01-02"),
		})
	}
	return txs
}

func TestForecastGeneratorForecast(t *testing.T) {
	generator := NewForecastGenerator()
	start := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	reference := time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC)
	opts := ForecastOptions{ReferenceTime: reference}

	t.Run("zero periods yields empty series", func(t *testing.T) {
		points := generator.Forecast(monthlyExpenses(1000, start, 6), 0, models.TypeExpense, opts)
		assert.Empty(t, points)
	})

	t.Run("insufficient history yields one placeholder per period", func(t *testing.T) {
		txs := monthlyExpenses(1000, start, 2)
		withBase := opts
		withBase.BaseAmount = 500

		points := generator.Forecast(txs, 6, models.TypeExpense, withBase)
		require.Len(t, points, 6)

		for _, p := range points {
			assert.Equal(t, models.MethodInsufficientData, p.Method)
			assert.Equal(t, 500.0, p.PredictedAmount)
			assert.Equal(t, 500.0, p.ConfidenceInterval.Lower)
			assert.Equal(t, 500.0, p.ConfidenceInterval.Upper)
			assert.Equal(t, InsufficientDataConfidence, p.Confidence)
		}
	})

	t.Run("empty history yields placeholders too", func(t *testing.T) {
		points := generator.Forecast(nil, 3, models.TypeExpense, opts)
		require.Len(t, points, 3)
		assert.Equal(t, models.MethodInsufficientData, points[0].Method)
	})

	t.Run("steady history projects the smoothed level", func(t *testing.T) {
		txs := monthlyExpenses(1000, start, 6)

		points := generator.Forecast(txs, 4, models.TypeExpense, opts)
		require.Len(t, points, 4)

		for i, p := range points {
			assert.Equal(t, models.MethodExponentialSmoothing, p.Method)
			// Constant series: zero variance, neutral seasonal factor.
			assert.InDelta(t, 1000.0, p.PredictedAmount, 1e-9)
			assert.InDelta(t, 1000.0, p.ConfidenceInterval.Lower, 1e-9)
			assert.InDelta(t, 1000.0, p.ConfidenceInterval.Upper, 1e-9)

			wantPeriod := time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0)
			assert.Equal(t, wantPeriod, p.Period)
		}

		// Six of twelve months of history, decaying per period ahead.
		assert.InDelta(t, 0.5*0.95, points[0].Confidence, 1e-9)
		assert.InDelta(t, 0.5*0.90, points[1].Confidence, 1e-9)
	})

	t.Run("periods are chronological and intervals ordered", func(t *testing.T) {
		txs := monthlyExpenses(800, start, 6)
		// One off-pattern month so the variance, and with it the
		// interval width, is non-zero.
		txs = append(txs, models.Transaction{
			ID: "bonus", Amount: 400, Type: models.TypeExpense,
			Category: "Travel", Description: "flight", Timestamp: "2024-03-20",
		})

		points := generator.Forecast(txs, 6, models.TypeExpense, opts)
		require.Len(t, points, 6)

		for i, p := range points {
			assert.LessOrEqual(t, p.ConfidenceInterval.Lower, p.PredictedAmount)
			assert.GreaterOrEqual(t, p.ConfidenceInterval.Upper, p.PredictedAmount)
			assert.GreaterOrEqual(t, p.PredictedAmount, 0.0)
			if i > 0 {
				assert.True(t, points[i-1].Period.Before(p.Period))
				// Intervals widen with the horizon.
				prevWidth := points[i-1].ConfidenceInterval.Upper - points[i-1].ConfidenceInterval.Lower
				width := p.ConfidenceInterval.Upper - p.ConfidenceInterval.Lower
				assert.GreaterOrEqual(t, width, prevWidth)
			}
		}
	})

	t.Run("monthly subscription overlays the base", func(t *testing.T) {
		txs := txSeries("Netflix", 12.99, start, 30, 6)

		points := generator.Forecast(txs, 3, models.TypeExpense, opts)
		require.Len(t, points, 3)

		for _, p := range points {
			assert.Equal(t, models.MethodRecurring, p.Method)
			// Smoothed base plus the known subscription amount.
			assert.Greater(t, p.PredictedAmount, 12.99)
		}
	})

	t.Run("kind filter keeps income out of expense forecasts", func(t *testing.T) {
		txs := make([]models.Transaction, 0, 6)
		for i := 0; i < 6; i++ {
			when := start.AddDate(0, i, 0)
			txs = append(txs, models.Transaction{
				ID: fmt.Sprintf("sal-%d", i), Amount: 3000, Type: models.TypeIncome,
				Category: "Salary", Description: "salary", Timestamp: when.Format("2006-01-02"),
			})
		}

		expensePoints := generator.Forecast(txs, 3, models.TypeExpense, opts)
		require.Len(t, expensePoints, 3)
		assert.Equal(t, models.MethodInsufficientData, expensePoints[0].Method)

		incomePoints := generator.Forecast(txs, 3, models.TypeIncome, opts)
		require.Len(t, incomePoints, 3)
		assert.NotEqual(t, models.MethodInsufficientData, incomePoints[0].Method)
	})

	t.Run("deterministic for identical input", func(t *testing.T) {
		txs := monthlyExpenses(1000, start, 8)
		first := generator.Forecast(txs, 5, models.TypeExpense, opts)
		second := generator.Forecast(txs, 5, models.TypeExpense, opts)
		assert.Equal(t, first, second)
	})

	t.Run("invalid alpha falls back to default", func(t *testing.T) {
		txs := monthlyExpenses(1000, start, 6)
		badAlpha := opts
		badAlpha.Alpha = 5.0

		points := generator.Forecast(txs, 2, models.TypeExpense, badAlpha)
		require.Len(t, points, 2)
		assert.InDelta(t, 1000.0, points[0].PredictedAmount, 1e-9)
	})
}

func TestSmoothSeries(t *testing.T) {
	assert.Zero(t, smoothSeries(nil, 0.3))
	assert.Equal(t, 100.0, smoothSeries([]float64{100}, 0.3))

	// s1 = 100; s2 = 0.3*200 + 0.7*100 = 130; s3 = 0.3*300 + 0.7*130 = 181.
	assert.InDelta(t, 181.0, smoothSeries([]float64{100, 200, 300}, 0.3), 1e-9)
}
