// backend/src/analytics/forecast.go
package analytics

import (
	"math"
	"time"

	"github.com/username/moneymap/backend/src/logger"
	"github.com/username/moneymap/backend/src/models"
)

// Forecast policy constants. The z-score and the horizon corrections are
// policy, not derived from a formal model: the interval widens with the
// horizon and the confidence score decays with it.
const (
	// DefaultSmoothingAlpha blends each raw value with the previous
	// smoothed value during single exponential smoothing.
	DefaultSmoothingAlpha = 0.3

	// MinForecastMonths is the history needed before a real projection
	// is attempted; below it the forecast degrades gracefully.
	MinForecastMonths = 3

	// MonthsForFullConfidence caps the data-volume confidence ramp.
	MonthsForFullConfidence = 12

	// ForecastZScore is the 95% two-sided z value for the interval.
	ForecastZScore = 1.96

	// HorizonVarianceGrowth widens the interval per period ahead.
	HorizonVarianceGrowth = 0.1

	// HorizonConfidenceDecay lowers the confidence score per period ahead.
	HorizonConfidenceDecay = 0.05

	// InsufficientDataConfidence is the flat score on degenerate series.
	InsufficientDataConfidence = 0.1

	// RecurringOverlayMinConfidence gates which monthly patterns are
	// added on top of the smoothed base.
	RecurringOverlayMinConfidence = 0.5
)

// ForecastOptions configures a forecast run. The zero value is valid:
// every field has a documented default applied by normalize.
type ForecastOptions struct {
	// Alpha is the exponential smoothing factor; (0, 1]. Default 0.3.
	Alpha float64
	// BaseAmount is the flat amount used for every point of an
	// insufficient-data forecast. Default 0.
	BaseAmount float64
	// ReferenceTime anchors the first forecast period (the month after
	// it). Defaults to time.Now.
	ReferenceTime time.Time
}

func (o ForecastOptions) normalize() ForecastOptions {
	if o.Alpha <= 0 || o.Alpha > 1 {
		o.Alpha = DefaultSmoothingAlpha
	}
	if o.BaseAmount < 0 {
		o.BaseAmount = 0
	}
	if o.ReferenceTime.IsZero() {
		o.ReferenceTime = time.Now()
	}
	return o
}

// ForecastGenerator projects future monthly totals by combining
// exponential smoothing, the seasonal profile and the recurring-payment
// overlay.
type ForecastGenerator struct {
	aggregator *Aggregator
	seasonal   *SeasonalAnalyzer
	recurring  *RecurringDetector
}

func NewForecastGenerator() *ForecastGenerator {
	return &ForecastGenerator{
		aggregator: NewAggregator(),
		seasonal:   NewSeasonalAnalyzer(),
		recurring:  NewRecurringDetector(),
	}
}

// Forecast projects periodsAhead monthly points for the given
// transaction kind ("income" or "expense"). It always returns exactly
// periodsAhead points in chronological order; with fewer than
// MinForecastMonths months of history every point is a labeled
// insufficient-data placeholder rather than an error.
func (g *ForecastGenerator) Forecast(txs []models.Transaction, periodsAhead int, kind string, opts ForecastOptions) []models.ForecastPoint {
	if periodsAhead <= 0 {
		return []models.ForecastPoint{}
	}
	opts = opts.normalize()

	filtered := FilterByType(txs, kind)
	buckets := g.aggregator.AggregateByMonth(filtered)

	if len(buckets) < MinForecastMonths {
		logger.L.Info("Insufficient history for forecast, returning degenerate series",
			"kind", kind, "months", len(buckets), "required", MinForecastMonths)
		return g.insufficientDataSeries(periodsAhead, opts)
	}

	totals := make([]float64, len(buckets))
	for i, b := range buckets {
		totals[i] = b.TotalAmount
	}

	base := smoothSeries(totals, opts.Alpha)
	variance := sampleVariance(totals)
	profile := g.seasonal.Detect(buckets)

	// Monthly recurring payments with enough confidence are a known
	// fixed amount on top of the smoothed base.
	var recurringOverlay float64
	for _, p := range g.recurring.Detect(filtered) {
		if p.Frequency == models.FrequencyMonthly && p.Confidence > RecurringOverlayMinConfidence {
			recurringOverlay += p.AverageAmount
		}
	}

	method := models.MethodExponentialSmoothing
	if recurringOverlay > 0 {
		method = models.MethodRecurring
	}

	dataRatio := math.Min(1, float64(len(buckets))/MonthsForFullConfidence)

	points := make([]models.ForecastPoint, 0, periodsAhead)
	for horizon := 1; horizon <= periodsAhead; horizon++ {
		period := firstOfMonth(opts.ReferenceTime).AddDate(0, horizon, 0)
		factor := profile.FactorFor(period.Month())

		predicted := base*factor + recurringOverlay
		if predicted < 0 {
			predicted = 0
		}

		margin := ForecastZScore * math.Sqrt(variance*(1+float64(horizon)*HorizonVarianceGrowth))
		lower := predicted - margin
		if lower < 0 {
			lower = 0
		}

		confidence := dataRatio * math.Max(0, 1-float64(horizon)*HorizonConfidenceDecay)

		points = append(points, models.ForecastPoint{
			Period:          period,
			PredictedAmount: predicted,
			ConfidenceInterval: models.ConfidenceInterval{
				Lower: lower,
				Upper: predicted + margin,
			},
			Confidence:     confidence,
			Method:         method,
			SeasonalFactor: factor,
		})
	}
	return points
}

// insufficientDataSeries still hands back one point per requested
// period; callers rely on the series always having periodsAhead entries.
func (g *ForecastGenerator) insufficientDataSeries(periodsAhead int, opts ForecastOptions) []models.ForecastPoint {
	points := make([]models.ForecastPoint, 0, periodsAhead)
	for horizon := 1; horizon <= periodsAhead; horizon++ {
		period := firstOfMonth(opts.ReferenceTime).AddDate(0, horizon, 0)
		points = append(points, models.ForecastPoint{
			Period:          period,
			PredictedAmount: opts.BaseAmount,
			ConfidenceInterval: models.ConfidenceInterval{
				Lower: opts.BaseAmount,
				Upper: opts.BaseAmount,
			},
			Confidence:     InsufficientDataConfidence,
			Method:         models.MethodInsufficientData,
			SeasonalFactor: 1.0,
		})
	}
	return points
}

// smoothSeries applies single exponential smoothing and returns the
// final smoothed value, the trend-adjusted base for projection.
func smoothSeries(values []float64, alpha float64) float64 {
	if len(values) == 0 {
		return 0
	}
	smoothed := values[0]
	for _, v := range values[1:] {
		smoothed = alpha*v + (1-alpha)*smoothed
	}
	return smoothed
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
