package models

import "time"

// CategoryAmount is one category's slice of a monthly bucket.
type CategoryAmount struct {
	Amount            float64 `json:"amount"`
	PercentageOfMonth float64 `json:"percentage_of_month"`
}

// MonthlyBucket aggregates one calendar month of transactions.
// Buckets are derived values, recomputed on every aggregation call.
type MonthlyBucket struct {
	Year              int                       `json:"year"`
	Month             time.Month                `json:"month"` // 1..12
	TotalAmount       float64                   `json:"total_amount"`
	TransactionCount  int                       `json:"transaction_count"`
	CategoryBreakdown map[string]CategoryAmount `json:"category_breakdown"`
}

// Trend directions.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Confidence labels shared by trend and category results.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// TrendModel is the result of an ordinary least-squares fit over a
// monthly bucket sequence. Immutable once returned.
type TrendModel struct {
	Slope           float64 `json:"slope"`
	Intercept       float64 `json:"intercept"`
	RSquared        float64 `json:"r_squared"` // 0..1
	Direction       string  `json:"direction"`
	ConfidenceLabel string  `json:"confidence_label"`
}

// SeasonalProfile holds per-calendar-month spending multipliers
// relative to the yearly mean. Multipliers are clamped to [0.5, 2.0]
// and default to all-1.0 when there is not enough history.
type SeasonalProfile struct {
	MultiplierByMonth [12]float64 `json:"multiplier_by_month"` // index 0 = January
	HasPatterns       bool        `json:"has_patterns"`
}

// NeutralSeasonalProfile returns the all-1.0 profile used when fewer
// than twelve monthly data points exist.
func NeutralSeasonalProfile() SeasonalProfile {
	p := SeasonalProfile{}
	for i := range p.MultiplierByMonth {
		p.MultiplierByMonth[i] = 1.0
	}
	return p
}

// FactorFor returns the multiplier for a calendar month.
func (p SeasonalProfile) FactorFor(m time.Month) float64 {
	return p.MultiplierByMonth[int(m)-1]
}

// Recurring pattern frequencies.
const (
	FrequencyWeekly    = "weekly"
	FrequencyBiweekly  = "biweekly"
	FrequencyMonthly   = "monthly"
	FrequencyIrregular = "irregular"
)

// RecurringPattern describes a group of transactions judged to repeat
// at a regular interval.
type RecurringPattern struct {
	Key            string    `json:"key"`
	Description    string    `json:"description"`
	AverageAmount  float64   `json:"average_amount"`
	Frequency      string    `json:"frequency"`
	Confidence     float64   `json:"confidence"` // 0..1
	IntervalDays   float64   `json:"interval_days"`
	Occurrences    int       `json:"occurrences"`
	LastOccurrence time.Time `json:"last_occurrence"`
}

// Forecast methods.
const (
	MethodRecurring            = "recurring"
	MethodExponentialSmoothing = "exponential_smoothing"
	MethodInsufficientData     = "insufficient_data"
)

// ConfidenceInterval bounds a point forecast.
type ConfidenceInterval struct {
	Lower float64 `json:"lower"` // >= 0
	Upper float64 `json:"upper"`
}

// ForecastPoint is one projected period. Points are emitted in
// chronological ascending order, one per forecasted month.
type ForecastPoint struct {
	Period             time.Time          `json:"period"` // first of month
	PredictedAmount    float64            `json:"predicted_amount"` // >= 0
	ConfidenceInterval ConfidenceInterval `json:"confidence_interval"`
	Confidence         float64            `json:"confidence"` // 0..1
	Method             string             `json:"method"`
	SeasonalFactor     float64            `json:"seasonal_factor"`
}

// CategoryPattern summarizes one category's monthly history, input to
// the category predictor.
type CategoryPattern struct {
	Category       string    `json:"category"`
	MonthlyAmounts []float64 `json:"monthly_amounts"`
	AverageAmount  float64   `json:"average_amount"`
	Percentage     float64   `json:"percentage"` // share of overall spending
}

// CategoryForecast extrapolates a total forecast into one category's share.
type CategoryForecast struct {
	Category            string  `json:"category"`
	PredictedAmount     float64 `json:"predicted_amount"`
	PredictedPercentage float64 `json:"predicted_percentage"`
	Trend               string  `json:"trend"`
	Confidence          string  `json:"confidence"`
}

// HistoricalAnalysis is the full result of analyzing past spending.
type HistoricalAnalysis struct {
	HasEnoughData          bool              `json:"has_enough_data"`
	MonthsAnalyzed         int               `json:"months_analyzed"`
	MonthlySpending        []MonthlyBucket   `json:"monthly_spending"`
	Trend                  TrendModel        `json:"trend"`
	SeasonalPatterns       SeasonalProfile   `json:"seasonal_patterns"`
	CategoryPatterns       []CategoryPattern `json:"category_patterns"`
	Volatility             float64           `json:"volatility"`
	AverageMonthlySpending float64           `json:"average_monthly_spending"`
}

// PredictionResult is the outcome of a future-spending prediction,
// including the per-category breakdown of the first projected period.
type PredictionResult struct {
	Predictions       []ForecastPoint    `json:"predictions"`
	CategoryForecasts []CategoryForecast `json:"category_forecasts"`
	Confidence        float64            `json:"confidence"`
	HasEnoughData     bool               `json:"has_enough_data"`
}

// CacheStats reports the state of the analytics cache.
type CacheStats struct {
	Entries     int    `json:"entries"`
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	DataVersion uint64 `json:"data_version"`
}
