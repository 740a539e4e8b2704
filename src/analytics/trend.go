// backend/src/analytics/trend.go
package analytics

import (
	"github.com/username/moneymap/backend/src/models"
)

// Trend classification thresholds. Empirical policy values, not derived;
// kept as named constants so a product decision can change them in one place.
const (
	// SlopeStableThreshold is the minimum absolute slope (currency units
	// per month) before a trend is called increasing or decreasing.
	SlopeStableThreshold = 10.0

	// R² cutoffs for the qualitative confidence label.
	RSquaredHighThreshold   = 0.7
	RSquaredMediumThreshold = 0.4
)

// TrendEstimator fits an ordinary least-squares line over monthly totals.
type TrendEstimator struct{}

func NewTrendEstimator() *TrendEstimator { return &TrendEstimator{} }

// Fit computes slope, intercept and R² treating the bucket index
// (0, 1, 2, ...) as the independent variable and TotalAmount as the
// dependent one. Fewer than two buckets yields a degenerate stable
// model rather than an error.
func (e *TrendEstimator) Fit(buckets []models.MonthlyBucket) models.TrendModel {
	if len(buckets) < 2 {
		intercept := 0.0
		if len(buckets) == 1 {
			intercept = buckets[0].TotalAmount
		}
		return models.TrendModel{
			Slope:           0,
			Intercept:       intercept,
			RSquared:        0,
			Direction:       models.TrendStable,
			ConfidenceLabel: models.ConfidenceLow,
		}
	}

	n := float64(len(buckets))
	var sumX, sumY, sumXY, sumX2 float64
	for i, b := range buckets {
		x := float64(i)
		y := b.TotalAmount
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	denom := n*sumX2 - sumX*sumX
	if denom == 0 {
		// All x identical; unreachable with index-based x but guarded anyway.
		return models.TrendModel{
			Slope:           0,
			Intercept:       sumY / n,
			RSquared:        0,
			Direction:       models.TrendStable,
			ConfidenceLabel: models.ConfidenceLow,
		}
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n

	meanY := sumY / n
	var ssRes, ssTot float64
	for i, b := range buckets {
		predicted := slope*float64(i) + intercept
		ssRes += (b.TotalAmount - predicted) * (b.TotalAmount - predicted)
		ssTot += (b.TotalAmount - meanY) * (b.TotalAmount - meanY)
	}

	rSquared := 1.0
	if ssTot > 0 {
		rSquared = 1 - ssRes/ssTot
	}
	if rSquared < 0 {
		rSquared = 0
	} else if rSquared > 1 {
		rSquared = 1
	}

	return models.TrendModel{
		Slope:           slope,
		Intercept:       intercept,
		RSquared:        rSquared,
		Direction:       classifyDirection(slope),
		ConfidenceLabel: classifyConfidence(rSquared),
	}
}

func classifyDirection(slope float64) string {
	switch {
	case slope > SlopeStableThreshold:
		return models.TrendIncreasing
	case slope < -SlopeStableThreshold:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

func classifyConfidence(rSquared float64) string {
	switch {
	case rSquared > RSquaredHighThreshold:
		return models.ConfidenceHigh
	case rSquared > RSquaredMediumThreshold:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}
