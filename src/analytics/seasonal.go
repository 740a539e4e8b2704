// backend/src/analytics/seasonal.go
package analytics

import (
	"github.com/username/moneymap/backend/src/models"
)

// Seasonal multiplier policy. The clamp keeps a single outlier month
// (one huge December purchase) from destabilizing every forecast that
// uses the profile.
const (
	// MinSeasonalDataPoints is the monthly coverage required before
	// non-trivial multipliers are produced.
	MinSeasonalDataPoints = 12

	SeasonalMultiplierMin = 0.5
	SeasonalMultiplierMax = 2.0
)

// SeasonalAnalyzer derives per-calendar-month spending multipliers
// relative to the yearly mean.
type SeasonalAnalyzer struct{}

func NewSeasonalAnalyzer() *SeasonalAnalyzer { return &SeasonalAnalyzer{} }

// Detect computes the seasonal profile from monthly buckets. With fewer
// than MinSeasonalDataPoints buckets it returns the neutral all-1.0
// profile with HasPatterns false, so callers can always multiply by a
// factor without nil checks.
func (s *SeasonalAnalyzer) Detect(buckets []models.MonthlyBucket) models.SeasonalProfile {
	if len(buckets) < MinSeasonalDataPoints {
		return models.NeutralSeasonalProfile()
	}

	var totalSum float64
	monthSums := [12]float64{}
	monthCounts := [12]int{}
	for _, b := range buckets {
		idx := int(b.Month) - 1
		monthSums[idx] += b.TotalAmount
		monthCounts[idx]++
		totalSum += b.TotalAmount
	}

	overallAverage := totalSum / float64(len(buckets))
	if overallAverage <= 0 {
		return models.NeutralSeasonalProfile()
	}

	profile := models.SeasonalProfile{HasPatterns: true}
	for i := 0; i < 12; i++ {
		if monthCounts[i] == 0 {
			profile.MultiplierByMonth[i] = 1.0
			continue
		}
		monthAverage := monthSums[i] / float64(monthCounts[i])
		profile.MultiplierByMonth[i] = clamp(monthAverage/overallAverage, SeasonalMultiplierMin, SeasonalMultiplierMax)
	}
	return profile
}
