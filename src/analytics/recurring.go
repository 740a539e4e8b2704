// backend/src/analytics/recurring.go
package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/username/moneymap/backend/src/models"
)

// Recurring detection policy.
const (
	// MinRecurringOccurrences is the smallest group that can form a pattern.
	MinRecurringOccurrences = 3

	// IntervalTolerance is the maximum stddev-to-mean ratio of the
	// inter-arrival intervals; noisier groups are discarded outright.
	IntervalTolerance = 0.3

	// OccurrencesForFullConfidence caps the confidence ramp: confidence
	// is min(1, occurrences/6).
	OccurrencesForFullConfidence = 6

	// AmountRoundingStep groups nearby amounts under one fuzzy key.
	AmountRoundingStep = 10.0
)

// Interval bands (in days) for frequency classification.
const (
	weeklyMinDays   = 6
	weeklyMaxDays   = 8
	biweeklyMinDays = 13
	biweeklyMaxDays = 15
	monthlyMinDays  = 25
	monthlyMaxDays  = 35
)

// RecurringDetector finds transactions that repeat at regular intervals,
// grouping them by a fuzzy (description, rounded-amount) key.
type RecurringDetector struct{}

func NewRecurringDetector() *RecurringDetector { return &RecurringDetector{} }

type occurrence struct {
	amount float64
	when   time.Time
}

// Detect groups transactions by fuzzy key and returns every group of at
// least MinRecurringOccurrences whose intervals are regular enough.
// Groups whose mean interval falls outside the known bands are still
// reported with frequency "irregular" so they can be inspected, but
// callers must not overlay them onto forecasts.
func (d *RecurringDetector) Detect(txs []models.Transaction) []models.RecurringPattern {
	groups := make(map[string][]occurrence)
	labels := make(map[string]string)

	for _, tx := range txs {
		if !tx.Valid() {
			continue
		}
		ts, _ := tx.ParseTimestamp()
		key := fuzzyKey(tx)
		groups[key] = append(groups[key], occurrence{amount: abs(tx.Amount), when: ts})
		if _, ok := labels[key]; !ok {
			labels[key] = displayLabel(tx)
		}
	}

	var patterns []models.RecurringPattern
	for key, occurrences := range groups {
		if len(occurrences) < MinRecurringOccurrences {
			continue
		}

		sort.Slice(occurrences, func(i, j int) bool {
			return occurrences[i].when.Before(occurrences[j].when)
		})

		intervals := make([]float64, 0, len(occurrences)-1)
		for i := 1; i < len(occurrences); i++ {
			days := occurrences[i].when.Sub(occurrences[i-1].when).Hours() / 24
			intervals = append(intervals, days)
		}

		meanInterval := mean(intervals)
		if meanInterval <= 0 {
			continue
		}
		if stddev(intervals, meanInterval) >= IntervalTolerance*meanInterval {
			continue
		}

		var amountSum float64
		for _, o := range occurrences {
			amountSum += o.amount
		}

		patterns = append(patterns, models.RecurringPattern{
			Key:            key,
			Description:    labels[key],
			AverageAmount:  amountSum / float64(len(occurrences)),
			Frequency:      classifyFrequency(meanInterval),
			Confidence:     math.Min(1, float64(len(occurrences))/OccurrencesForFullConfidence),
			IntervalDays:   meanInterval,
			Occurrences:    len(occurrences),
			LastOccurrence: occurrences[len(occurrences)-1].when,
		})
	}

	// Deterministic output ordering: confidence desc, then key.
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Confidence != patterns[j].Confidence {
			return patterns[i].Confidence > patterns[j].Confidence
		}
		return patterns[i].Key < patterns[j].Key
	})
	return patterns
}

// fuzzyKey builds the grouping key: normalized description (falling back
// to category) plus the amount rounded to the nearest step, so "Netflix
// -12.99" and "Netflix -13.49" land in the same group.
func fuzzyKey(tx models.Transaction) string {
	name := tx.Description
	if name == "" {
		name = tx.Category
	}
	if name == "" {
		name = UncategorizedBucket
	}
	rounded := math.Round(abs(tx.Amount)/AmountRoundingStep) * AmountRoundingStep
	return fmt.Sprintf("%s-%.0f", strings.ToLower(strings.TrimSpace(name)), rounded)
}

func displayLabel(tx models.Transaction) string {
	if tx.Description != "" {
		return tx.Description
	}
	if tx.Category != "" {
		return tx.Category
	}
	return UncategorizedBucket
}

func classifyFrequency(meanIntervalDays float64) string {
	switch {
	case meanIntervalDays >= weeklyMinDays && meanIntervalDays <= weeklyMaxDays:
		return models.FrequencyWeekly
	case meanIntervalDays >= biweeklyMinDays && meanIntervalDays <= biweeklyMaxDays:
		return models.FrequencyBiweekly
	case meanIntervalDays >= monthlyMinDays && meanIntervalDays <= monthlyMaxDays:
		return models.FrequencyMonthly
	default:
		return models.FrequencyIrregular
	}
}
