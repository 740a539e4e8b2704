// backend/src/analytics/aggregator.go
package analytics

import (
	"sort"

	"github.com/username/moneymap/backend/src/logger"
	"github.com/username/moneymap/backend/src/models"
)

// UncategorizedBucket is where transactions without a category land.
const UncategorizedBucket = "Uncategorized"

// Aggregator groups raw transactions into calendar-month buckets.
// It is a pure transformation: no state, input slices are never mutated.
type Aggregator struct{}

func NewAggregator() *Aggregator { return &Aggregator{} }

// AggregateByMonth groups transactions by calendar month and returns
// buckets sorted ascending by (year, month). Records with a non-finite
// amount or an unparsable timestamp are skipped with a warning, never
// treated as fatal. An empty result means "insufficient data", not an
// error.
func (a *Aggregator) AggregateByMonth(txs []models.Transaction) []models.MonthlyBucket {
	type monthKey struct {
		year  int
		month int
	}
	buckets := make(map[monthKey]*models.MonthlyBucket)

	skipped := 0
	for _, tx := range txs {
		if !tx.Valid() {
			skipped++
			continue
		}
		ts, _ := tx.ParseTimestamp()
		key := monthKey{year: ts.Year(), month: int(ts.Month())}

		bucket, ok := buckets[key]
		if !ok {
			bucket = &models.MonthlyBucket{
				Year:              key.year,
				Month:             ts.Month(),
				CategoryBreakdown: make(map[string]models.CategoryAmount),
			}
			buckets[key] = bucket
		}

		amount := abs(tx.Amount)
		bucket.TotalAmount += amount
		bucket.TransactionCount++

		category := tx.Category
		if category == "" {
			category = UncategorizedBucket
		}
		entry := bucket.CategoryBreakdown[category]
		entry.Amount += amount
		bucket.CategoryBreakdown[category] = entry
	}

	if skipped > 0 {
		logger.L.Warn("Skipped malformed transactions during aggregation", "skipped", skipped, "total", len(txs))
	}

	result := make([]models.MonthlyBucket, 0, len(buckets))
	for _, bucket := range buckets {
		// Percentages are derived once the month total is final.
		for category, entry := range bucket.CategoryBreakdown {
			if bucket.TotalAmount > 0 {
				entry.PercentageOfMonth = (entry.Amount / bucket.TotalAmount) * 100
			}
			bucket.CategoryBreakdown[category] = entry
		}
		result = append(result, *bucket)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Year != result[j].Year {
			return result[i].Year < result[j].Year
		}
		return result[i].Month < result[j].Month
	})
	return result
}

// FilterByType returns the transactions of the given kind ("income" or
// "expense"). The input slice is left untouched.
func FilterByType(txs []models.Transaction, txType string) []models.Transaction {
	var filtered []models.Transaction
	for _, tx := range txs {
		if tx.Type == txType {
			filtered = append(filtered, tx)
		}
	}
	return filtered
}
