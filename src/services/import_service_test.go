// backend/src/services/import_service_test.go
package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/moneymap/backend/src/analytics"
	"github.com/username/moneymap/backend/src/store"
)

func newImportFixture(t *testing.T) (ImportService, *store.MemoryStore, *analytics.Cache) {
	t.Helper()
	txStore := store.NewMemoryStore()
	cache := analytics.NewCache(5*time.Minute, 10*time.Minute)
	analyticsService := NewAnalyticsService(txStore, cache, 0.3, 0)
	return NewImportService(txStore, analyticsService), txStore, cache
}

func TestProcessImport(t *testing.T) {
	ctx := context.Background()

	t.Run("imports rows and reports the split", func(t *testing.T) {
		svc, txStore, _ := newImportFixture(t)
		input := strings.Join([]string{
			"date,amount,type,category,description",
			"2024-01-05,12.50,expense,Food,Lunch",
			"garbage,12.50,expense,Food,Lunch",
			"2024-01-25,3000,income,Salary,January salary",
		}, "\n")

		result, err := svc.ProcessImport(ctx, testUser, "generic", strings.NewReader(input), "transactions.csv")
		require.NoError(t, err)

		assert.Equal(t, 2, result.Imported)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 3, result.Total)

		stored, err := txStore.GetAll(ctx, testUser)
		require.NoError(t, err)
		require.Len(t, stored, 2)
		assert.NotEmpty(t, stored[0].ID)
	})

	t.Run("unknown source is a parsing error", func(t *testing.T) {
		svc, _, _ := newImportFixture(t)

		_, err := svc.ProcessImport(ctx, testUser, "somebank", strings.NewReader("x"), "x.csv")
		assert.ErrorIs(t, err, ErrParsingFailed)
	})

	t.Run("import invalidates the importer's memoized analytics", func(t *testing.T) {
		txStore := store.NewMemoryStore()
		cache := analytics.NewCache(5*time.Minute, 10*time.Minute)
		analyticsService := NewAnalyticsService(txStore, cache, 0.3, 0)
		svc := NewImportService(txStore, analyticsService)

		_, err := analyticsService.AnalyzeHistoricalPatterns(ctx, testUser)
		require.NoError(t, err)
		require.Equal(t, uint64(1), cache.Stats().Misses)

		input := "date,amount,type\n2024-01-05,10,expense"
		_, err = svc.ProcessImport(ctx, testUser, "", strings.NewReader(input), "t.csv")
		require.NoError(t, err)

		analysis, err := analyticsService.AnalyzeHistoricalPatterns(ctx, testUser)
		require.NoError(t, err)
		assert.Equal(t, 1, analysis.MonthsAnalyzed)
		assert.Equal(t, uint64(2), cache.Stats().Misses)
	})

	t.Run("empty import does not invalidate", func(t *testing.T) {
		svc, _, cache := newImportFixture(t)
		before := cache.Stats().DataVersion

		input := "date,amount,type\ngarbage,10,expense"
		result, err := svc.ProcessImport(ctx, testUser, "generic", strings.NewReader(input), "t.csv")
		require.NoError(t, err)

		assert.Zero(t, result.Imported)
		assert.Equal(t, before, cache.Stats().DataVersion)
	})
}
