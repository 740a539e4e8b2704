// backend/src/services/import_service.go
package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/username/moneymap/backend/src/logger"
	"github.com/username/moneymap/backend/src/parsers"
	"github.com/username/moneymap/backend/src/store"
)

type importServiceImpl struct {
	txStore          store.TransactionStore
	analyticsService AnalyticsService
}

// NewImportService wires the CSV import pipeline: parse, store,
// invalidate the importer's memoized analytics.
func NewImportService(txStore store.TransactionStore, analyticsService AnalyticsService) ImportService {
	return &importServiceImpl{
		txStore:          txStore,
		analyticsService: analyticsService,
	}
}

func (s *importServiceImpl) ProcessImport(ctx context.Context, userID int64, source string, file io.Reader, filename string) (*ImportResult, error) {
	startTime := time.Now()
	logger.InfoFromContext(ctx, "ProcessImport START", "userID", userID, "source", source, "filename", filename)

	parser, err := parsers.GetParser(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}
	txs, skipped, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	imported := 0
	for _, tx := range txs {
		if tx.ID == "" {
			tx.ID = uuid.New().String()
		}
		if err := s.txStore.Insert(ctx, userID, tx); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreFailed, err)
		}
		imported++
	}

	if imported > 0 {
		s.analyticsService.InvalidateUserCache(userID)
	}

	logger.InfoFromContext(ctx, "ProcessImport END",
		"userID", userID, "imported", imported, "skipped", skipped, "duration", time.Since(startTime))
	return &ImportResult{
		Imported: imported,
		Skipped:  skipped,
		Total:    imported + skipped,
	}, nil
}
