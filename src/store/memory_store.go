// backend/src/store/memory_store.go
package store

import (
	"context"
	"sync"

	"github.com/username/moneymap/backend/src/models"
)

// MemoryStore is an in-memory TransactionStore used by tests and local
// experimentation. It hands out copies, never its internal slices.
type MemoryStore struct {
	mu  sync.RWMutex
	txs map[int64][]models.Transaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{txs: make(map[int64][]models.Transaction)}
}

func (s *MemoryStore) GetAll(ctx context.Context, userID int64) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Transaction, len(s.txs[userID]))
	copy(out, s.txs[userID])
	return out, nil
}

func (s *MemoryStore) Insert(ctx context.Context, userID int64, tx models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs[userID] = append(s.txs[userID], tx)
	return nil
}

func (s *MemoryStore) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := int64(len(s.txs[userID]))
	delete(s.txs, userID)
	return deleted, nil
}

func (s *MemoryStore) Count(ctx context.Context, userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.txs[userID]), nil
}
