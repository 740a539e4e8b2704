// backend/src/store/transaction_store.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/username/moneymap/backend/src/models"
)

// TransactionStore is the persistence boundary the analytics engine
// consumes. The engine only ever reads; mutations exist for the thin
// CRUD surface around it.
type TransactionStore interface {
	GetAll(ctx context.Context, userID int64) ([]models.Transaction, error)
	Insert(ctx context.Context, userID int64, tx models.Transaction) error
	DeleteAll(ctx context.Context, userID int64) (int64, error)
	Count(ctx context.Context, userID int64) (int, error)
}

type sqliteStore struct {
	db *sql.DB
}

// NewSQLiteStore returns a TransactionStore backed by the given sqlite
// database handle.
func NewSQLiteStore(db *sql.DB) TransactionStore {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) GetAll(ctx context.Context, userID int64) ([]models.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount, type, category, description, timestamp
		FROM transactions
		WHERE user_id = ?
		ORDER BY timestamp ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying transactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.Amount, &tx.Type, &tx.Category, &tx.Description, &tx.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning transaction for user %d: %w", userID, err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions for user %d: %w", userID, err)
	}
	return txs, nil
}

func (s *sqliteStore) Insert(ctx context.Context, userID int64, tx models.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, amount, type, category, description, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tx.ID, userID, tx.Amount, tx.Type, tx.Category, tx.Description, tx.Timestamp)
	if err != nil {
		return fmt.Errorf("inserting transaction %s for user %d: %w", tx.ID, userID, err)
	}
	return nil
}

func (s *sqliteStore) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM transactions WHERE user_id = ?", userID)
	if err != nil {
		return 0, fmt.Errorf("deleting transactions for user %d: %w", userID, err)
	}
	affected, _ := result.RowsAffected()
	return affected, nil
}

func (s *sqliteStore) Count(ctx context.Context, userID int64) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting transactions for user %d: %w", userID, err)
	}
	return count, nil
}
