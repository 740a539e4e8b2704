// backend/src/handlers/transaction_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/username/moneymap/backend/src/logger"
	"github.com/username/moneymap/backend/src/models"
	"github.com/username/moneymap/backend/src/services"
	"github.com/username/moneymap/backend/src/store"
)

// TransactionHandler is the thin CRUD surface around the engine. Every
// mutation invalidates the caller's memoized analytics.
type TransactionHandler struct {
	txStore          store.TransactionStore
	analyticsService services.AnalyticsService
}

func NewTransactionHandler(txStore store.TransactionStore, analyticsService services.AnalyticsService) *TransactionHandler {
	return &TransactionHandler{
		txStore:          txStore,
		analyticsService: analyticsService,
	}
}

func (h *TransactionHandler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "user ID not found in context", http.StatusBadRequest)
		return
	}

	var tx models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&tx); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if tx.Type != models.TypeIncome && tx.Type != models.TypeExpense {
		sendJSONError(w, "type must be 'income' or 'expense'", http.StatusBadRequest)
		return
	}
	if !tx.Valid() {
		sendJSONError(w, "amount must be finite and timestamp must be a valid ISO-8601 date", http.StatusBadRequest)
		return
	}
	if tx.ID == "" {
		tx.ID = uuid.New().String()
	}

	if err := h.txStore.Insert(r.Context(), userID, tx); err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to insert transaction", "error", err)
		sendJSONError(w, "Failed to store transaction", http.StatusInternalServerError)
		return
	}

	h.analyticsService.InvalidateUserCache(userID)
	sendJSON(w, tx, http.StatusCreated)
}

func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "user ID not found in context", http.StatusBadRequest)
		return
	}

	txs, err := h.txStore.GetAll(r.Context(), userID)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to list transactions", "error", err)
		sendJSONError(w, "Failed to load transactions", http.StatusInternalServerError)
		return
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	sendJSON(w, txs, http.StatusOK)
}

func (h *TransactionHandler) HandleDeleteAllTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "user ID not found in context", http.StatusBadRequest)
		return
	}

	deleted, err := h.txStore.DeleteAll(r.Context(), userID)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to delete transactions", "error", err)
		sendJSONError(w, "Failed to delete transactions", http.StatusInternalServerError)
		return
	}

	h.analyticsService.InvalidateUserCache(userID)
	logger.InfoFromContext(r.Context(), "Deleted all transactions", "deleted", deleted)
	w.WriteHeader(http.StatusNoContent)
}
