// backend/src/handlers/respond.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/moneymap/backend/src/logger"
)

// sendJSON writes v as a JSON response with the given status.
func sendJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.L.Error("Failed to encode JSON response", "error", err)
	}
}

// sendJSONError writes a JSON error envelope with the given status.
func sendJSONError(w http.ResponseWriter, message string, status int) {
	sendJSON(w, map[string]string{"error": message}, status)
}
