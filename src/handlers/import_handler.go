// backend/src/handlers/import_handler.go
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/username/moneymap/backend/src/config"
	"github.com/username/moneymap/backend/src/logger"
	"github.com/username/moneymap/backend/src/security/validation"
	"github.com/username/moneymap/backend/src/services"
)

// ImportHandler accepts CSV files of transactions over multipart form
// uploads.
type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(importService services.ImportService) *ImportHandler {
	return &ImportHandler{importService: importService}
}

func (h *ImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "user ID not found in context", http.StatusBadRequest)
		return
	}

	maxSize := config.Cfg.MaxUploadSizeBytes
	if err := r.ParseMultipartForm(maxSize); err != nil {
		logger.FromContext(r.Context()).Warn("Failed to parse multipart form or request too large", "error", err, "limit", maxSize)
		sendJSONError(w, fmt.Sprintf("Failed to process upload or file too large (max %d MB)", maxSize/(1024*1024)), http.StatusBadRequest)
		return
	}

	source := r.FormValue("source")

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		logger.FromContext(r.Context()).Warn("Failed to retrieve file from request", "error", err)
		sendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > maxSize {
		sendJSONError(w, fmt.Sprintf("File too large, max %d MB", maxSize/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := validation.ValidateFileContentByMagicBytes(file); err != nil {
		logger.FromContext(r.Context()).Warn("File content validation failed", "filename", fileHeader.Filename, "error", err)
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.importService.ProcessImport(r.Context(), userID, source, file, fileHeader.Filename)
	if err != nil {
		if errors.Is(err, services.ErrParsingFailed) {
			sendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.ErrorFromContext(r.Context(), "Import failed", "filename", fileHeader.Filename, "error", err)
		sendJSONError(w, "Failed to import transactions", http.StatusInternalServerError)
		return
	}

	sendJSON(w, result, http.StatusOK)
}
