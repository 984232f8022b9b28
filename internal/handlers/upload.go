package handlers

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/financial-organizer/backend/internal/ingest"
	"github.com/financial-organizer/backend/internal/middleware"
)

// maxUploadBytes caps statement uploads. Real exports are a few hundred
// kilobytes; ten megabytes leaves generous headroom.
const maxUploadBytes = 10 << 20

// Ingestor runs the statement ingestion pipeline.
type Ingestor interface {
	Ingest(ctx context.Context, userID, filename string, raw []byte) (*ingest.Result, error)
}

// UploadHandler handles statement file uploads.
type UploadHandler struct {
	ingestor Ingestor
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(ingestor Ingestor) *UploadHandler {
	return &UploadHandler{ingestor: ingestor}
}

// Upload handles POST /api/transactions/upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		log.Printf("ERROR: Failed to read upload from user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	result, err := h.ingestor.Ingest(r.Context(), userID, header.Filename, raw)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrNoFile):
			writeError(w, http.StatusBadRequest, "No file uploaded")
		case errors.Is(err, ingest.ErrNotStatement):
			writeError(w, http.StatusBadRequest, "Not a valid statement file")
		case errors.Is(err, ingest.ErrNoTransactions):
			writeError(w, http.StatusBadRequest, "No transaction data found")
		default:
			log.Printf("ERROR: Ingestion failed for user %s file %s: %v", userID, header.Filename, err)
			writeError(w, http.StatusInternalServerError, "Unexpected error")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":           "File processed",
		"transactionsCount": result.Count,
	})
}
