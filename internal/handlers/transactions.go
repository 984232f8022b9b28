package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/financial-organizer/backend/internal/middleware"
	"github.com/financial-organizer/backend/internal/ofx"
	"github.com/financial-organizer/backend/internal/storage"
)

// TransactionStore is the persistence surface for transaction entry.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, txn *storage.Transaction) error
	ListTransactions(ctx context.Context, userID string) ([]storage.Transaction, error)
}

// TagResolver finds or creates the tag named in a manual entry.
type TagResolver interface {
	GetOrCreate(ctx context.Context, userID, name string) (*storage.Tag, error)
}

// TransactionsHandler handles manual transaction entry and listing.
type TransactionsHandler struct {
	store    TransactionStore
	resolver TagResolver
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(store TransactionStore, resolver TagResolver) *TransactionsHandler {
	return &TransactionsHandler{store: store, resolver: resolver}
}

// List handles GET /api/transactions
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	txns, err := h.store.ListTransactions(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR: Failed to list transactions for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}
	if txns == nil {
		txns = []storage.Transaction{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": txns})
}

type createTransactionRequest struct {
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	Type        string          `json:"type"`
	Tag         string          `json:"tag"`
	Date        string          `json:"date"`
}

// Create handles POST /api/transactions
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	txnType := storage.TransactionType(req.Type)
	if txnType != storage.TypeCredit && txnType != storage.TypeDebit {
		writeError(w, http.StatusBadRequest, "Type must be Credit or Debit")
		return
	}

	date, dateOK := ofx.ParseStatementDate(req.Date)
	if !dateOK {
		writeError(w, http.StatusBadRequest, "Invalid date")
		return
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = ofx.PlaceholderDescription
	}

	txn := &storage.Transaction{
		ID:              uuid.NewString(),
		Description:     description,
		Value:           req.Value.Abs(),
		Type:            txnType,
		TransactionDate: date,
		UserID:          userID,
	}

	if tagName := strings.TrimSpace(req.Tag); tagName != "" {
		tag, err := h.resolver.GetOrCreate(r.Context(), userID, tagName)
		if err != nil {
			log.Printf("ERROR: Failed to resolve tag %q for user %s: %v", tagName, userID, err)
			writeError(w, http.StatusInternalServerError, "Unexpected error")
			return
		}
		txn.TagID = &tag.ID
		txn.Tag = tag
	}

	if err := h.store.CreateTransaction(r.Context(), txn); err != nil {
		log.Printf("ERROR: Failed to create transaction for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"transaction": txn})
}
