package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/financial-organizer/backend/internal/middleware"
	"github.com/financial-organizer/backend/internal/storage"
)

// Untagged transactions share one dashboard bucket.
const (
	untaggedKey   = "other"
	untaggedLabel = "Outros"
	untaggedColor = "#8AA245"
)

// monthsWindow is how many calendar months the monthly chart covers.
const monthsWindow = 12

// DashboardStore is the read surface for the dashboard aggregates.
type DashboardStore interface {
	ListTransactions(ctx context.Context, userID string) ([]storage.Transaction, error)
	ListTransactionsSince(ctx context.Context, userID string, since time.Time) ([]storage.Transaction, error)
}

// DashboardHandler serves aggregate views of the user's transactions.
type DashboardHandler struct {
	store DashboardStore
	now   func() time.Time
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(store DashboardStore) *DashboardHandler {
	return &DashboardHandler{store: store, now: time.Now}
}

type tagBucket struct {
	Count int    `json:"count"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// TagGroups handles GET /api/dashboard/tags
func (h *DashboardHandler) TagGroups(w http.ResponseWriter, r *http.Request) {
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

	grouped := map[string]*tagBucket{}
	for _, txn := range txns {
		key := untaggedKey
		label := untaggedLabel
		color := untaggedColor
		if txn.TagID != nil && txn.Tag != nil {
			key = *txn.TagID
			label = txn.Tag.Name
			color = txn.Tag.Color
		}
		bucket, exists := grouped[key]
		if !exists {
			bucket = &tagBucket{Label: label, Color: color}
			grouped[key] = bucket
		}
		bucket.Count++
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactionsGrouped": grouped})
}

type monthSummary struct {
	YearMonth string          `json:"yearMonth"`
	Credit    decimal.Decimal `json:"credit"`
	Debit     decimal.Decimal `json:"debit"`
}

// Months handles GET /api/dashboard/months
func (h *DashboardHandler) Months(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	now := h.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).
		AddDate(0, -(monthsWindow - 1), 0)

	txns, err := h.store.ListTransactionsSince(r.Context(), userID, start)
	if err != nil {
		log.Printf("ERROR: Failed to list transactions for user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "Unexpected error")
		return
	}

	// Every month in the window appears, even with no transactions.
	months := make([]monthSummary, 0, monthsWindow)
	index := map[string]int{}
	for i := 0; i < monthsWindow; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		index[key] = i
		months = append(months, monthSummary{
			YearMonth: key,
			Credit:    decimal.Zero,
			Debit:     decimal.Zero,
		})
	}

	for _, txn := range txns {
		i, ok := index[txn.TransactionDate.UTC().Format("2006-01")]
		if !ok {
			continue
		}
		switch txn.Type {
		case storage.TypeCredit:
			months[i].Credit = months[i].Credit.Add(txn.Value)
		case storage.TypeDebit:
			months[i].Debit = months[i].Debit.Add(txn.Value)
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"months": months})
}
