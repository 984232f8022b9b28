package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/financial-organizer/backend/internal/storage"
)

type fakeDashboardStore struct {
	txns []storage.Transaction
}

func (f *fakeDashboardStore) ListTransactions(_ context.Context, userID string) ([]storage.Transaction, error) {
	var out []storage.Transaction
	for _, txn := range f.txns {
		if txn.UserID == userID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (f *fakeDashboardStore) ListTransactionsSince(_ context.Context, userID string, since time.Time) ([]storage.Transaction, error) {
	var out []storage.Transaction
	for _, txn := range f.txns {
		if txn.UserID == userID && !txn.TransactionDate.Before(since) {
			out = append(out, txn)
		}
	}
	return out, nil
}

func taggedTxn(userID, tagID, tagName, tagColor string, txnType storage.TransactionType, value string, date time.Time) storage.Transaction {
	txn := storage.Transaction{
		UserID:          userID,
		Type:            txnType,
		Value:           decimal.RequireFromString(value),
		TransactionDate: date,
	}
	if tagID != "" {
		txn.TagID = &tagID
		txn.Tag = &storage.Tag{ID: tagID, Name: tagName, Color: tagColor, UserID: userID}
	}
	return txn
}

func TestDashboardTagGroups(t *testing.T) {
	date := time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC)
	store := &fakeDashboardStore{txns: []storage.Transaction{
		taggedTxn("user-1", "tag-food", "Alimentação", "#E74C3C", storage.TypeDebit, "50", date),
		taggedTxn("user-1", "tag-food", "Alimentação", "#E74C3C", storage.TypeDebit, "30", date),
		taggedTxn("user-1", "", "", "", storage.TypeCredit, "100", date),
		taggedTxn("user-2", "tag-x", "X", "#fff", storage.TypeDebit, "10", date),
	}}
	h := NewDashboardHandler(store)

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/dashboard/tags", nil))
	rec := httptest.NewRecorder()
	h.TagGroups(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	grouped, ok := decodeBody(t, rec)["transactionsGrouped"].(map[string]any)
	if !ok {
		t.Fatalf("missing transactionsGrouped: %s", rec.Body.String())
	}
	if len(grouped) != 2 {
		t.Fatalf("groups = %d, want 2 (tagged + other)", len(grouped))
	}

	food, ok := grouped["tag-food"].(map[string]any)
	if !ok {
		t.Fatal("missing tag-food bucket")
	}
	if food["count"] != float64(2) || food["label"] != "Alimentação" || food["color"] != "#E74C3C" {
		t.Errorf("food bucket = %v", food)
	}

	other, ok := grouped["other"].(map[string]any)
	if !ok {
		t.Fatal("missing other bucket")
	}
	if other["count"] != float64(1) || other["label"] != "Outros" {
		t.Errorf("other bucket = %v", other)
	}
}

func TestDashboardMonths(t *testing.T) {
	now := time.Date(2023, 6, 15, 12, 0, 0, 0, time.UTC)
	store := &fakeDashboardStore{txns: []storage.Transaction{
		taggedTxn("user-1", "", "", "", storage.TypeCredit, "2500", time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)),
		taggedTxn("user-1", "", "", "", storage.TypeDebit, "150", time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC)),
		taggedTxn("user-1", "", "", "", storage.TypeDebit, "80", time.Date(2023, 5, 20, 0, 0, 0, 0, time.UTC)),
		// Outside the 12 month window.
		taggedTxn("user-1", "", "", "", storage.TypeDebit, "999", time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)),
	}}
	h := NewDashboardHandler(store)
	h.now = func() time.Time { return now }

	req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/dashboard/months", nil))
	rec := httptest.NewRecorder()
	h.Months(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	months, ok := decodeBody(t, rec)["months"].([]any)
	if !ok {
		t.Fatalf("missing months: %s", rec.Body.String())
	}
	if len(months) != 12 {
		t.Fatalf("months = %d, want 12", len(months))
	}

	first := months[0].(map[string]any)
	if first["yearMonth"] != "2022-07" {
		t.Errorf("first month = %v, want 2022-07", first["yearMonth"])
	}
	last := months[11].(map[string]any)
	if last["yearMonth"] != "2023-06" {
		t.Errorf("last month = %v, want 2023-06", last["yearMonth"])
	}
	if last["credit"] != "2500" || last["debit"] != "150" {
		t.Errorf("current month sums = %v", last)
	}
	may := months[10].(map[string]any)
	if may["debit"] != "80" {
		t.Errorf("may debit = %v", may["debit"])
	}
}

func TestDashboardUnauthenticated(t *testing.T) {
	h := NewDashboardHandler(&fakeDashboardStore{})
	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/tags", nil)
	rec := httptest.NewRecorder()
	h.TagGroups(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
