package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/financial-organizer/backend/internal/ofx"
	"github.com/financial-organizer/backend/internal/storage"
)

// normalizeTransaction converts one raw statement block into a
// persistable row. The amount is the only hard requirement: a value
// that cannot be parsed as a decimal fails the whole conversion and
// the caller skips the block. Everything else degrades: an unreadable
// date falls back to the ingestion time, a missing memo to the
// placeholder.
//
// The stored value is the absolute amount; the sign only selects the
// type. A zero amount is a Debit.
func normalizeTransaction(raw ofx.RawTransaction, userID string, statementID *string, now time.Time) (storage.Transaction, error) {
	amount, err := parseAmount(raw.Amount)
	if err != nil {
		return storage.Transaction{}, err
	}

	txnType := storage.TypeDebit
	if amount.Sign() > 0 {
		txnType = storage.TypeCredit
	}

	date, ok := ofx.ParseStatementDate(raw.Posted)
	if !ok {
		date = now.UTC()
	}

	description := strings.TrimSpace(raw.Memo)
	if description == "" {
		description = ofx.PlaceholderDescription
	}

	return storage.Transaction{
		ID:              uuid.NewString(),
		Description:     description,
		Value:           amount.Abs(),
		Type:            txnType,
		TransactionDate: date,
		FitID:           raw.FitID,
		UserID:          userID,
		BankStatementID: statementID,
	}, nil
}

// parseAmount reads a signed decimal amount. Banks that emit comma
// decimal separators are accommodated when the text has no dot already.
func parseAmount(text string) (decimal.Decimal, error) {
	value := strings.TrimSpace(text)
	if value == "" {
		return decimal.Decimal{}, fmt.Errorf("empty amount")
	}
	if !strings.Contains(value, ".") {
		value = strings.ReplaceAll(value, ",", ".")
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("unparseable amount %q: %w", text, err)
	}
	return amount, nil
}
