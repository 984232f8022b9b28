package ingest

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/aclindsa/ofxgo"

	"github.com/financial-organizer/backend/internal/ofx"
)

// parseStrict offers the raw file bytes to the conformant OFX parser.
// Fully valid exports take this path; anything it rejects falls through
// to the tolerant parsers, so a false return is routine, not an error.
func parseStrict(raw []byte) ([]ofx.RawTransaction, bool) {
	resp, err := ofxgo.ParseResponse(bytes.NewReader(raw))
	if err != nil {
		return nil, false
	}

	var results []ofx.RawTransaction
	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		for _, txn := range stmt.BankTranList.Transactions {
			results = append(results, strictTransaction(txn))
		}
	}
	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		for _, txn := range stmt.BankTranList.Transactions {
			results = append(results, strictTransaction(txn))
		}
	}

	if len(results) == 0 {
		return nil, false
	}
	return results, true
}

// strictTransaction maps a conformant transaction into the raw shape
// the normalizer consumes, so both parse paths share one normalization.
func strictTransaction(txn ofxgo.Transaction) ofx.RawTransaction {
	memo := txn.Memo.String()
	if memo == "" {
		memo = txn.Name.String()
	}
	if memo == "" {
		memo = ofx.PlaceholderDescription
	}

	// Posted date preferred, user-initiated date as fallback.
	date := txn.DtPosted.Time
	if date.IsZero() {
		date = txn.DtUser.Time
	}
	posted := ""
	if !date.IsZero() {
		posted = date.UTC().Format(time.RFC3339)
	}

	amount, _ := txn.TrnAmt.Float64()

	return ofx.RawTransaction{
		Amount:   strconv.FormatFloat(amount, 'f', -1, 64),
		Memo:     memo,
		Posted:   posted,
		FitID:    txn.FiTID.String(),
		TypeHint: fmt.Sprint(txn.TrnType),
	}
}
