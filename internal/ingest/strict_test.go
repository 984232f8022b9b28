package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/financial-organizer/backend/internal/storage"
)

// conformantStatement carries the full v1 header block, so the strict
// parser accepts it directly.
const conformantStatement = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240101120000
<LANGUAGE>ENG
<FI>
<ORG>TESTBANK
<FID>12345
</FI>
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>9876543210
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101000000
<DTEND>20240131235959
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240105120000
<TRNAMT>-50.00
<FITID>TXN001
<NAME>Test Transaction 1
<MEMO>Coffee Shop
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240115120000
<TRNAMT>1000.00
<FITID>TXN002
<NAME>Paycheck
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>2000.00
<DTASOF>20240131235959
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestParseStrict(t *testing.T) {
	raws, ok := parseStrict([]byte(conformantStatement))
	if !ok {
		t.Fatal("conformant statement rejected by strict parser")
	}
	if len(raws) != 2 {
		t.Fatalf("transactions = %d, want 2", len(raws))
	}

	if raws[0].FitID != "TXN001" {
		t.Errorf("fitid = %q", raws[0].FitID)
	}
	if raws[0].Memo != "Coffee Shop" {
		t.Errorf("memo = %q, want MEMO preferred over NAME", raws[0].Memo)
	}
	if raws[1].Memo != "Paycheck" {
		t.Errorf("memo = %q, want NAME fallback", raws[1].Memo)
	}

	// The raw shape must flow through the shared normalizer unchanged.
	first, err := normalizeTransaction(raws[0], "user-1", nil, timeNowFixed())
	if err != nil {
		t.Fatalf("normalize strict output: %v", err)
	}
	if !first.Value.Equal(decimal.RequireFromString("50")) {
		t.Errorf("value = %s, want 50", first.Value)
	}
	if first.Type != storage.TypeDebit {
		t.Errorf("type = %s", first.Type)
	}
	if first.TransactionDate.Year() != 2024 || first.TransactionDate.Month() != 1 || first.TransactionDate.Day() != 5 {
		t.Errorf("date = %v", first.TransactionDate)
	}

	second, err := normalizeTransaction(raws[1], "user-1", nil, timeNowFixed())
	if err != nil {
		t.Fatalf("normalize strict output: %v", err)
	}
	if second.Type != storage.TypeCredit || !second.Value.Equal(decimal.RequireFromString("1000")) {
		t.Errorf("second = %s %s", second.Type, second.Value)
	}
}

func TestParseStrictRejectsHeaderless(t *testing.T) {
	if _, ok := parseStrict([]byte(statementFile)); ok {
		t.Fatal("headerless export must fall through to the tolerant parsers")
	}
}

func TestIngestConformantStatement(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	result, err := svc.Ingest(context.Background(), "user-1", "bank.ofx", []byte(conformantStatement))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("count = %d, want 2", result.Count)
	}
	txns := store.allTransactions()
	if txns[0].Description != "Coffee Shop" || txns[1].Description != "Paycheck" {
		t.Errorf("descriptions = %q, %q", txns[0].Description, txns[1].Description)
	}
}

func timeNowFixed() time.Time {
	return time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
}
