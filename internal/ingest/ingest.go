// Package ingest turns uploaded bank statement files into persisted
// transactions. It chains a strict parse, a tolerant tag-tree parse and
// a flat regex extraction, so degraded files still import whatever can
// be recovered from them.
package ingest

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/financial-organizer/backend/internal/ofx"
	"github.com/financial-organizer/backend/internal/storage"
)

// Outcome sentinels, inspected with errors.Is by the upload handler.
var (
	// ErrNoFile signals an empty upload.
	ErrNoFile = errors.New("no file content")
	// ErrNotStatement signals content without the statement envelope.
	ErrNotStatement = errors.New("not a valid statement file")
	// ErrNoTransactions signals a statement no parse path could read
	// any transaction from.
	ErrNoTransactions = errors.New("no transaction data found")
)

// Store is the persistence surface the pipeline needs.
type Store interface {
	CreateStatement(ctx context.Context, stmt *storage.BankStatement) error
	InsertTransactionsBatch(ctx context.Context, txns []storage.Transaction) error
}

// Result reports a completed ingestion.
type Result struct {
	StatementID string
	Count       int
}

// Service runs the ingestion pipeline against a store.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService returns a Service using the wall clock.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Ingest parses one uploaded statement and persists its transactions
// for the user. Exactly one outcome is produced per call: a Result or
// one of the sentinel errors (plus wrapped store errors).
//
// Parse paths are tried in order of strictness: the conformant parser
// on the raw bytes, the tag-tree parser on the sanitized text, then
// the flat extractor. The first path yielding transactions wins; later
// paths are not consulted. Individual blocks whose amount cannot be
// read are skipped with a warning, and a statement whose every block
// is skipped still succeeds with a zero count.
func (s *Service) Ingest(ctx context.Context, userID, filename string, raw []byte) (*Result, error) {
	if len(raw) == 0 {
		return nil, ErrNoFile
	}

	text := ofx.Sanitize(string(raw))
	if !ofx.HasEnvelope(text) {
		return nil, ErrNotStatement
	}

	rawTxns, ok := parseStrict(raw)
	if !ok {
		rawTxns, ok = parseStructural(text)
	}
	if !ok {
		rawTxns = ofx.ExtractTransactions(text)
	}
	if len(rawTxns) == 0 {
		return nil, ErrNoTransactions
	}

	stmt := &storage.BankStatement{
		ID:     uuid.NewString(),
		Name:   filename,
		UserID: userID,
	}
	if err := s.store.CreateStatement(ctx, stmt); err != nil {
		return nil, err
	}

	now := s.now()
	txns := make([]storage.Transaction, 0, len(rawTxns))
	for _, rawTxn := range rawTxns {
		txn, err := normalizeTransaction(rawTxn, userID, &stmt.ID, now)
		if err != nil {
			log.Printf("WARNING: skipping transaction in %s: %v", filename, err)
			continue
		}
		txns = append(txns, txn)
	}

	if err := s.store.InsertTransactionsBatch(ctx, txns); err != nil {
		return nil, err
	}

	return &Result{StatementID: stmt.ID, Count: len(txns)}, nil
}

// parseStructural runs the tolerant tag-tree parse over sanitized text.
func parseStructural(text string) ([]ofx.RawTransaction, bool) {
	doc := ofx.ParseDocument(text)
	nodes, ok := ofx.TransactionNodes(doc)
	if !ok {
		return nil, false
	}
	results := make([]ofx.RawTransaction, 0, len(nodes))
	for _, node := range nodes {
		results = append(results, ofx.NodeTransaction(node))
	}
	return results, true
}
