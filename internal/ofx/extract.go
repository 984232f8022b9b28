package ofx

import (
	"regexp"
	"strings"
)

// Flat extraction patterns. Each field is matched independently inside a
// transaction block so that one malformed tag does not poison the rest.
var (
	blockStart    = regexp.MustCompile(`(?i)<STMTTRN>`)
	blockEnd      = regexp.MustCompile(`(?i)</STMTTRN>`)
	amountPattern = regexp.MustCompile(`(?i)<TRNAMT>\s*([^<]+)`)
	memoPattern   = regexp.MustCompile(`(?i)<MEMO>\s*([^<]+)`)
	postedPattern = regexp.MustCompile(`(?i)<DTPOSTED>\s*([^<]+)`)
	fitIDPattern  = regexp.MustCompile(`(?i)<FITID>\s*([^<]+)`)
	typePattern   = regexp.MustCompile(`(?i)<TRNTYPE>\s*([^<]+)`)
)

// ExtractTransactions scans sanitized statement text for transaction
// blocks without building a document tree. It is the fallback for files
// whose envelope is present but whose structure defeats ParseDocument.
//
// A block missing its amount, posted date, or FITID is discarded as
// unsalvageable; a missing memo gets the placeholder. Returns nil (not
// an empty slice) when no valid block is found, so callers can
// distinguish "nothing extractable" from "zero survivors".
func ExtractTransactions(text string) []RawTransaction {
	starts := blockStart.FindAllStringIndex(text, -1)
	if len(starts) == 0 {
		return nil
	}

	var results []RawTransaction
	for i, start := range starts {
		block := text[start[1]:]
		if i+1 < len(starts) {
			block = text[start[1]:starts[i+1][0]]
		}
		if end := blockEnd.FindStringIndex(block); end != nil {
			block = block[:end[0]]
		}

		raw := RawTransaction{
			Amount: matchField(amountPattern, block),
			Memo:   matchField(memoPattern, block),
			Posted: matchField(postedPattern, block),
			FitID:  matchField(fitIDPattern, block),
		}
		if raw.Amount == "" || raw.Posted == "" || raw.FitID == "" {
			continue
		}
		if raw.Memo == "" {
			raw.Memo = PlaceholderDescription
		}
		raw.TypeHint = matchField(typePattern, block)
		results = append(results, raw)
	}

	if len(results) == 0 {
		return nil
	}
	return results
}

func matchField(pattern *regexp.Regexp, block string) string {
	m := pattern.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
