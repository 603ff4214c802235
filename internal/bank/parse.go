package bank

import (
	"regexp"
	"strings"

	"linguaops/internal"
	"linguaops/internal/util"
)

var (
	reDateToken  = regexp.MustCompile(`\b\d{1,2}[./-]\d{1,2}[./-]\d{2,4}\b`)
	reEuroAmount = regexp.MustCompile(`-?\d+(?:\.\d{3})*,\d{2}`)
	rePlainDec   = regexp.MustCompile(`-?\d+\.\d{2}`)
	reSenderName = regexp.MustCompile(`[A-ZÄÖÜ][a-zäöüß]+(?:[ \t][A-ZÄÖÜ][a-zäöüß]+){0,3}`)
)

// SplitStatement cuts raw statement text into transactions: every date
// token opens a block that absorbs everything up to the next date
// token. Text without a single date token degrades to one transaction
// with a nil date instead of failing. Amount and sender parsing are
// best effort and leave nil fields on failure.
func SplitStatement(text string, pdfSourceID string) []internal.BankTransaction {
	locs := reDateToken.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		tx := buildTransaction(text, nil, pdfSourceID)
		return []internal.BankTransaction{tx}
	}

	out := make([]internal.BankTransaction, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		block := text[loc[0]:end]
		date := text[loc[0]:loc[1]]
		out = append(out, buildTransaction(block, &date, pdfSourceID))
	}
	return out
}

func buildTransaction(block string, date *string, pdfSourceID string) internal.BankTransaction {
	ref := strings.TrimSpace(block)
	tx := internal.BankTransaction{
		PDFSourceID:   pdfSourceID,
		Date:          date,
		ReferenceText: ref,
		Status:        internal.TxPending,
	}

	searchable := ref
	if date != nil {
		// keep the date token out of the amount search
		searchable = strings.TrimSpace(strings.TrimPrefix(ref, *date))
	}
	if amount, ok := findAmount(searchable); ok {
		tx.Amount = &amount
	}
	if sender := reSenderName.FindString(searchable); sender != "" {
		tx.SenderName = &sender
	}
	return tx
}

// findAmount looks for a European-formatted amount first, then for a
// plain digits.dd token. Plain matches bordered by another digit or a
// dot are date fragments and get skipped.
func findAmount(text string) (string, bool) {
	if hit := reEuroAmount.FindString(text); hit != "" {
		if d, ok := util.ParseEuroAmount(hit); ok {
			return d.String(), true
		}
	}

	for _, loc := range rePlainDec.FindAllStringIndex(text, -1) {
		if loc[1] < len(text) {
			next := text[loc[1]]
			if next == '.' || (next >= '0' && next <= '9') {
				continue
			}
		}
		if loc[0] > 0 {
			prev := text[loc[0]-1]
			if prev == '.' || (prev >= '0' && prev <= '9') {
				continue
			}
		}
		if d, ok := util.ParseEuroAmount(text[loc[0]:loc[1]]); ok {
			return d.String(), true
		}
	}
	return "", false
}
