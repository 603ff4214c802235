package sheets

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"linguaops/internal"
	"linguaops/internal/meta"
)

const (
	sampleRows      = 200
	maxColumnHeight = 100000
)

var reFourDigits = regexp.MustCompile(`^\d{4}$`)

// Checker answers whether a 4-digit order code already exists anywhere
// in a roster spreadsheet. Candidate columns are found per tab, by
// header name or by content shape, because historical sheets label the
// column inconsistently or not at all.
type Checker struct {
	api ValuesAPI
	log *logrus.Logger
}

func NewChecker(api ValuesAPI, log *logrus.Logger) *Checker {
	return &Checker{api: api, log: log}
}

func (c *Checker) CheckDuplicate(ctx context.Context, spreadsheetID, code string) internal.DuplicateResult {
	if !reFourDigits.MatchString(code) {
		return internal.DuplicateResult{
			Verdict: internal.VerdictError,
			Err:     fmt.Sprintf("code %q is not a 4-digit number", code),
		}
	}

	tabs, err := c.api.ListTabs(ctx, spreadsheetID)
	if err != nil {
		return internal.DuplicateResult{Verdict: internal.VerdictError, Err: err.Error()}
	}

	foundAnyColumn := false
	for _, tab := range tabs {
		sample, err := c.api.GetValues(ctx, spreadsheetID, fmt.Sprintf("'%s'!A1:ZZ%d", tab.Title, sampleRows))
		if err != nil {
			return internal.DuplicateResult{Verdict: internal.VerdictError, Err: err.Error()}
		}

		for _, col := range candidateColumns(sample) {
			foundAnyColumn = true
			letter := columnLetter(col)
			column, err := c.api.GetValues(ctx, spreadsheetID,
				fmt.Sprintf("'%s'!%s1:%s%d", tab.Title, letter, letter, maxColumnHeight))
			if err != nil {
				return internal.DuplicateResult{Verdict: internal.VerdictError, Err: err.Error()}
			}
			for rowIdx, row := range column {
				if len(row) > 0 && strings.TrimSpace(row[0]) == code {
					c.log.WithFields(logrus.Fields{"tab": tab.Title, "column": letter, "row": rowIdx + 1}).
						Info("duplicate code found")
					return internal.DuplicateResult{
						Verdict: internal.VerdictDuplicate,
						Tab:     tab.Title,
						Column:  letter,
						Row:     rowIdx + 1,
					}
				}
			}
		}
	}

	if !foundAnyColumn {
		return internal.DuplicateResult{Verdict: internal.VerdictNoColumn}
	}
	return internal.DuplicateResult{Verdict: internal.VerdictUnique}
}

// candidateColumns picks columns worth scanning: the header matches
// the order-number alias set, or every non-empty sampled cell below
// the header is exactly 4 digits.
func candidateColumns(sample [][]string) []int {
	if len(sample) == 0 {
		return nil
	}

	width := 0
	for _, row := range sample {
		if len(row) > width {
			width = len(row)
		}
	}

	aliases := map[string]struct{}{}
	for _, alias := range meta.AliasOrderNumberHeader {
		aliases[meta.NormalizeKey(alias)] = struct{}{}
	}

	out := make([]int, 0, 2)
	for col := 0; col < width; col++ {
		header := ""
		if len(sample[0]) > col {
			header = sample[0][col]
		}
		if _, ok := aliases[meta.NormalizeKey(header)]; ok {
			out = append(out, col)
			continue
		}

		nonEmpty := 0
		allFourDigits := true
		for _, row := range sample[1:] {
			if len(row) <= col {
				continue
			}
			cell := strings.TrimSpace(row[col])
			if cell == "" {
				continue
			}
			nonEmpty++
			if !reFourDigits.MatchString(cell) {
				allFourDigits = false
				break
			}
		}
		if nonEmpty > 0 && allFourDigits {
			out = append(out, col)
		}
	}
	return out
}

func columnLetter(index int) string {
	letters := ""
	for index >= 0 {
		letters = string(rune('A'+index%26)) + letters
		index = index/26 - 1
	}
	return letters
}
