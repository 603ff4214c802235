package bank

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"linguaops/internal"
	"linguaops/internal/util"
)

var (
	reRefNumber = regexp.MustCompile(`#?\b\d{4,8}\b`)
	reNamePair  = regexp.MustCompile(`[A-ZÄÖÜ][a-zäöüß]+[ \t][A-ZÄÖÜ][a-zäöüß]+`)
)

const reasonOrderNumber = "Order # in reference"

// MatchTransaction scores one transaction against a window of orders.
// Two passes: order-number containment in the reference text, then
// fuzzy name similarity against the sender and any capitalized word
// pairs in the reference. All candidates are recorded; acceptance is a
// human decision downstream.
func MatchTransaction(tx internal.BankTransaction, orders []internal.Order, threshold float64) []internal.MatchCandidate {
	var txAmount *decimal.Decimal
	if tx.Amount != nil {
		if d, ok := util.ParseEuroAmount(*tx.Amount); ok {
			txAmount = &d
		}
	}

	candidates := make([]internal.MatchCandidate, 0)
	scoredOrders := map[int]struct{}{}

	// Reference-number pass.
	for _, number := range refNumbers(tx.ReferenceText) {
		for i := range orders {
			order := &orders[i]
			if !strings.Contains(order.Number, number) {
				continue
			}
			if _, done := scoredOrders[order.ID]; done {
				continue
			}
			scoredOrders[order.ID] = struct{}{}

			amountMatch := amountsAgree(txAmount, order.Total)
			confidence := 2
			if amountMatch {
				confidence = 1
			}
			candidates = append(candidates, internal.MatchCandidate{
				TransactionID: tx.ID,
				OrderID:       order.ID,
				OrderNumber:   order.Number,
				CustomerName:  customerName(order),
				Confidence:    confidence,
				Reason:        reasonOrderNumber,
				AmountMatch:   amountMatch,
				NumberInRef:   true,
			})
		}
	}

	// Name pass. Orders already matched by number are settled.
	scoredPairs := map[string]struct{}{}
	for _, name := range candidateNames(tx) {
		for i := range orders {
			order := &orders[i]
			if _, done := scoredOrders[order.ID]; done {
				continue
			}
			pairKey := fmt.Sprintf("%d|%s", order.ID, name)
			if _, done := scoredPairs[pairKey]; done {
				continue
			}
			scoredPairs[pairKey] = struct{}{}

			score := util.TokenSetSimilarity(name, customerName(order))
			if score < threshold {
				continue
			}

			amountMatch := amountsAgree(txAmount, order.Total)
			confidence := 3
			if amountMatch {
				confidence = 2
			}
			scoreCopy := score
			candidates = append(candidates, internal.MatchCandidate{
				TransactionID: tx.ID,
				OrderID:       order.ID,
				OrderNumber:   order.Number,
				CustomerName:  customerName(order),
				Confidence:    confidence,
				Reason:        fmt.Sprintf("Name match %.2f", score),
				NameScore:     &scoreCopy,
				AmountMatch:   amountMatch,
			})
		}
	}

	return candidates
}

func refNumbers(reference string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, 2)
	for _, hit := range reRefNumber.FindAllString(reference, -1) {
		number := strings.TrimPrefix(hit, "#")
		if _, ok := seen[number]; ok {
			continue
		}
		seen[number] = struct{}{}
		out = append(out, number)
	}
	return out
}

// candidateNames collects the parsed sender plus every two-word
// capitalized sequence found in the reference text.
func candidateNames(tx internal.BankTransaction) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, 2)
	add := func(name string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}

	if tx.SenderName != nil {
		add(*tx.SenderName)
	}
	for _, pair := range reNamePair.FindAllString(tx.ReferenceText, -1) {
		add(pair)
	}
	return out
}

func customerName(order *internal.Order) string {
	return strings.TrimSpace(order.Billing.FirstName + " " + order.Billing.LastName)
}

func amountsAgree(txAmount *decimal.Decimal, orderTotal string) bool {
	if txAmount == nil {
		return false
	}
	total, ok := util.ParseEuroAmount(orderTotal)
	if !ok {
		return false
	}
	return util.AmountsEqual(*txAmount, total)
}
