package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FoldDiacritics decomposes the input (NFD) and drops combining marks,
// so "Müller" and "Muller" compare equal.
func FoldDiacritics(input string) string {
	decomposed := norm.NFD.String(input)
	out := strings.Builder{}
	out.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}

var umlauts = strings.NewReplacer(
	"ä", "ae", "Ä", "ae",
	"ö", "oe", "Ö", "oe",
	"ü", "ue", "Ü", "ue",
	"ß", "ss",
)

// NormalizeText lowercases, transliterates German umlauts to their
// digraph form, folds remaining diacritics and collapses every run of
// non-alphanumeric characters to a single space. The umlaut step keeps
// "Müller" and "Mueller" comparable.
func NormalizeText(input string) string {
	s := strings.ToLower(FoldDiacritics(umlauts.Replace(input)))
	out := strings.Builder{}
	out.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && out.Len() > 0 {
				out.WriteByte(' ')
			}
			pendingSpace = false
			out.WriteRune(r)
		} else {
			pendingSpace = true
		}
	}
	return out.String()
}

func Tokenize(input string) []string {
	norm := NormalizeText(input)
	if norm == "" {
		return nil
	}
	return strings.Split(norm, " ")
}

// TokenSetSimilarity scores two name strings by shared normalized
// tokens: 2*|shared| / (|tokens(a)| + |tokens(b)|). Tokens are counted
// as sets, so repeated words do not inflate the score.
func TokenSetSimilarity(a, b string) float64 {
	ta := Tokenize(a)
	tb := Tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	setA := map[string]struct{}{}
	for _, t := range ta {
		setA[t] = struct{}{}
	}
	setB := map[string]struct{}{}
	for _, t := range tb {
		setB[t] = struct{}{}
	}

	shared := 0
	for t := range setA {
		if _, ok := setB[t]; ok {
			shared++
		}
	}

	return float64(2*shared) / float64(len(setA)+len(setB))
}
