package meta

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"linguaops/internal"
)

// Extract returns the first non-empty value found for any alias, in
// alias priority order, using exact normalized-key lookup. The second
// return reports whether anything was found, so an absent field is
// distinguishable from a present-but-empty one.
func Extract(m *Map, aliases []string) (string, bool) {
	for _, alias := range aliases {
		if v, ok := m.Get(NormalizeKey(alias)); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// ExtractLoose adds a suffix-matching pass on top of Extract, for maps
// whose keys carry store-specific prefixes such as "_order_geburtsland".
// A map key matches an alias when it equals the normalized alias or
// ends with " ", "-" or "_" followed by it. Map insertion order breaks
// ties.
func ExtractLoose(m *Map, aliases []string) (string, bool) {
	if v, ok := Extract(m, aliases); ok {
		return v, true
	}
	for _, alias := range aliases {
		norm := NormalizeKey(alias)
		for _, key := range m.Keys() {
			if key == norm ||
				strings.HasSuffix(key, " "+norm) ||
				strings.HasSuffix(key, "-"+norm) ||
				strings.HasSuffix(key, "_"+norm) {
				if v, _ := m.Get(key); v != "" {
					return v, true
				}
			}
		}
	}
	return "", false
}

const (
	PartOral    = "nur mündlich"
	PartWritten = "nur schriftlich"
	PartFull    = "Gesamt"
)

// ClassifyExamPart maps free-text exam-part descriptions to one of the
// three canonical participation modes.
func ClassifyExamPart(raw string) string {
	s := strings.ToLower(raw)
	if strings.Contains(s, "mündlich") || strings.Contains(s, "muendlich") {
		return PartOral
	}
	if strings.Contains(s, "schriftlich") {
		return PartWritten
	}
	return PartFull
}

// ResolveExamPart finds the participation mode for an order: the
// exam-part field if present, the exam-kind field if it carries an
// oral/written marker, and as a last resort a scan of every metadata
// value for the literal mode strings.
func ResolveExamPart(m *Map) string {
	if v, ok := Extract(m, AliasExamPart); ok {
		return ClassifyExamPart(v)
	}
	if v, ok := Extract(m, AliasExamKind); ok {
		s := strings.ToLower(v)
		if strings.Contains(s, "mündlich") || strings.Contains(s, "muendlich") {
			return PartOral
		}
		if strings.Contains(s, "schriftlich") {
			return PartWritten
		}
	}
	for _, key := range m.Keys() {
		v, _ := m.Get(key)
		s := strings.ToLower(v)
		if strings.Contains(s, "nur mündlich") || strings.Contains(s, "nur muendlich") {
			return PartOral
		}
		if strings.Contains(s, "nur schriftlich") {
			return PartWritten
		}
	}
	return PartFull
}

var reLevel = regexp.MustCompile(`(?i)\b(b1|b2|c1)\b`)

// DetectLevel resolves the exam level (B1, B2 or C1) from the level
// alias group, falling back to a scan of every line item's name, SKU
// and description. Returns "" when no level is recognizable.
func DetectLevel(m *Map, items []internal.LineItem) string {
	if v, ok := Extract(m, AliasLevel); ok {
		if hit := reLevel.FindString(v); hit != "" {
			return strings.ToUpper(hit)
		}
	}
	for _, item := range items {
		for _, field := range []string{item.Name, item.SKU, StripHTML(item.Description)} {
			if hit := reLevel.FindString(field); hit != "" {
				return strings.ToUpper(hit)
			}
		}
	}
	return ""
}

// StripHTML reduces a line-item description to its text content.
func StripHTML(html string) string {
	if !strings.Contains(html, "<") {
		return html
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	return strings.TrimSpace(doc.Text())
}

var (
	reDateDE  = regexp.MustCompile(`^(\d{1,2})\.(\d{1,2})\.(\d{4})$`)
	reDateISO = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
)

// NormalizeDateDE brings a date of any accepted shape to DD.MM.YYYY.
// DD.MM.YYYY inputs are zero-padded as-is, ISO dates are converted,
// and anything else runs through a set of layout parses. Unparseable
// input is returned trimmed so equality checks still see something.
func NormalizeDateDE(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if match := reDateDE.FindStringSubmatch(s); match != nil {
		t, err := time.Parse("2.1.2006", s)
		if err == nil {
			return t.Format("02.01.2006")
		}
		return s
	}
	if match := reDateISO.FindStringSubmatch(s); match != nil {
		t, err := time.Parse("2006-01-02", match[0])
		if err == nil {
			return t.Format("02.01.2006")
		}
		return s
	}
	for _, layout := range []string{
		time.RFC3339, "2006-01-02T15:04:05", "2006/01/02",
		"02/01/2006", "2.1.06",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("02.01.2006")
		}
	}
	return s
}
