package meta

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"linguaops/internal"
	"linguaops/internal/util"
)

// NormalizeKey folds a metadata field name to its canonical lookup
// form: lowercase, umlauts transliterated to their digraphs, remaining
// diacritics stripped, runs of non-alphanumerics collapsed to one
// space. Store plugins spell the same field "prüfungsdatum" or
// "pruefungsdatum" depending on their encoding; both land on the same
// key. The function is idempotent.
func NormalizeKey(raw string) string {
	return util.NormalizeText(raw)
}

// Map is an insertion-ordered normalized-key -> value mapping. A
// second Set for an existing key overwrites the value but keeps the
// key's original position, so extraction tie-breaks stay stable.
type Map struct {
	keys   []string
	values map[string]string
}

func NewMap() *Map {
	return &Map{values: map[string]string{}}
}

func (m *Map) Set(key, value string) {
	if key == "" || value == "" {
		return
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *Map) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *Map) Keys() []string {
	return m.keys
}

func (m *Map) Len() int {
	return len(m.keys)
}

// CoerceValue flattens an arbitrary metadata value into a display
// string. Objects resolve through a label/value preference and fall
// back to their JSON encoding, lists join with ", ", numbers print
// without trailing zeros. Nil and empty values coerce to "" so the
// caller can skip them.
func CoerceValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case map[string]any:
		if s := CoerceValue(t["label"]); s != "" {
			return s
		}
		if s := CoerceValue(t["value"]); s != "" {
			return s
		}
		if b, err := json.Marshal(t); err == nil {
			return string(b)
		}
		return ""
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s := CoerceValue(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

func addEntry(m *Map, entry internal.MetaEntry) {
	value := CoerceValue(entry.Value)
	if value == "" {
		value = CoerceValue(entry.DisplayValue)
	}
	if value == "" {
		value = CoerceValue(entry.Option)
	}
	if value == "" {
		return
	}

	m.Set(NormalizeKey(entry.Key), value)
	if entry.Name != "" {
		m.Set(NormalizeKey(entry.Name), value)
	}
	if entry.DisplayKey != "" {
		m.Set(NormalizeKey(entry.DisplayKey), value)
	}
	if obj, ok := entry.Value.(map[string]any); ok {
		if label := CoerceValue(obj["label"]); label != "" {
			m.Set(NormalizeKey(label), value)
		}
	}
}

// BuildMap merges order-level metadata with every line item's
// metadata into one flat lookup. Line items are added last, so their
// values win on key collision.
func BuildMap(order internal.Order) *Map {
	m := NewMap()
	for _, entry := range order.MetaData {
		addEntry(m, entry)
	}
	for _, item := range order.LineItems {
		for _, entry := range item.MetaData {
			addEntry(m, entry)
		}
	}
	return m
}
