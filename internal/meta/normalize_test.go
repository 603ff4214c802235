package meta

import (
	"testing"

	"linguaops/internal"
)

func TestNormalizeKeyIdempotent(t *testing.T) {
	inputs := []string{
		"Geburtsdatum:", "_order_geburtsland", "Prüfungsteil",
		"  Exam   Date  ", "B.Nr", "already normal",
	}
	for _, in := range inputs {
		once := NormalizeKey(in)
		twice := NormalizeKey(once)
		if once != twice {
			t.Errorf("NormalizeKey not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalizeKeyForms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Geburtsdatum:", "geburtsdatum"},
		{"Prüfungsteil", "pruefungsteil"},
		// digraph and umlaut spellings of the same field collide
		{"pruefungsteil", "pruefungsteil"},
		{"Prüfungsdatum", "pruefungsdatum"},
		{"pruefungsdatum", "pruefungsdatum"},
		{"Straße", "strasse"},
		{"_order_geburtsland", "order geburtsland"},
		{"Exam--Date", "exam date"},
		{"B.Nr", "b nr"},
	}
	for _, c := range cases {
		if got := NormalizeKey(c.in); got != c.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCoerceValue(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"  text  ", "text"},
		{float64(179), "179"},
		{float64(89.9), "89.9"},
		{map[string]any{"label": "Per Post", "value": "post"}, "Per Post"},
		{map[string]any{"value": "post"}, "post"},
		{map[string]any{"price": "10"}, `{"price":"10"}`},
		{[]any{"B1", "B2"}, "B1, B2"},
		{[]any{"B1", nil, ""}, "B1"},
	}
	for _, c := range cases {
		if got := CoerceValue(c.in); got != c.want {
			t.Errorf("CoerceValue(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestBuildMapLineItemWins(t *testing.T) {
	order := internal.Order{
		MetaData: []internal.MetaEntry{
			{Key: "Prüfungsteil", Value: "Gesamt"},
			{Key: "Geburtsort", Value: "Berlin"},
		},
		LineItems: []internal.LineItem{
			{MetaData: []internal.MetaEntry{
				{Key: "prüfungsteil", Value: "Nur Mündlich"},
			}},
		},
	}

	m := BuildMap(order)

	if v, _ := m.Get("pruefungsteil"); v != "Nur Mündlich" {
		t.Errorf("line-item value should win on collision, got %q", v)
	}
	if v, _ := m.Get("geburtsort"); v != "Berlin" {
		t.Errorf("order-level value lost, got %q", v)
	}
	if m.Keys()[0] != "pruefungsteil" {
		t.Errorf("overwrite must keep first-insertion position, keys = %v", m.Keys())
	}
}

func TestBuildMapNameAndOptionForms(t *testing.T) {
	order := internal.Order{
		LineItems: []internal.LineItem{
			{MetaData: []internal.MetaEntry{
				// addon plugins key entries by "name" and carry the
				// chosen value in "option"
				{Name: "Prüfungstermin wählen", Option: "14.06.2025"},
				{Key: "zustellung", Value: nil, Option: "Per Post"},
			}},
		},
	}

	m := BuildMap(order)

	if v, _ := m.Get("pruefungstermin waehlen"); v != "14.06.2025" {
		t.Errorf("name-keyed entry lost, got %q", v)
	}
	if v, _ := m.Get("zustellung"); v != "Per Post" {
		t.Errorf("option value fallback failed, got %q", v)
	}
}

func TestBuildMapSkipsEmpty(t *testing.T) {
	order := internal.Order{
		MetaData: []internal.MetaEntry{
			{Key: "geburtsort", Value: "Hamburg"},
			{Key: "geburtsort", Value: ""},
			{Key: "leer", Value: nil},
		},
	}

	m := BuildMap(order)

	if v, _ := m.Get("geburtsort"); v != "Hamburg" {
		t.Errorf("empty later value must not shadow a real one, got %q", v)
	}
	if _, ok := m.Get("leer"); ok {
		t.Errorf("nil values must stay absent")
	}
}

func TestBuildMapDisplayKeyAndLabel(t *testing.T) {
	order := internal.Order{
		MetaData: []internal.MetaEntry{
			{
				Key:        "_billing_exam_date",
				DisplayKey: "Prüfungsdatum",
				Value:      "14.06.2025",
			},
			{
				Key:   "zustellung",
				Value: map[string]any{"label": "Versandart", "value": "post"},
			},
		},
	}

	m := BuildMap(order)

	if v, _ := m.Get("pruefungsdatum"); v != "14.06.2025" {
		t.Errorf("display key lookup failed, got %q", v)
	}
	if v, _ := m.Get("billing exam date"); v != "14.06.2025" {
		t.Errorf("primary key lookup failed, got %q", v)
	}
	if v, _ := m.Get("versandart"); v != "Versandart" {
		t.Errorf("label key lookup failed, got %q", v)
	}
}
