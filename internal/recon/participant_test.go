package recon

import (
	"testing"

	"linguaops/internal"
)

func TestBuildParticipantMetadataAndBilling(t *testing.T) {
	order := internal.Order{
		ID:     4821,
		Number: "4821",
		Total:  "179.00",
		Status: "processing",
		Billing: internal.Billing{
			FirstName: "Ana",
			LastName:  "Popescu",
			Email:     "ana@example.test",
			Country:   "RO",
		},
		MetaData: []internal.MetaEntry{
			{Key: "prüfungsteil", Value: "Nur Mündlich"},
			{Key: "prüfungsdatum", Value: "2025-06-14"},
			{Key: "geburtsland", Value: "Rumänien"},
			{Key: "zertifikat", Value: "Per Post versenden"},
		},
		LineItems: []internal.LineItem{
			{Name: "telc Deutsch B1 Prüfung"},
		},
	}

	p := BuildParticipant(order)

	if p.FirstName != "Ana" || p.LastName != "Popescu" {
		t.Errorf("billing names lost: %+v", p)
	}
	if p.ExamPart != "nur mündlich" {
		t.Errorf("examPart = %q, want %q", p.ExamPart, "nur mündlich")
	}
	if p.ExamKind != "B1" {
		t.Errorf("examKind = %q, want B1", p.ExamKind)
	}
	if p.ExamDate != "14.06.2025" {
		t.Errorf("examDate = %q, want 14.06.2025", p.ExamDate)
	}
	if p.BirthCountry != "ROU" {
		t.Errorf("birthCountry = %q, want ROU", p.BirthCountry)
	}
	if p.Nationality != "ROU" {
		t.Errorf("nationality from billing country = %q, want ROU", p.Nationality)
	}
}

func TestBuildParticipantPrefixedKeys(t *testing.T) {
	order := internal.Order{
		Billing: internal.Billing{FirstName: "Omar", LastName: "Haddad"},
		MetaData: []internal.MetaEntry{
			{Key: "_order_geburtsland", Value: "Syrien"},
			{Key: "_order_geburtsort", Value: "Aleppo"},
		},
	}

	p := BuildParticipant(order)

	if p.BirthCountry != "SYR" {
		t.Errorf("prefixed birth country = %q, want SYR", p.BirthCountry)
	}
	if p.BirthPlace != "Aleppo" {
		t.Errorf("prefixed birth place = %q, want Aleppo", p.BirthPlace)
	}
}

func TestBuildParticipantDigraphSpelledKeys(t *testing.T) {
	order := internal.Order{
		ID:      4821,
		Number:  "4821",
		Billing: internal.Billing{FirstName: "Hans", LastName: "Meier"},
		MetaData: []internal.MetaEntry{
			{Key: "pruefungsdatum", Value: "14.06.2025"},
			{Key: "zertifikat", Value: "Per Post"},
			{Key: "niveau", Value: "B1"},
		},
	}

	p := BuildParticipant(order)

	if p.ExamDate != "14.06.2025" {
		t.Fatalf("digraph-spelled exam date key not extracted: examDate=%q", p.ExamDate)
	}
	if !MatchesExam(p, internal.ExamDefinition{Kind: "B1", Date: "14.06.2025"}) {
		t.Errorf("order with digraph-spelled keys must reconcile")
	}
}

func TestCertificateDisplay(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Per Post versenden", "Per Post"},
		{"Zustellung per POST", "Per Post"},
		{"Abholung im Büro", "Abholen im Büro"},
		{"Sonstiges", "Sonstiges"},
	}
	for _, c := range cases {
		if got := CertificateDisplay(c.in); got != c.want {
			t.Errorf("CertificateDisplay(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
