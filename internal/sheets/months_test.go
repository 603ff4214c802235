package sheets

import (
	"testing"

	"linguaops/internal"
)

func tabList(titles ...string) []internal.SheetTab {
	tabs := make([]internal.SheetTab, len(titles))
	for i, title := range titles {
		tabs[i] = internal.SheetTab{Title: title, GID: int64(i + 100), Index: int64(i)}
	}
	return tabs
}

func TestResolveMonthTabNumericPatternWins(t *testing.T) {
	tabs := tabList("01.2025", "Vorlage", "02.2025")

	tab, ok := ResolveMonthTab(tabs, 2, 2025)
	if !ok || tab.Title != "02.2025" {
		t.Fatalf("tab=%+v ok=%v, want 02.2025 via the numeric pattern", tab, ok)
	}
}

func TestResolveMonthTabNumericVariants(t *testing.T) {
	cases := []struct {
		title string
		month int
		year  int
	}{
		{"2.2025", 2, 2025},
		{"2025.02", 2, 2025},
		{"2025.2", 2, 2025},
		{"Februar 02/2025", 2, 2025},
	}
	for _, c := range cases {
		tab, ok := ResolveMonthTab(tabList("Notizen", c.title), c.month, c.year)
		if !ok || tab.Title != c.title {
			t.Errorf("title %q: got %+v ok=%v", c.title, tab, ok)
		}
	}
}

func TestResolveMonthTabYearPositional(t *testing.T) {
	tabs := tabList("Jan 2025", "Feb 2025", "März 2025")

	tab, ok := ResolveMonthTab(tabs, 2, 2025)
	if !ok || tab.Title != "Feb 2025" {
		t.Fatalf("tab=%+v ok=%v", tab, ok)
	}
}

func TestResolveMonthTabAllPositional(t *testing.T) {
	tabs := tabList("Tab Eins", "Tab Zwei", "Tab Drei")

	tab, ok := ResolveMonthTab(tabs, 3, 2025)
	if !ok || tab.Title != "Tab Drei" {
		t.Fatalf("tab=%+v ok=%v", tab, ok)
	}
}

func TestResolveMonthTabTokenScoring(t *testing.T) {
	// Month beyond the tab count, so the positional methods cannot
	// answer and the token scorer decides.
	tabs := tabList("Notizen", "Dezember 2024")

	tab, ok := ResolveMonthTab(tabs, 12, 2024)
	if !ok || tab.Title != "Dezember 2024" {
		t.Fatalf("tab=%+v ok=%v", tab, ok)
	}
}

func TestResolveMonthTabUnresolved(t *testing.T) {
	if _, ok := ResolveMonthTab(tabList("Notizen"), 5, 2025); ok {
		t.Fatal("unresolvable month must report no tab, not an error")
	}
	if _, ok := ResolveMonthTab(nil, 2, 2025); ok {
		t.Fatal("empty tab list must not resolve")
	}
}

func TestMonthKeyFromDate(t *testing.T) {
	month, year, ok := MonthKeyFromDate("14.06.2025")
	if !ok || month != 6 || year != 2025 {
		t.Fatalf("month=%d year=%d ok=%v", month, year, ok)
	}
	if _, _, ok := MonthKeyFromDate("2025-06-14"); ok {
		t.Fatal("non-German date must not parse")
	}
}
