package sheets

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"linguaops/internal"
	"linguaops/internal/util"
)

var germanMonths = [12]string{
	"januar", "februar", "maerz", "april", "mai", "juni",
	"juli", "august", "september", "oktober", "november", "dezember",
}

var reNonDigits = regexp.MustCompile(`[^0-9]+`)

// digitsWithDots reduces a tab title to its digit groups joined by
// single dots, so "Februar 02/2025" compares as "02.2025".
func digitsWithDots(title string) string {
	return strings.Trim(reNonDigits.ReplaceAllString(title, "."), ".")
}

// ResolveMonthTab finds the tab holding a given month's roster. Four
// methods run in order and the first hit wins: exact numeric pattern,
// per-year positional mapping, all-tab positional mapping, and token
// scoring over the title text.
func ResolveMonthTab(tabs []internal.SheetTab, month, year int) (internal.SheetTab, bool) {
	if month < 1 || month > 12 || len(tabs) == 0 {
		return internal.SheetTab{}, false
	}

	// Method 1: numeric title patterns.
	patterns := []string{
		fmt.Sprintf("%02d.%d", month, year),
		fmt.Sprintf("%d.%d", month, year),
		fmt.Sprintf("%d.%02d", year, month),
		fmt.Sprintf("%d.%d", year, month),
	}
	for _, tab := range tabs {
		normalized := digitsWithDots(tab.Title)
		for _, pattern := range patterns {
			if normalized == pattern {
				return tab, true
			}
		}
	}

	byIndex := make([]internal.SheetTab, len(tabs))
	copy(byIndex, tabs)
	sort.SliceStable(byIndex, func(i, j int) bool { return byIndex[i].Index < byIndex[j].Index })

	// Method 2: position among the target year's tabs.
	yearToken := strconv.Itoa(year)
	yearTabs := make([]internal.SheetTab, 0, len(byIndex))
	for _, tab := range byIndex {
		if strings.Contains(tab.Title, yearToken) {
			yearTabs = append(yearTabs, tab)
		}
	}
	if len(yearTabs) > 0 && month-1 < len(yearTabs) {
		return yearTabs[month-1], true
	}

	// Method 3: position among all tabs, tab 0 taken as January.
	if month-1 < len(byIndex) {
		return byIndex[month-1], true
	}

	// Method 4: token scoring over the title text.
	monthName := germanMonths[month-1]
	monthNum := strconv.Itoa(month)
	monthPadded := fmt.Sprintf("%02d", month)

	best := internal.SheetTab{}
	bestScore := 0
	for _, tab := range byIndex {
		tokens := util.Tokenize(tab.Title)
		score := 0
		for _, token := range tokens {
			if token == monthName || token == monthNum || token == monthPadded {
				score = 2
				break
			}
		}
		if score > 0 {
			for _, token := range tokens {
				if token == yearToken {
					score++
					break
				}
			}
		}
		if score > bestScore {
			bestScore = score
			best = tab
		}
	}
	if bestScore > 0 {
		return best, true
	}

	return internal.SheetTab{}, false
}

// MonthKeyFromDate pulls the month and year out of a DD.MM.YYYY date.
func MonthKeyFromDate(date string) (month, year int, ok bool) {
	parts := strings.Split(strings.TrimSpace(date), ".")
	if len(parts) != 3 {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	y, err := strconv.Atoi(parts[2])
	if err != nil {
		return 0, 0, false
	}
	return m, y, true
}
