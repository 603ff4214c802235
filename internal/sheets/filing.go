package sheets

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"linguaops/internal"
	"linguaops/internal/recon"
)

// RosterHeader is the column layout the monthly roster tabs use.
var RosterHeader = []string{
	"B.Nr", "Nachname", "Vorname", "Geb.Datum", "Geburtsort", "Geburtsland",
	"Email", "Tel.Nr.", "Prüfung", "Prüfungsteil", "Zertifikat",
	"P.Datum", "B.Datum", "Zahlung", "Preis", "Status", "Mitarbeiter",
}

type FilingReport struct {
	Filed      int
	Unresolved []string
}

// Filer appends reconciled participants into the month tab their exam
// date falls in. Each appended batch is separated from existing
// content by two blank rows and starts with a fresh header row.
type Filer struct {
	api ValuesAPI
	log *logrus.Logger
}

func NewFiler(api ValuesAPI, log *logrus.Logger) *Filer {
	return &Filer{api: api, log: log}
}

func (f *Filer) FileRows(ctx context.Context, spreadsheetID string, rows []internal.Participant, staff string) (FilingReport, error) {
	report := FilingReport{}
	if len(rows) == 0 {
		return report, nil
	}

	tabs, err := f.api.ListTabs(ctx, spreadsheetID)
	if err != nil {
		return report, fmt.Errorf("list tabs: %w", err)
	}

	groups := map[string][]internal.Participant{}
	keys := make([]string, 0)
	for _, p := range rows {
		month, year, ok := MonthKeyFromDate(p.ExamDate)
		if !ok {
			report.Unresolved = append(report.Unresolved, p.ExamDate)
			continue
		}
		key := fmt.Sprintf("%02d.%d", month, year)
		if _, seen := groups[key]; !seen {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], p)
	}
	sort.Strings(keys)

	for _, key := range keys {
		group := groups[key]
		sort.SliceStable(group, func(i, j int) bool {
			return examDate(group[i].ExamDate).Before(examDate(group[j].ExamDate))
		})

		month, year, _ := MonthKeyFromDate("01." + key)
		tab, ok := ResolveMonthTab(tabs, month, year)
		if !ok {
			f.log.WithField("month", key).Warn("no tab for month, group skipped")
			report.Unresolved = append(report.Unresolved, key)
			continue
		}

		// separator rows need one empty cell each; the append API
		// drops rows with no cells at all
		batch := [][]string{{""}, {""}, RosterHeader}
		for _, p := range group {
			batch = append(batch, participantRow(p, staff))
		}
		for _, row := range batch {
			if err := f.api.AppendRow(ctx, spreadsheetID, tab.Title, row); err != nil {
				return report, fmt.Errorf("append to %s: %w", tab.Title, err)
			}
		}
		report.Filed += len(group)
		f.log.WithFields(logrus.Fields{"tab": tab.Title, "rows": len(group)}).Info("group filed")
	}

	return report, nil
}

func participantRow(p internal.Participant, staff string) []string {
	return []string{
		p.OrderNumber, p.LastName, p.FirstName, p.BirthDate,
		p.BirthPlace, p.BirthCountry, p.Email, p.Phone,
		p.ExamKind, p.ExamPart, recon.CertificateDisplay(p.CertificateDelivery),
		p.ExamDate, p.BookingDate, p.Payment, p.Price, p.Status, staff,
	}
}

func examDate(date string) time.Time {
	t, err := time.Parse("02.01.2006", date)
	if err != nil {
		return time.Time{}
	}
	return t
}
