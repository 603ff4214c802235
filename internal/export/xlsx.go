package export

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"linguaops/internal"
)

// ParticipantsToXLSX writes reconciled participants in the roster
// column layout.
func ParticipantsToXLSX(rows []internal.Participant, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"B.Nr", "Nachname", "Vorname", "Geb.Datum", "Geburtsort", "Geburtsland",
		"Email", "Tel.Nr.", "Prüfung", "Prüfungsteil", "Zertifikat",
		"P.Datum", "B.Datum", "Zahlung", "Preis", "Status",
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, p := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, p.OrderNumber)
		set(2, p.LastName)
		set(3, p.FirstName)
		set(4, p.BirthDate)
		set(5, p.BirthPlace)
		set(6, p.BirthCountry)
		set(7, p.Email)
		set(8, p.Phone)
		set(9, p.ExamKind)
		set(10, p.ExamPart)
		set(11, p.CertificateDelivery)
		set(12, p.ExamDate)
		set(13, p.BookingDate)
		set(14, p.Payment)
		set(15, p.Price)
		set(16, p.Status)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

// AddressesToXLSX writes the postal address list for certificate
// mailing, one row per participant with postal delivery.
func AddressesToXLSX(rows []internal.Participant, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"Nachname", "Vorname", "Straße", "Adresszusatz", "PLZ", "Stadt", "Land",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, p := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, p.LastName)
		set(2, p.FirstName)
		set(3, p.Address1)
		set(4, p.Address2)
		set(5, p.Postcode)
		set(6, p.City)
		set(7, p.Country)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
