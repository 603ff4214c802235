package meta

// Per-field alias lists, in priority order. Every component that needs
// a logical field goes through the same list, so extraction behaves
// identically across the bank matcher, the reconciliation engine and
// the exports. Entries are raw spellings; Extract normalizes them.
var (
	AliasExamDate = []string{
		"prüfungsdatum", "prüfungstermin", "prüfungstermin wählen",
		"p datum", "p.datum", "exam_date", "exam date",
		"choose exam date", "termin", "datum der prüfung",
	}

	AliasExamKind = []string{
		"prüfung", "prüfungstyp", "exam", "exam_type", "kurs", "produkt",
	}

	AliasExamPart = []string{
		"prüfungsteil", "exam_part", "exam part", "teilnahme",
		"teilnahmeart", "modul",
	}

	AliasLevel = []string{
		"level", "niveau", "prüfungsniveau", "sprachniveau",
		"exam_level", "language_level", "stufe",
	}

	AliasBirthDate = []string{
		"dob", "date_of_birth", "geburtsdatum", "birth_date",
		"birthdate", "birthday", "geb datum", "geb.datum", "geburtstag",
	}

	AliasBirthPlace = []string{
		"geburtsort", "birth_place", "birthplace", "place_of_birth",
		"geburtsstadt",
	}

	AliasBirthCountry = []string{
		"geburtsland", "birth_country", "country_of_birth",
	}

	AliasNationality = []string{
		"nationalität", "nationality", "staatsangehörigkeit",
		"staatsbürgerschaft",
	}

	AliasCertificate = []string{
		"zertifikat", "zertifikat versand", "lieferung_zertifikat",
		"zertifikat_abholung", "certificate", "certificate_delivery",
		"versand", "zustellung",
	}

	AliasBookingDate = []string{
		"b datum", "b.datum", "buchungsdatum", "booking_date",
	}

	// AliasOrderNumberHeader names the column headers under which
	// historical roster sheets keep the 4-digit order code.
	AliasOrderNumberHeader = []string{
		"b nr", "b.nr", "bnr", "bestellnummer", "bestellnr",
		"order", "order number", "ordernumber", "nr",
	}
)
