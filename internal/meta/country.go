package meta

import (
	"strings"

	"github.com/biter777/countries"

	"linguaops/internal/util"
)

// German country names show up verbatim in order metadata; the lookup
// library only knows English names, so the common ones are mapped
// here. Keys are NormalizeText forms.
var germanCountryNames = map[string]string{
	"deutschland":             "DEU",
	"oesterreich":             "AUT",
	"schweiz":                 "CHE",
	"tuerkei":                 "TUR",
	"russland":                "RUS",
	"ukraine":                 "UKR",
	"polen":                   "POL",
	"rumaenien":               "ROU",
	"bulgarien":               "BGR",
	"kroatien":                "HRV",
	"serbien":                 "SRB",
	"bosnien und herzegowina": "BIH",
	"griechenland":            "GRC",
	"italien":                 "ITA",
	"spanien":                 "ESP",
	"frankreich":              "FRA",
	"syrien":                  "SYR",
	"irak":                    "IRQ",
	"iran":                    "IRN",
	"afghanistan":             "AFG",
	"marokko":                 "MAR",
	"tunesien":                "TUN",
	"aegypten":                "EGY",
	"albanien":                "ALB",
	"kosovo":                  "XKX",
	"nordmazedonien":          "MKD",
	"mazedonien":              "MKD",
	"ungarn":                  "HUN",
	"tschechien":              "CZE",
	"slowakei":                "SVK",
	"moldau":                  "MDA",
	"moldawien":               "MDA",
	"belarus":                 "BLR",
	"weissrussland":           "BLR",
	"georgien":                "GEO",
	"armenien":                "ARM",
	"aserbaidschan":           "AZE",
	"kasachstan":              "KAZ",
	"usbekistan":              "UZB",
	"indien":                  "IND",
	"pakistan":                "PAK",
	"china":                   "CHN",
	"vietnam":                 "VNM",
	"brasilien":               "BRA",
	"kolumbien":               "COL",
	"mexiko":                  "MEX",
	"vereinigte staaten":      "USA",
	"grossbritannien":         "GBR",
	"niederlande":             "NLD",
	"belgien":                 "BEL",
	"portugal":                "PRT",
}

// CountryAlpha3 resolves a free-text country identifier to its ISO3
// code, trying ISO3, ISO2, the German name and finally the English
// name. Unrecognizable input passes through unchanged.
func CountryAlpha3(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	up := strings.ToUpper(s)
	if len(up) == 3 || len(up) == 2 {
		if c := countries.ByName(up); c.IsValid() {
			return c.Alpha3()
		}
	}

	if code, ok := germanCountryNames[util.NormalizeText(s)]; ok {
		return code
	}

	if c := countries.ByName(s); c.IsValid() {
		return c.Alpha3()
	}

	return s
}
