// Package region provides best-effort display normalization of region names.
package region

var australiaStates = map[string]string{
	"New South Wales":              "NSW",
	"Queensland":                   "QLD",
	"Victoria":                     "Vic",
	"South Australia":              "SA",
	"Northern Territory":           "NT",
	"Australian Capital Territory": "ACT",
	"Tasmania":                     "Tas",
	"Western Australia":            "WA",
}

// The USA table also carries Canadian provinces; the upstream region data
// files them under the same country entry.
var usaStates = map[string]string{
	"Alabama":                 "AL",
	"Alaska":                  "AK",
	"Arizona":                 "AZ",
	"Arkansas":                "AR",
	"California":              "CA",
	"Colorado":                "CO",
	"Connecticut":             "CT",
	"Delaware":                "DE",
	"Florida":                 "FL",
	"Georgia":                 "GA",
	"Hawaii":                  "HI",
	"Idaho":                   "ID",
	"Illinois":                "IL",
	"Indiana":                 "IN",
	"Iowa":                    "IA",
	"Kansas":                  "KS",
	"Kentucky":                "KY",
	"Louisiana":               "LA",
	"Maine":                   "ME",
	"Maryland":                "MD",
	"Massachusetts":           "MA",
	"Michigan":                "MI",
	"Minnesota":               "MN",
	"Mississippi":             "MS",
	"Missouri":                "MO",
	"Montana":                 "MT",
	"Nebraska":                "NE",
	"Nevada":                  "NV",
	"New Hampshire":           "NH",
	"New Jersey":              "NJ",
	"New Mexico":              "NM",
	"New York":                "NY",
	"North Carolina":          "NC",
	"North Dakota":            "ND",
	"Ohio":                    "OH",
	"Oklahoma":                "OK",
	"Oregon":                  "OR",
	"Pennsylvania":            "PA",
	"Rhode Island":            "RI",
	"South Carolina":          "SC",
	"South Dakota":            "SD",
	"Tennessee":               "TN",
	"Texas":                   "TX",
	"Utah":                    "UT",
	"Vermont":                 "VT",
	"Virginia":                "VA",
	"Washington":              "WA",
	"Washington D.C.":         "DC",
	"West Virginia":           "WV",
	"Wisconsin":               "WI",
	"Wyoming":                 "WY",
	"Alberta":                 "AB",
	"British Columbia":        "BC",
	"Manitoba":                "MB",
	"New Brunswick":           "NB",
	"Newfoundland & Labrador": "NL",
	"Northwest Territories":   "NT",
	"Nova Scotia":             "NS",
	"Nunavut":                 "NU",
	"Ontario":                 "ON",
	"Prince Edward Island":    "PE",
	"Quebec":                  "QC",
	"Saskatchewan":            "SK",
	"Yukon Territory":         "YT",
}

var countries = map[string]map[string]string{
	"Australia": australiaStates,
	"USA":       usaStates,
}

// Abbreviate maps a long state name to its short form for the given country.
// Unmapped states or countries return the input unchanged; this is a display
// transform, not a validation.
func Abbreviate(stateName, countryName string) string {
	states, ok := countries[countryName]
	if !ok {
		return stateName
	}
	if abbr, ok := states[stateName]; ok {
		return abbr
	}
	return stateName
}
