package validation

import "strings"

// CountryProfile holds the locale conventions a report must follow.
type CountryProfile struct {
	Code           string
	Name           string
	CurrencySymbol string
	CurrencyCode   string
	// Register describes the expected terminology for prompts and fixes.
	Register string
	// RequiresState is true when addresses carry a two-letter state or
	// province code.
	RequiresState bool
	// DiscouragedTerms are words from another legal system.
	DiscouragedTerms []string
}

var profiles = map[string]CountryProfile{
	"US": {
		Code:             "US",
		Name:             "United States",
		CurrencySymbol:   "$",
		CurrencyCode:     "USD",
		Register:         "American English; attorney, law firm, state bar",
		RequiresState:    true,
		DiscouragedTerms: []string{"solicitor", "barrister", "high street"},
	},
	"CA": {
		Code:             "CA",
		Name:             "Canada",
		CurrencySymbol:   "$",
		CurrencyCode:     "CAD",
		Register:         "Canadian English; lawyer, law firm, law society",
		RequiresState:    true,
		DiscouragedTerms: []string{"state bar", "zip code"},
	},
	"UK": {
		Code:             "UK",
		Name:             "United Kingdom",
		CurrencySymbol:   "£",
		CurrencyCode:     "GBP",
		Register:         "British English; solicitor, barrister, practice",
		DiscouragedTerms: []string{"attorney", "zip code", "state bar"},
	},
	"AU": {
		Code:             "AU",
		Name:             "Australia",
		CurrencySymbol:   "$",
		CurrencyCode:     "AUD",
		Register:         "Australian English; solicitor, barrister, law firm",
		DiscouragedTerms: []string{"attorney", "zip code", "state bar"},
	},
}

var countryAliases = map[string]string{
	"":               "US",
	"us":             "US",
	"usa":            "US",
	"united states":  "US",
	"ca":             "CA",
	"canada":         "CA",
	"uk":             "UK",
	"gb":             "UK",
	"united kingdom": "UK",
	"england":        "UK",
	"au":             "AU",
	"australia":      "AU",
}

// ProfileFor returns the profile for a country name or code. An empty
// country means the United States. Unknown countries get a profile with no
// currency or terminology expectations.
func ProfileFor(country string) CountryProfile {
	key := strings.ToLower(strings.TrimSpace(country))
	if code, ok := countryAliases[key]; ok {
		return profiles[code]
	}
	return CountryProfile{Code: strings.ToUpper(key), Name: country}
}
