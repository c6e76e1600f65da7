package domain

import (
	"fmt"
	"strings"
)

// Country is a canonical country key used by the synonym table.
type Country string

const (
	CountryUnitedKingdom Country = "united kingdom"
	CountryUnitedStates  Country = "united states"
)

// countryAliases maps each canonical country to every spelling that should
// match it, including its ISO2 code. All entries are lowercase.
var countryAliases = map[Country][]string{
	CountryUnitedKingdom: {"uk", "united kingdom", "gb", "britain", "england", "scotland", "wales"},
	CountryUnitedStates:  {"usa", "united states", "us", "america"},
}

// usaSynonyms are the trailing tokens that mark a "City, State, Country"
// query as a US query.
var usaSynonyms = map[string]bool{"usa": true, "united states": true, "us": true}

var countryByAlias = map[string]Country{}

func buildCountryIndex() error {
	for country, aliases := range countryAliases {
		found := false
		for _, a := range aliases {
			if a != strings.ToLower(strings.TrimSpace(a)) {
				return fmt.Errorf("country alias %q must be lowercase and trimmed", a)
			}
			if other, dup := countryByAlias[a]; dup && other != country {
				return fmt.Errorf("country alias %q maps to both %q and %q", a, other, country)
			}
			countryByAlias[a] = country
			found = found || a == string(country)
		}
		if !found {
			return fmt.Errorf("country %q is missing from its own alias list", country)
		}
	}
	for s := range usaSynonyms {
		if countryByAlias[s] != CountryUnitedStates {
			return fmt.Errorf("usa synonym %q is not a united states alias", s)
		}
	}
	return nil
}

// isUSASynonym reports whether s names the United States for query parsing.
func isUSASynonym(s string) bool {
	return usaSynonyms[strings.ToLower(strings.TrimSpace(s))]
}

// matchesCountry reports whether a candidate belongs to target, comparing
// the candidate's country name and ISO2 code directly and through the alias table.
func matchesCountry(c Candidate, target string) bool {
	t := strings.ToLower(strings.TrimSpace(target))
	if t == "" {
		return false
	}
	name := strings.ToLower(c.Country)
	code := strings.ToLower(c.CountryCode)
	if name == t || code == t {
		return true
	}

	canonical, ok := countryByAlias[t]
	if !ok {
		return false
	}
	return countryByAlias[name] == canonical || countryByAlias[code] == canonical
}
