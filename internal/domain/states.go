package domain

import (
	"fmt"
	"strings"
)

// usState pairs a USPS abbreviation with its canonical name.
type usState struct {
	abbr string
	name string
}

// usStates lists the 50 states plus the District of Columbia.
var usStates = []usState{
	{"AL", "Alabama"}, {"AK", "Alaska"}, {"AZ", "Arizona"}, {"AR", "Arkansas"},
	{"CA", "California"}, {"CO", "Colorado"}, {"CT", "Connecticut"}, {"DE", "Delaware"},
	{"FL", "Florida"}, {"GA", "Georgia"}, {"HI", "Hawaii"}, {"ID", "Idaho"},
	{"IL", "Illinois"}, {"IN", "Indiana"}, {"IA", "Iowa"}, {"KS", "Kansas"},
	{"KY", "Kentucky"}, {"LA", "Louisiana"}, {"ME", "Maine"}, {"MD", "Maryland"},
	{"MA", "Massachusetts"}, {"MI", "Michigan"}, {"MN", "Minnesota"}, {"MS", "Mississippi"},
	{"MO", "Missouri"}, {"MT", "Montana"}, {"NE", "Nebraska"}, {"NV", "Nevada"},
	{"NH", "New Hampshire"}, {"NJ", "New Jersey"}, {"NM", "New Mexico"}, {"NY", "New York"},
	{"NC", "North Carolina"}, {"ND", "North Dakota"}, {"OH", "Ohio"}, {"OK", "Oklahoma"},
	{"OR", "Oregon"}, {"PA", "Pennsylvania"}, {"RI", "Rhode Island"}, {"SC", "South Carolina"},
	{"SD", "South Dakota"}, {"TN", "Tennessee"}, {"TX", "Texas"}, {"UT", "Utah"},
	{"VT", "Vermont"}, {"VA", "Virginia"}, {"WA", "Washington"}, {"WV", "West Virginia"},
	{"WI", "Wisconsin"}, {"WY", "Wyoming"}, {"DC", "District of Columbia"},
}

const usStateCount = 51

// Lookup indexes keyed by lowercase abbreviation and lowercase name.
var (
	stateByAbbr = make(map[string]string, usStateCount)
	stateByName = make(map[string]string, usStateCount)
)

func init() {
	if err := validateTables(); err != nil {
		panic("domain: " + err.Error())
	}
}

// validateTables builds the state indexes and checks the state and country
// alias tables for completeness and collisions.
func validateTables() error {
	if len(usStates) != usStateCount {
		return fmt.Errorf("us state table has %d entries, want %d", len(usStates), usStateCount)
	}
	for _, s := range usStates {
		abbr, name := strings.ToLower(s.abbr), strings.ToLower(s.name)
		if len(s.abbr) != 2 || s.name == "" {
			return fmt.Errorf("malformed us state entry %q/%q", s.abbr, s.name)
		}
		if _, dup := stateByAbbr[abbr]; dup {
			return fmt.Errorf("duplicate state abbreviation %q", s.abbr)
		}
		if _, dup := stateByName[name]; dup {
			return fmt.Errorf("duplicate state name %q", s.name)
		}
		stateByAbbr[abbr] = s.name
		stateByName[name] = s.name
	}
	return buildCountryIndex()
}

// NormalizeStateName maps a US state abbreviation or name (any case, padded
// or not) to its canonical full name. Unknown values are returned trimmed
// but otherwise unchanged, so non-US region names pass through.
func NormalizeStateName(s string) string {
	trimmed := strings.TrimSpace(s)
	key := strings.ToLower(trimmed)
	if name, ok := stateByAbbr[key]; ok {
		return name
	}
	if name, ok := stateByName[key]; ok {
		return name
	}
	return trimmed
}

// IsUSState reports whether s is a US state abbreviation or full name.
func IsUSState(s string) bool {
	key := strings.ToLower(strings.TrimSpace(s))
	_, abbr := stateByAbbr[key]
	_, name := stateByName[key]
	return abbr || name
}
