package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeStateName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"IL", "Illinois"},
		{"il", "Illinois"},
		{" Il ", "Illinois"},
		{"illinois", "Illinois"},
		{"NEW YORK", "New York"},
		{"dc", "District of Columbia"},
		{"district of columbia", "District of Columbia"},
		{"Ontario", "Ontario"},
		{"  Bavaria ", "Bavaria"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStateName(tt.input))
		})
	}
}

func TestNormalizeStateName_Idempotent(t *testing.T) {
	inputs := []string{"", " ", "TX", "tx", "Texas", " texas ", "Québec", "XX", "England", "new hampshire"}
	for _, s := range usStates {
		inputs = append(inputs, s.abbr, s.name)
	}
	for _, in := range inputs {
		once := NormalizeStateName(in)
		assert.Equal(t, once, NormalizeStateName(once), "input %q", in)
	}
}

func TestIsUSState(t *testing.T) {
	assert.True(t, IsUSState("CA"))
	assert.True(t, IsUSState("california"))
	assert.True(t, IsUSState(" Wyoming "))
	assert.False(t, IsUSState("UK"))
	assert.False(t, IsUSState("Ontario"))
	assert.False(t, IsUSState(""))
}

func TestStateTables(t *testing.T) {
	assert.Len(t, usStates, usStateCount)
	assert.Len(t, stateByAbbr, usStateCount)
	assert.Len(t, stateByName, usStateCount)
}

func TestCountryAliases(t *testing.T) {
	for country, aliases := range countryAliases {
		for _, a := range aliases {
			assert.Equal(t, country, countryByAlias[a], "alias %q", a)
		}
	}
	for s := range usaSynonyms {
		assert.True(t, isUSASynonym(s))
	}
	assert.True(t, isUSASynonym(" USA "))
	assert.False(t, isUSASynonym("america"), "america names the US but does not mark a US query")
}

func TestMatchesCountry(t *testing.T) {
	uk := Candidate{Country: "United Kingdom", CountryCode: "GB"}
	us := Candidate{Country: "United States", CountryCode: "US"}
	fr := Candidate{Country: "France", CountryCode: "FR"}

	tests := []struct {
		name   string
		c      Candidate
		target string
		want   bool
	}{
		{"uk alias", uk, "UK", true},
		{"scotland alias", uk, "scotland", true},
		{"iso code", uk, "gb", true},
		{"us alias", us, "America", true},
		{"direct name", fr, "france", true},
		{"direct code", fr, "FR", true},
		{"wrong country", fr, "UK", false},
		{"unknown alias", us, "Narnia", false},
		{"empty", us, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchesCountry(tt.c, tt.target))
		})
	}
}
