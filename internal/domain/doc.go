// Package domain models location lookup and weather data for the MCP tools.
//
// # Location Input
//
// Tools accept a single free-form location string. Two shapes are
// recognized:
//
//	"<lat>,<lng>"  →  e.g. "40.7128,-74.0060"
//	Decimal degrees, optional whitespace around the comma. Anything matching
//	this shape is treated as coordinates and range-checked; an out-of-range
//	pair is an error and never falls back to a name search.
//
//	"<city>[, <state or country>][, <country>]"
//	  "Paris"                  city only
//	  "Miami, FL"              US state abbreviation or full name
//	  "London, UK"             country name, ISO2 code or alias
//	  "Portland, OR, USA"      US state plus a USA synonym
//	  "Cambridge, England, UK" region plus country
//
// Only the city token is sent to the search service. State and country
// narrow the candidates afterwards.
//
// # Filtering
//
// A US state is a hard filter: candidates must have country code US and an
// admin1 that normalizes to the same state. No match is LOCATION_NOT_FOUND.
// A country is a soft filter: when no candidate matches it the unfiltered
// list is kept, since the upstream sometimes reports a region in place of
// a country.
//
// Country aliases:
//
//	United Kingdom: uk, united kingdom, gb, britain, england, scotland, wales
//	United States:  usa, united states, us, america
//
// # Ambiguity
//
// Only the first five candidates are inspected. When the query named a
// country and some of them are from it, only those are compared: one match
// wins, several are ambiguous only if they span two or more admin1
// regions. Otherwise candidates are compared by (country code, admin1)
// pair and two or more distinct pairs are ambiguous. An ambiguous lookup
// fails with LOCATION_AMBIGUOUS listing one alternative per pair, up to
// five, in upstream order.
//
// # Errors
//
// Every failure surfaced to a tool caller is an [*Error] carrying a code,
// a category, a user message with suggestions, and a technical message for
// logs. Callers branch on [Error.Code] or [Error.Category], never on text.
//
// # Units
//
// Weather values are stored in Celsius as returned upstream. Reports
// convert at render time: Fahrenheit rounds to an integer, Celsius to one
// decimal place.
package domain
