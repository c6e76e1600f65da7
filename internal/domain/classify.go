package domain

import (
	"regexp"
	"strings"
)

// coordinateRe matches "lat,lng" with optional whitespace around the comma.
var coordinateRe = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)$`)

// LocationInput is the result of classifying a raw location string: either
// a validated coordinate pair or a parsed place-name query.
type LocationInput struct {
	IsCoordinates bool
	Coordinates   Coordinates
	Query         ParsedLocationQuery
}

// IsCoordinateString reports whether raw has the "lat,lng" shape. It does
// not range-check the values.
func IsCoordinateString(raw string) bool {
	return coordinateRe.MatchString(strings.TrimSpace(raw))
}

// Classify decides whether raw is a coordinate pair or a place name. A
// coordinate-shaped string with out-of-range values is an error; it never
// falls back to a name search.
func Classify(raw string) (LocationInput, error) {
	trimmed := strings.TrimSpace(raw)
	if m := coordinateRe.FindStringSubmatch(trimmed); m != nil {
		coords, err := ValidateCoordinates(m[1], m[2])
		if err != nil {
			return LocationInput{}, err
		}
		return LocationInput{IsCoordinates: true, Coordinates: coords}, nil
	}
	return LocationInput{Query: ParseLocationQuery(trimmed)}, nil
}

// ParseLocationQuery splits a place name on commas and extracts the city,
// state or region, and country:
//
//	"Paris"                  -> city
//	"Miami, FL"              -> city + US state (normalized to "Florida")
//	"London, UK"             -> city + country
//	"Portland, OR, USA"      -> city + US state + country
//	"Cambridge, England, UK" -> city + region + country
//
// The first part is positional: ", FL" parses to an empty city with state
// Florida. Empty parts after the first are ignored.
func ParseLocationQuery(raw string) ParsedLocationQuery {
	parts := splitParts(raw)

	switch len(parts) {
	case 1:
		return ParsedLocationQuery{City: parts[0]}
	case 2:
		if IsUSState(parts[1]) {
			return ParsedLocationQuery{
				City:      parts[0],
				State:     NormalizeStateName(parts[1]),
				IsUSQuery: true,
			}
		}
		return ParsedLocationQuery{City: parts[0], Country: parts[1]}
	default:
		last := parts[len(parts)-1]
		if IsUSState(parts[1]) && isUSASynonym(last) {
			return ParsedLocationQuery{
				City:      parts[0],
				State:     NormalizeStateName(parts[1]),
				Country:   last,
				IsUSQuery: true,
			}
		}
		return ParsedLocationQuery{City: parts[0], State: parts[1], Country: last}
	}
}

// splitParts trims each comma-separated field. The first field is always
// kept, even when empty; later empty fields are dropped.
func splitParts(raw string) []string {
	fields := strings.Split(raw, ",")
	parts := make([]string, 0, len(fields))
	for i, f := range fields {
		if f = strings.TrimSpace(f); f != "" || i == 0 {
			parts = append(parts, f)
		}
	}
	return parts
}
