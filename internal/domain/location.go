package domain

import "strings"

// Coordinates is a validated WGS-84 point. Values are only produced by
// ValidateCoordinates, so both fields are always in range.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Candidate is one place record returned by the geocoding search service.
type Candidate struct {
	Name        string  `json:"name"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Admin1      string  `json:"admin1,omitempty"` // state / province / region
	Admin2      string  `json:"admin2,omitempty"`
	Admin3      string  `json:"admin3,omitempty"`
	Admin4      string  `json:"admin4,omitempty"`
	Timezone    string  `json:"timezone,omitempty"`
	Population  int64   `json:"population,omitempty"`
	Elevation   float64 `json:"elevation,omitempty"`
	FeatureCode string  `json:"feature_code,omitempty"` // PPLC = capital, PPL = populated place, ...
}

// ParsedLocationQuery is the structured form of a free-form place name.
type ParsedLocationQuery struct {
	City string
	// State is the canonical US state name for US queries, or the raw
	// region text for "City, Region, Country" queries.
	State     string
	Country   string
	IsUSQuery bool
}

// LocationResult is what the resolver hands to weather, forecast and search
// consumers. LocationName is empty when the input was already coordinates.
type LocationResult struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	LocationName string  `json:"locationName,omitempty"`
}

// Coordinates returns the result's point.
func (r LocationResult) Coordinates() Coordinates {
	return Coordinates{Latitude: r.Latitude, Longitude: r.Longitude}
}

// FormatLocationName renders a candidate for display:
// name[, admin1 if present and different from name][, country if present and different from admin1].
func FormatLocationName(c Candidate) string {
	var b strings.Builder
	b.WriteString(c.Name)
	if c.Admin1 != "" && c.Admin1 != c.Name {
		b.WriteString(", ")
		b.WriteString(c.Admin1)
	}
	if c.Country != "" && c.Country != c.Admin1 {
		b.WriteString(", ")
		b.WriteString(c.Country)
	}
	return b.String()
}

// formatAlternative renders a candidate as "Name, Admin1, Country", skipping
// empty parts. Used when listing disambiguation alternatives.
func formatAlternative(c Candidate) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{c.Name, c.Admin1, c.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
