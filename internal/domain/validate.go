package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Coordinate and query bounds.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0

	MinLocationLength = 1
	MaxLocationLength = 200
)

// TemperatureUnit selects the unit used in rendered reports.
type TemperatureUnit string

const (
	Fahrenheit TemperatureUnit = "fahrenheit"
	Celsius    TemperatureUnit = "celsius"
)

// ValidateCoordinates parses and range-checks a latitude/longitude pair.
// Each value may be any Go numeric type, a json.Number, or a numeric string.
// Bounds are inclusive.
func ValidateCoordinates(lat, lng any) (Coordinates, error) {
	latitude, err := parseCoordinate(lat, "latitude")
	if err != nil {
		return Coordinates{}, err
	}
	longitude, err := parseCoordinate(lng, "longitude")
	if err != nil {
		return Coordinates{}, err
	}

	if latitude < MinLatitude || latitude > MaxLatitude {
		return Coordinates{}, outOfRange("Latitude", MinLatitude, MaxLatitude, latitude)
	}
	if longitude < MinLongitude || longitude > MaxLongitude {
		return Coordinates{}, outOfRange("Longitude", MinLongitude, MaxLongitude, longitude)
	}

	return Coordinates{Latitude: latitude, Longitude: longitude}, nil
}

func parseCoordinate(value any, field string) (float64, error) {
	var v float64
	switch n := value.(type) {
	case float64:
		v = n
	case float32:
		v = float64(n)
	case int:
		v = float64(n)
	case int32:
		v = float64(n)
	case int64:
		v = float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, invalidCoordinate(field, value)
		}
		v = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, invalidCoordinate(field, value)
		}
		v = f
	default:
		return 0, Errorf(CodeInvalidCoordinates,
			"%s must be a number or numeric string, got: %T", field, value).
			WithDetails(map[string]any{"field": field})
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalidCoordinate(field, value)
	}
	return v, nil
}

func outOfRange(field string, lo, hi, v float64) *Error {
	msg := fmt.Sprintf("%s must be between %g and %g, got: %g", field, lo, hi, v)
	return NewError(CodeInvalidCoordinates, msg).
		WithUserMessage("The coordinates you provided are not valid. " + msg + ".").
		WithDetails(map[string]any{"field": strings.ToLower(field), "value": v})
}

func invalidCoordinate(field string, value any) *Error {
	return Errorf(CodeInvalidCoordinates, "Invalid %s: %v", field, value).
		WithDetails(map[string]any{"field": field, "value": fmt.Sprint(value)})
}

// ValidateLocation trims a location query and enforces its length bounds.
func ValidateLocation(location string) (string, error) {
	trimmed := strings.TrimSpace(location)
	n := utf8.RuneCountInString(trimmed)
	if n < MinLocationLength {
		return "", NewError(CodeInvalidLocationFormat, "Location must be a non-empty string").
			WithUserMessage("Location cannot be empty.")
	}
	if n > MaxLocationLength {
		return "", Errorf(CodeInvalidLocationFormat,
			"Location must be %d characters or less, got %d", MaxLocationLength, n).
			WithUserMessage(fmt.Sprintf("Location must be %d characters or less.", MaxLocationLength))
	}
	return trimmed, nil
}

// ValidateTemperatureUnit defaults an empty unit to Fahrenheit and rejects
// anything other than "fahrenheit" or "celsius".
func ValidateTemperatureUnit(unit string) (TemperatureUnit, error) {
	switch TemperatureUnit(unit) {
	case "":
		return Fahrenheit, nil
	case Fahrenheit, Celsius:
		return TemperatureUnit(unit), nil
	default:
		return "", Errorf(CodeInvalidTemperatureUnit,
			"Temperature unit must be 'fahrenheit' or 'celsius', got: %s", unit)
	}
}
