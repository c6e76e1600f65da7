// Package report renders weather and location data as the plain-text
// reports returned by the MCP tools.
package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/weather-mcp-server/internal/domain"
)

const (
	rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━"
	// maxSearchResults caps the entries listed by SearchResults.
	maxSearchResults = 10
)

// WMO weather interpretation codes.
var weatherCodes = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm: Slight or moderate",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

var compassPoints = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// WeatherDescription returns the text for a WMO weather code.
func WeatherDescription(code int) string {
	if d, ok := weatherCodes[code]; ok {
		return d
	}
	return "Unknown conditions"
}

// WindDirection maps degrees to one of 16 compass points.
func WindDirection(degrees float64) string {
	i := int(math.Round(degrees/22.5)) % 16
	if i < 0 {
		i += 16
	}
	return compassPoints[i]
}

// ConvertTemperature converts Celsius to unit. Fahrenheit is rounded to a
// whole degree, Celsius to one decimal place.
func ConvertTemperature(celsius float64, unit domain.TemperatureUnit) float64 {
	if unit == domain.Fahrenheit {
		return math.Round(celsius*9/5 + 32)
	}
	return math.Round(celsius*10) / 10
}

// UnitSymbol returns "°F" or "°C".
func UnitSymbol(unit domain.TemperatureUnit) string {
	if unit == domain.Fahrenheit {
		return "°F"
	}
	return "°C"
}

// Current renders a current-conditions report. displayName may be empty,
// in which case the coordinates are shown in its place.
func Current(w domain.CurrentWeather, unit domain.TemperatureUnit, displayName string) string {
	sym := UnitSymbol(unit)

	var b strings.Builder
	b.WriteString("🌤️ Current Weather Report\n")
	b.WriteString(rule + "\n\n")
	writeLocation(&b, w.Latitude, w.Longitude, displayName)
	fmt.Fprintf(&b, "🕐 Time: %s\n", localTime(w.Time))
	fmt.Fprintf(&b, "🌍 Timezone: %s\n\n", w.Timezone)
	fmt.Fprintf(&b, "🌡️ Temperature: %s%s\n", num(ConvertTemperature(w.TemperatureC, unit)), sym)
	fmt.Fprintf(&b, "🌡️ Feels like: %s%s\n", num(ConvertTemperature(w.ApparentTemperatureC, unit)), sym)
	fmt.Fprintf(&b, "☁️ Conditions: %s\n", WeatherDescription(w.WeatherCode))
	fmt.Fprintf(&b, "💧 Humidity: %s%s\n", num(w.RelativeHumidity), w.HumidityUnit)
	fmt.Fprintf(&b, "🌧️ Precipitation: %s%s\n", num(w.Precipitation), w.PrecipitationUnit)
	fmt.Fprintf(&b, "💨 Wind: %s%s %s (%s°)", num(w.WindSpeed), w.WindSpeedUnit, WindDirection(w.WindDirection), num(w.WindDirection))
	return b.String()
}

// Forecast renders a multi-day forecast report.
func Forecast(f domain.Forecast, unit domain.TemperatureUnit, displayName string) string {
	sym := UnitSymbol(unit)

	var b strings.Builder
	fmt.Fprintf(&b, "🌤️ %d-Day Weather Forecast\n", len(f.Days))
	b.WriteString(rule + "\n\n")
	writeLocation(&b, f.Latitude, f.Longitude, displayName)
	fmt.Fprintf(&b, "🌍 Timezone: %s\n\n", f.Timezone)
	fmt.Fprintf(&b, "🌡️ Current: %s%s - %s\n\n", num(ConvertTemperature(f.CurrentTemperatureC, unit)), sym, WeatherDescription(f.CurrentWeatherCode))
	b.WriteString("📅 Forecast:\n")

	for i, d := range f.Days {
		fmt.Fprintf(&b, "\n📅 %s\n", dayLabel(i, d.Date))
		fmt.Fprintf(&b, "   ☁️ %s\n", WeatherDescription(d.WeatherCode))
		fmt.Fprintf(&b, "   🌡️ High: %s%s | Low: %s%s\n",
			num(ConvertTemperature(d.MaxTemperatureC, unit)), sym,
			num(ConvertTemperature(d.MinTemperatureC, unit)), sym)
		fmt.Fprintf(&b, "   🌧️ Precipitation: %s%s", num(d.PrecipitationSum), f.PrecipitationUnit)
	}
	return b.String()
}

// SearchResults renders a numbered list of up to ten candidates.
func SearchResults(candidates []domain.Candidate) string {
	var b strings.Builder
	b.WriteString("🔍 Location Search Results\n")
	b.WriteString(rule + "\n\n")
	fmt.Fprintf(&b, "Found %d location(s):\n\n", len(candidates))

	for i, c := range candidates[:min(len(candidates), maxSearchResults)] {
		fmt.Fprintf(&b, "%d. 📍 %s", i+1, domain.FormatLocationName(c))
		if c.Population > 0 {
			fmt.Fprintf(&b, " (Pop: %s)", groupThousands(c.Population))
		}
		fmt.Fprintf(&b, "\n   📐 Coordinates: %s, %s", num(c.Latitude), num(c.Longitude))
		if c.Elevation != 0 {
			fmt.Fprintf(&b, " • %sm elevation", num(c.Elevation))
		}
		if c.Timezone != "" {
			fmt.Fprintf(&b, " • %s", c.Timezone)
		}
		b.WriteString("\n\n")
	}

	b.WriteString("💡 Use coordinates or specific location names for weather queries.")
	return b.String()
}

func writeLocation(b *strings.Builder, lat, lng float64, displayName string) {
	coords := num(lat) + "°, " + num(lng) + "°"
	if displayName == "" {
		fmt.Fprintf(b, "📍 Location: %s\n", coords)
		return
	}
	fmt.Fprintf(b, "📍 Location: %s\n", displayName)
	fmt.Fprintf(b, "📐 Coordinates: %s\n", coords)
}

func dayLabel(i int, date string) string {
	switch i {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	}
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return t.Format("Monday, Jan 2")
}

// localTime reformats an upstream "2006-01-02T15:04" local timestamp.
func localTime(s string) string {
	t, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		return s
	}
	return t.Format("1/2/2006, 3:04 PM")
}

// num formats a float without trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
