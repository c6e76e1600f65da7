package domain

import "context"

// ForecastDays is the number of days requested for a forecast report.
const ForecastDays = 3

// WeatherSource fetches observations and forecasts for a point.
type WeatherSource interface {
	Current(ctx context.Context, at Coordinates) (CurrentWeather, error)
	Forecast(ctx context.Context, at Coordinates, days int) (Forecast, error)
}

// CurrentWeather is the latest observation for a point. Temperatures are
// always Celsius; unit conversion happens at render time.
type CurrentWeather struct {
	Latitude  float64
	Longitude float64
	Timezone  string
	// Time is the observation time in the location's local zone, as
	// reported upstream (e.g. "2024-01-15T14:00").
	Time string

	TemperatureC         float64
	ApparentTemperatureC float64
	RelativeHumidity     float64
	WeatherCode          int
	WindSpeed            float64
	WindDirection        float64
	Precipitation        float64

	HumidityUnit      string
	WindSpeedUnit     string
	PrecipitationUnit string
}

// DailyForecast is one day of a forecast. Date is "YYYY-MM-DD".
type DailyForecast struct {
	Date             string
	WeatherCode      int
	MaxTemperatureC  float64
	MinTemperatureC  float64
	PrecipitationSum float64
}

// Forecast pairs the current temperature and conditions with daily
// forecasts in chronological order.
type Forecast struct {
	Latitude  float64
	Longitude float64
	Timezone  string

	CurrentTemperatureC float64
	CurrentWeatherCode  int

	Days              []DailyForecast
	PrecipitationUnit string
}
