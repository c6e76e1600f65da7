package openmeteo

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/weather-mcp-server/internal/domain"
)

const (
	currentFields  = "temperature_2m,relative_humidity_2m,apparent_temperature,weather_code,wind_speed_10m,wind_direction_10m,precipitation"
	forecastFields = "weather_code,temperature_2m_max,temperature_2m_min,precipitation_sum"
)

// ForecastClient implements domain.WeatherSource using the Open-Meteo
// forecast API.
type ForecastClient struct {
	http    JSONGetter
	baseURL string
	logger  *slog.Logger
}

// NewForecastClient creates a forecast client rooted at baseURL
// (e.g. "https://api.open-meteo.com/v1").
func NewForecastClient(http JSONGetter, baseURL string, logger *slog.Logger) *ForecastClient {
	return &ForecastClient{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Current returns the latest conditions at a point.
func (c *ForecastClient) Current(ctx context.Context, at domain.Coordinates) (domain.CurrentWeather, error) {
	params := pointParams(at)
	params.Set("current", currentFields)

	var resp forecastResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/forecast?"+params.Encode(), &resp, nil); err != nil {
		return domain.CurrentWeather{}, err
	}
	if resp.Current == nil {
		return domain.CurrentWeather{}, domain.Errorf(domain.CodeWeatherDataUnavailable,
			"forecast response for %g,%g has no current block", at.Latitude, at.Longitude)
	}

	cur := resp.Current
	units := resp.CurrentUnits
	return domain.CurrentWeather{
		Latitude:             resp.Latitude,
		Longitude:            resp.Longitude,
		Timezone:             resp.Timezone,
		Time:                 cur.Time,
		TemperatureC:         cur.Temperature,
		ApparentTemperatureC: cur.ApparentTemperature,
		RelativeHumidity:     cur.RelativeHumidity,
		WeatherCode:          cur.WeatherCode,
		WindSpeed:            cur.WindSpeed,
		WindDirection:        cur.WindDirection,
		Precipitation:        cur.Precipitation,
		HumidityUnit:         units.RelativeHumidity,
		WindSpeedUnit:        units.WindSpeed,
		PrecipitationUnit:    units.Precipitation,
	}, nil
}

// Forecast returns the current temperature and the next days of daily
// forecasts at a point.
func (c *ForecastClient) Forecast(ctx context.Context, at domain.Coordinates, days int) (domain.Forecast, error) {
	params := pointParams(at)
	params.Set("current", "temperature_2m,weather_code")
	params.Set("daily", forecastFields)
	params.Set("forecast_days", strconv.Itoa(days))

	var resp forecastResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/forecast?"+params.Encode(), &resp, nil); err != nil {
		return domain.Forecast{}, err
	}
	if resp.Current == nil || resp.Daily == nil || len(resp.Daily.Time) == 0 {
		return domain.Forecast{}, domain.Errorf(domain.CodeWeatherDataUnavailable,
			"forecast response for %g,%g has no daily block", at.Latitude, at.Longitude)
	}

	d := resp.Daily
	n := min(len(d.Time), len(d.WeatherCode), len(d.TemperatureMax), len(d.TemperatureMin), len(d.PrecipitationSum))
	if n < len(d.Time) {
		c.logger.Warn("forecast daily arrays have mismatched lengths",
			"time", len(d.Time),
			"kept", n,
		)
	}
	n = min(n, days)

	out := domain.Forecast{
		Latitude:            resp.Latitude,
		Longitude:           resp.Longitude,
		Timezone:            resp.Timezone,
		CurrentTemperatureC: resp.Current.Temperature,
		CurrentWeatherCode:  resp.Current.WeatherCode,
		Days:                make([]domain.DailyForecast, 0, n),
		PrecipitationUnit:   resp.DailyUnits.PrecipitationSum,
	}
	for i := range n {
		out.Days = append(out.Days, domain.DailyForecast{
			Date:             d.Time[i],
			WeatherCode:      d.WeatherCode[i],
			MaxTemperatureC:  d.TemperatureMax[i],
			MinTemperatureC:  d.TemperatureMin[i],
			PrecipitationSum: d.PrecipitationSum[i],
		})
	}
	return out, nil
}

func pointParams(at domain.Coordinates) url.Values {
	return url.Values{
		"latitude":  {strconv.FormatFloat(at.Latitude, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(at.Longitude, 'f', -1, 64)},
		"timezone":  {"auto"},
	}
}

// Open-Meteo forecast response types.

type forecastResponse struct {
	Latitude     float64       `json:"latitude"`
	Longitude    float64       `json:"longitude"`
	Timezone     string        `json:"timezone"`
	Current      *currentBlock `json:"current"`
	CurrentUnits currentUnits  `json:"current_units"`
	Daily        *dailyBlock   `json:"daily"`
	DailyUnits   dailyUnits    `json:"daily_units"`
}

type currentBlock struct {
	Time                string  `json:"time"`
	Temperature         float64 `json:"temperature_2m"`
	RelativeHumidity    float64 `json:"relative_humidity_2m"`
	ApparentTemperature float64 `json:"apparent_temperature"`
	WeatherCode         int     `json:"weather_code"`
	WindSpeed           float64 `json:"wind_speed_10m"`
	WindDirection       float64 `json:"wind_direction_10m"`
	Precipitation       float64 `json:"precipitation"`
}

type currentUnits struct {
	RelativeHumidity string `json:"relative_humidity_2m"`
	WindSpeed        string `json:"wind_speed_10m"`
	Precipitation    string `json:"precipitation"`
}

type dailyBlock struct {
	Time             []string  `json:"time"`
	WeatherCode      []int     `json:"weather_code"`
	TemperatureMax   []float64 `json:"temperature_2m_max"`
	TemperatureMin   []float64 `json:"temperature_2m_min"`
	PrecipitationSum []float64 `json:"precipitation_sum"`
}

type dailyUnits struct {
	PrecipitationSum string `json:"precipitation_sum"`
}
