package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/couchcryptid/weather-mcp-server/internal/domain"
	"github.com/couchcryptid/weather-mcp-server/internal/report"
)

// Tool names.
const (
	ToolCurrentWeather           = "get_current_weather"
	ToolWeatherForecast          = "get_weather_forecast"
	ToolCurrentWeatherByLocation = "get_current_weather_by_location"
	ToolForecastByLocation       = "get_weather_forecast_by_location"
	ToolSearchLocations          = "search_locations"
	ToolResolveLocation          = "resolve_location"
)

const locationDescription = `Location name (e.g. "New York", "London, UK", "Tokyo, Japan") or coordinates as "latitude,longitude"`

// Latitude and Longitude accept a number or a numeric string.
type coordinatesInput struct {
	Latitude        any    `json:"latitude" jsonschema:"Latitude coordinate (-90 to 90)"`
	Longitude       any    `json:"longitude" jsonschema:"Longitude coordinate (-180 to 180)"`
	TemperatureUnit string `json:"temperature_unit,omitempty" jsonschema:"Temperature unit: fahrenheit (default) or celsius"`
}

type locationInput struct {
	Location        string `json:"location" jsonschema:"Location name (e.g. New York, London UK) or coordinates as latitude,longitude"`
	TemperatureUnit string `json:"temperature_unit,omitempty" jsonschema:"Temperature unit: fahrenheit (default) or celsius"`
}

type searchInput struct {
	Query string `json:"query" jsonschema:"Location search query (city, region, country)"`
}

type resolveInput struct {
	Location string `json:"location" jsonschema:"Location name (e.g. New York, London UK) or coordinates as latitude,longitude"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolCurrentWeather,
		Description: "Get current weather conditions using coordinates",
	}, s.currentWeather)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolWeatherForecast,
		Description: fmt.Sprintf("Get a %d-day weather forecast using coordinates", domain.ForecastDays),
	}, s.weatherForecast)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolCurrentWeatherByLocation,
		Description: "Get current weather conditions using a location name or coordinates. " + locationDescription + ".",
	}, s.currentWeatherByLocation)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolForecastByLocation,
		Description: fmt.Sprintf("Get a %d-day weather forecast using a location name or coordinates. %s.", domain.ForecastDays, locationDescription),
	}, s.forecastByLocation)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolSearchLocations,
		Description: "Search for locations by name to get coordinates and location details",
	}, s.searchLocations)
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        ToolResolveLocation,
		Description: "Resolve a location name or coordinates to a single point. Returns JSON with latitude, longitude and locationName.",
	}, s.resolveLocation)
}

func (s *Server) currentWeather(ctx context.Context, _ *mcp.CallToolRequest, in coordinatesInput) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, ToolCurrentWeather, func(ctx context.Context, _ *slog.Logger) (string, error) {
		unit, err := domain.ValidateTemperatureUnit(in.TemperatureUnit)
		if err != nil {
			return "", err
		}
		at, err := domain.ValidateCoordinates(in.Latitude, in.Longitude)
		if err != nil {
			return "", err
		}
		w, err := s.weather.Current(ctx, at)
		if err != nil {
			return "", err
		}
		return report.Current(w, unit, ""), nil
	})
}

func (s *Server) weatherForecast(ctx context.Context, _ *mcp.CallToolRequest, in coordinatesInput) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, ToolWeatherForecast, func(ctx context.Context, _ *slog.Logger) (string, error) {
		unit, err := domain.ValidateTemperatureUnit(in.TemperatureUnit)
		if err != nil {
			return "", err
		}
		at, err := domain.ValidateCoordinates(in.Latitude, in.Longitude)
		if err != nil {
			return "", err
		}
		f, err := s.weather.Forecast(ctx, at, domain.ForecastDays)
		if err != nil {
			return "", err
		}
		return report.Forecast(f, unit, ""), nil
	})
}

func (s *Server) currentWeatherByLocation(ctx context.Context, _ *mcp.CallToolRequest, in locationInput) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, ToolCurrentWeatherByLocation, func(ctx context.Context, logger *slog.Logger) (string, error) {
		unit, err := domain.ValidateTemperatureUnit(in.TemperatureUnit)
		if err != nil {
			return "", err
		}
		loc, err := s.resolve(ctx, ToolCurrentWeatherByLocation, in.Location)
		if err != nil {
			return "", err
		}
		logger.Debug("fetching current weather", "location", loc.LocationName, "latitude", loc.Latitude, "longitude", loc.Longitude)
		w, err := s.weather.Current(ctx, loc.Coordinates())
		if err != nil {
			return "", err
		}
		return report.Current(w, unit, loc.LocationName), nil
	})
}

func (s *Server) forecastByLocation(ctx context.Context, _ *mcp.CallToolRequest, in locationInput) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, ToolForecastByLocation, func(ctx context.Context, logger *slog.Logger) (string, error) {
		unit, err := domain.ValidateTemperatureUnit(in.TemperatureUnit)
		if err != nil {
			return "", err
		}
		loc, err := s.resolve(ctx, ToolForecastByLocation, in.Location)
		if err != nil {
			return "", err
		}
		logger.Debug("fetching forecast", "location", loc.LocationName, "latitude", loc.Latitude, "longitude", loc.Longitude)
		f, err := s.weather.Forecast(ctx, loc.Coordinates(), domain.ForecastDays)
		if err != nil {
			return "", err
		}
		return report.Forecast(f, unit, loc.LocationName), nil
	})
}

func (s *Server) searchLocations(ctx context.Context, _ *mcp.CallToolRequest, in searchInput) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, ToolSearchLocations, func(ctx context.Context, _ *slog.Logger) (string, error) {
		candidates, err := s.search(ctx, ToolSearchLocations, in.Query)
		if err != nil {
			return "", err
		}
		return report.SearchResults(candidates), nil
	})
}

func (s *Server) resolveLocation(ctx context.Context, _ *mcp.CallToolRequest, in resolveInput) (*mcp.CallToolResult, any, error) {
	return s.call(ctx, ToolResolveLocation, func(ctx context.Context, _ *slog.Logger) (string, error) {
		loc, err := s.resolve(ctx, ToolResolveLocation, in.Location)
		if err != nil {
			return "", err
		}
		data, err := json.MarshalIndent(loc, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode location result: %w", err)
		}
		return string(data), nil
	})
}
