// Package openmeteo adapts the Open-Meteo geocoding and forecast APIs to
// the domain interfaces.
package openmeteo

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/weather-mcp-server/internal/adapter/httpclient"
	"github.com/couchcryptid/weather-mcp-server/internal/domain"
	"github.com/couchcryptid/weather-mcp-server/internal/observability"
)

// searchCount is the number of candidates requested per search.
const searchCount = 10

// JSONGetter fetches a URL and decodes its JSON body. *httpclient.Client
// satisfies it.
type JSONGetter interface {
	GetJSON(ctx context.Context, rawURL string, out any, opts *httpclient.RequestOptions) error
}

// GeocodingClient implements domain.Searcher using the Open-Meteo geocoding API.
type GeocodingClient struct {
	http    JSONGetter
	baseURL string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewGeocodingClient creates a geocoding client rooted at baseURL
// (e.g. "https://geocoding-api.open-meteo.com/v1").
func NewGeocodingClient(http JSONGetter, baseURL string, metrics *observability.Metrics, logger *slog.Logger) *GeocodingClient {
	return &GeocodingClient{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// Search returns up to ten candidates for name in upstream relevance order.
func (c *GeocodingClient) Search(ctx context.Context, name string) ([]domain.Candidate, error) {
	params := url.Values{
		"name":     {name},
		"count":    {strconv.Itoa(searchCount)},
		"language": {"en"},
		"format":   {"json"},
	}

	var resp geocodingResponse
	if err := c.http.GetJSON(ctx, c.baseURL+"/search?"+params.Encode(), &resp, nil); err != nil {
		return nil, err
	}

	c.metrics.GeocodeCandidates.Observe(float64(len(resp.Results)))
	c.logger.Debug("geocoding search", "name", name, "candidates", len(resp.Results))

	if resp.Results == nil {
		return []domain.Candidate{}, nil
	}
	return resp.Results, nil
}

// Open-Meteo geocoding response. "results" is omitted entirely when
// nothing matches.
type geocodingResponse struct {
	Results          []domain.Candidate `json:"results"`
	GenerationTimeMS float64            `json:"generationtime_ms"`
}
