// Package mcpserver exposes location resolution and weather reports as MCP
// tools.
package mcpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/couchcryptid/weather-mcp-server/internal/domain"
	"github.com/couchcryptid/weather-mcp-server/internal/observability"
)

const serverName = "weather-mcp-server"

const instructions = `Weather lookups backed by Open-Meteo.
Use the *_by_location tools with a place name ("Springfield, IL", "London, UK") or a "lat,lng" string.
When a name is ambiguous the tool fails and lists the alternatives; call search_locations to see every match.`

// EventPublisher receives a lookup event for every location lookup a tool
// performs. Publish must not block.
type EventPublisher interface {
	Publish(ev domain.LookupEvent)
}

type nopPublisher struct{}

func (nopPublisher) Publish(domain.LookupEvent) {}

// Server wires the resolver and weather source into an MCP server.
type Server struct {
	mcp      *mcp.Server
	resolver *domain.Resolver
	weather  domain.WeatherSource
	events   EventPublisher
	metrics  *observability.Metrics
	logger   *slog.Logger
}

// New creates a Server with all tools registered. A nil events publisher
// discards lookup events.
func New(version string, resolver *domain.Resolver, weather domain.WeatherSource, events EventPublisher, metrics *observability.Metrics, logger *slog.Logger) *Server {
	if events == nil {
		events = nopPublisher{}
	}
	s := &Server{
		resolver: resolver,
		weather:  weather,
		events:   events,
		metrics:  metrics,
		logger:   logger,
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, &mcp.ServerOptions{
		Instructions: instructions,
		Logger:       logger,
	})
	s.registerTools()
	return s
}

// Run serves a single session over t until the client disconnects or ctx
// is cancelled.
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	s.logger.Info("mcp server starting", "transport", transportName(t))
	return s.mcp.Run(ctx, t)
}

// Connect starts a session over t without blocking.
func (s *Server) Connect(ctx context.Context, t mcp.Transport) (*mcp.ServerSession, error) {
	return s.mcp.Connect(ctx, t, nil)
}

// Handler returns a streamable HTTP handler serving this server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.mcp }, nil)
}

// call runs fn as the body of one tool invocation. Domain errors become an
// IsError result carrying the user-facing text; they are never returned as
// protocol errors.
func (s *Server) call(ctx context.Context, tool string, fn func(context.Context, *slog.Logger) (string, error)) (*mcp.CallToolResult, any, error) {
	start := time.Now()
	logger := s.logger.With("tool", tool, "request_id", uuid.NewString())

	text, err := fn(ctx, logger)

	s.metrics.ToolDuration.WithLabelValues(tool).Observe(time.Since(start).Seconds())
	if err != nil {
		e := domain.WrapError(err, domain.CodeSystemError)
		s.metrics.ToolCalls.WithLabelValues(tool, "error").Inc()
		level := slog.LevelError
		if e.Category == domain.CategoryValidation || e.Category == domain.CategoryLocation {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "tool call failed", e.LogAttrs()...)
		return errorResult(e), nil, nil
	}

	s.metrics.ToolCalls.WithLabelValues(tool, "success").Inc()
	logger.Debug("tool call completed", "duration", time.Since(start))
	return textResult(text), nil, nil
}

// resolve resolves location and records the lookup.
func (s *Server) resolve(ctx context.Context, tool, location string) (domain.LocationResult, error) {
	result, err := s.resolver.ResolveLocation(ctx, location)
	ev := domain.NewLookupEvent(tool, location, result, err)
	s.metrics.LocationResolutions.WithLabelValues(string(ev.Outcome)).Inc()
	s.events.Publish(ev)
	return result, err
}

// search lists candidates for query and records the lookup.
func (s *Server) search(ctx context.Context, tool, query string) ([]domain.Candidate, error) {
	candidates, err := s.resolver.SearchLocations(ctx, query)
	ev := domain.NewSearchEvent(tool, query, len(candidates), err)
	s.metrics.LocationResolutions.WithLabelValues(string(ev.Outcome)).Inc()
	s.events.Publish(ev)
	return candidates, err
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func errorResult(e *domain.Error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: e.UserText()}},
	}
}

func transportName(t mcp.Transport) string {
	switch t.(type) {
	case *mcp.StdioTransport:
		return "stdio"
	case *mcp.InMemoryTransport:
		return "memory"
	default:
		return "custom"
	}
}
