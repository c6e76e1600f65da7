// Package httpclient is a JSON-over-HTTP GET client with per-attempt
// timeouts and exponential-backoff retries for transient failures. Final
// failures are returned as *domain.Error.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/weather-mcp-server/internal/observability"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "weather-mcp-server/1.0"
	maxErrorBody     = 512
)

// RetryPolicy controls how transient failures are retried.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

// DefaultRetryPolicy is 3 retries starting at 1s, capped at 10s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, BaseDelay: time.Second, MaxDelay: 10 * time.Second}
}

// Options configure a Client. Zero values take the defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Retry     RetryPolicy
}

// RequestOptions override client defaults for a single request.
type RequestOptions struct {
	Headers map[string]string
	Timeout time.Duration
}

// Client performs GET requests that decode a JSON body. Its configuration
// is fixed at construction and it is safe for concurrent use.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	headers    map[string]string
	retry      RetryPolicy
	clock      clockwork.Clock
	jitter     func() float64
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// New creates a Client.
func New(opts Options, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Retry == (RetryPolicy{}) {
		opts.Retry = DefaultRetryPolicy()
	}
	return &Client{
		httpClient: &http.Client{},
		timeout:    opts.Timeout,
		headers:    defaultHeaders(opts.UserAgent),
		retry:      opts.Retry,
		clock:      clockwork.NewRealClock(),
		jitter:     rand.Float64,
		metrics:    metrics,
		logger:     logger,
	}
}

func defaultHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent": userAgent,
		"Accept":     "application/json",
	}
}

// Get fetches rawURL and decodes the JSON body into a T.
func Get[T any](ctx context.Context, c *Client, rawURL string, opts *RequestOptions) (T, error) {
	var out T
	err := c.GetJSON(ctx, rawURL, &out, opts)
	return out, err
}

// GetJSON fetches rawURL and decodes the JSON body into out, retrying
// transient failures. The returned error is always a *domain.Error.
func (c *Client) GetJSON(ctx context.Context, rawURL string, out any, opts *RequestOptions) error {
	endpoint := endpointLabel(rawURL)

	var err error
	attempts := 0
	for attempt := 0; ; attempt++ {
		attempts++
		err = c.do(ctx, rawURL, endpoint, out, opts)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return toDomainError(&NetworkError{URL: rawURL, Timeout: true, Err: ctx.Err()}, rawURL, attempts)
		}
		if !IsRetryable(err) || attempt >= c.retry.MaxRetries {
			break
		}

		delay := c.backoff(attempt)
		c.logger.Warn("upstream request failed, retrying",
			"endpoint", endpoint,
			"attempt", attempts,
			"delay", delay,
			"error", err,
		)
		c.metrics.UpstreamRetries.WithLabelValues(endpoint).Inc()

		if !c.wait(ctx, delay) {
			return toDomainError(&NetworkError{URL: rawURL, Timeout: true, Err: ctx.Err()}, rawURL, attempts)
		}
	}

	c.logger.Error("upstream request failed",
		"endpoint", endpoint,
		"attempts", attempts,
		"error", err,
	)
	return toDomainError(err, rawURL, attempts)
}

// do performs a single attempt.
func (c *Client) do(ctx context.Context, rawURL, endpoint string, out any, opts *RequestOptions) error {
	timeout := c.timeout
	if opts != nil && opts.Timeout > 0 {
		timeout = opts.Timeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if opts != nil {
		for k, v := range opts.Headers {
			req.Header.Set(k, v)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		ne := &NetworkError{URL: rawURL, Timeout: isTimeout(err), Err: err}
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, networkStatus(ne)).Inc()
		return ne
	}
	defer resp.Body.Close()

	c.metrics.UpstreamRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if reqCtx.Err() != nil {
			return &NetworkError{URL: rawURL, Timeout: isTimeout(reqCtx.Err()), Err: err}
		}
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// backoff returns the delay before retry number attempt+1:
// min(MaxDelay, BaseDelay*2^attempt + jitter), jitter below 10% of the
// exponential term.
func (c *Client) backoff(attempt int) time.Duration {
	exp := c.retry.BaseDelay << min(attempt, 20)
	if exp <= 0 || exp > c.retry.MaxDelay {
		exp = c.retry.MaxDelay
	}
	d := exp + time.Duration(c.jitter()*0.1*float64(exp))
	return min(d, c.retry.MaxDelay)
}

// wait sleeps for d on the client's clock, returning false if ctx ends first.
func (c *Client) wait(ctx context.Context, d time.Duration) bool {
	timer := c.clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}

func networkStatus(ne *NetworkError) string {
	if ne.Timeout {
		return "timeout"
	}
	return "network"
}

// endpointLabel reduces a URL to host and path for metric labels.
func endpointLabel(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "invalid"
	}
	return u.Host + u.Path
}
