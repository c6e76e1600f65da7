package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/couchcryptid/weather-mcp-server/internal/domain"
)

// StatusError is a non-2xx upstream response.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("HTTP %d: %s - %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// NetworkError is a transport failure: no response was received.
type NetworkError struct {
	URL     string
	Timeout bool
	Err     error
}

func (e *NetworkError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request to %s timed out: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("request to %s failed: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

var retryableStatus = map[int]bool{
	http.StatusRequestTimeout:      true,
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// IsRetryable reports whether err is a transient failure worth another attempt.
func IsRetryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return retryableStatus[se.StatusCode]
	}
	var ne *NetworkError
	return errors.As(err, &ne)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// toDomainError maps the final failure of a request to the error taxonomy.
func toDomainError(err error, url string, attempts int) *domain.Error {
	details := map[string]any{"url": url, "attempts": attempts}

	var se *StatusError
	if errors.As(err, &se) {
		details["status"] = se.StatusCode
		code := domain.CodeSystemError
		switch {
		case se.StatusCode == http.StatusTooManyRequests:
			code = domain.CodeAPIRateLimit
		case se.StatusCode == http.StatusRequestTimeout:
			code = domain.CodeNetworkTimeout
		case se.StatusCode >= 500:
			code = domain.CodeAPIServiceError
		}
		return domain.NewError(code, se.Error()).WithCause(err).WithDetails(details)
	}

	var ne *NetworkError
	if errors.As(err, &ne) {
		code := domain.CodeNetworkUnavailable
		if ne.Timeout {
			code = domain.CodeNetworkTimeout
		}
		return domain.NewError(code, ne.Error()).WithCause(err).WithDetails(details)
	}

	return domain.NewError(domain.CodeSystemError, err.Error()).WithCause(err).WithDetails(details)
}
