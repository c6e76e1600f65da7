package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Severity ranks how serious a failure is for the caller.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Category groups error codes so callers can branch without inspecting messages.
type Category string

const (
	CategoryNetwork    Category = "network"
	CategoryAPI        Category = "api"
	CategoryRateLimit  Category = "rate_limit"
	CategoryLocation   Category = "location"
	CategoryValidation Category = "validation"
	CategoryWeather    Category = "weather"
	CategorySystem     Category = "system"
)

// Code identifies a specific failure within a Category.
type Code string

const (
	CodeNetworkTimeout         Code = "NETWORK_TIMEOUT"
	CodeNetworkUnavailable     Code = "NETWORK_UNAVAILABLE"
	CodeAPIRateLimit           Code = "API_RATE_LIMIT"
	CodeAPIServiceError        Code = "API_SERVICE_ERROR"
	CodeLocationNotFound       Code = "LOCATION_NOT_FOUND"
	CodeLocationAmbiguous      Code = "LOCATION_AMBIGUOUS"
	CodeInvalidCoordinates     Code = "INVALID_COORDINATES"
	CodeInvalidLocationFormat  Code = "INVALID_LOCATION_FORMAT"
	CodeInvalidTemperatureUnit Code = "INVALID_TEMPERATURE_UNIT"
	CodeWeatherDataUnavailable Code = "WEATHER_DATA_UNAVAILABLE"
	CodeSystemError            Code = "SYSTEM_ERROR"
)

// Error is the uniform failure shape surfaced to tool callers. It carries
// both a user-facing message with suggestions and a technical message for logs.
type Error struct {
	Severity         Severity       `json:"severity"`
	Category         Category       `json:"category"`
	Code             Code           `json:"errorCode"`
	UserMessage      string         `json:"userMessage"`
	TechnicalMessage string         `json:"technicalMessage"`
	Suggestions      []string       `json:"suggestions"`
	Retryable        bool           `json:"retryable"`
	Details          map[string]any `json:"details,omitempty"`

	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.TechnicalMessage)
}

func (e *Error) Unwrap() error { return e.cause }

// UserText renders the user message followed by a bulleted suggestion list.
func (e *Error) UserText() string {
	if len(e.Suggestions) == 0 {
		return e.UserMessage
	}
	return e.UserMessage + "\n\nSuggestions:\n• " + strings.Join(e.Suggestions, "\n• ")
}

// WithUserMessage replaces the generic catalog message with a specific one.
func (e *Error) WithUserMessage(msg string) *Error {
	e.UserMessage = msg
	return e
}

// WithDetails merges structured context into the error.
func (e *Error) WithDetails(details map[string]any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any, len(details))
	}
	maps.Copy(e.Details, details)
	return e
}

// WithCause records the underlying error for errors.Is / errors.As.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

// LogAttrs returns key/value pairs suitable for slog.
func (e *Error) LogAttrs() []any {
	attrs := []any{
		"error_code", e.Code,
		"category", e.Category,
		"severity", e.Severity,
		"retryable", e.Retryable,
		"error", e.TechnicalMessage,
	}
	if e.cause != nil {
		attrs = append(attrs, "cause", e.cause.Error())
	}
	return attrs
}

type errorTemplate struct {
	severity    Severity
	category    Category
	userMessage string
	suggestions []string
	retryable   bool
}

var catalog = map[Code]errorTemplate{
	CodeNetworkTimeout: {
		severity:    SeverityWarning,
		category:    CategoryNetwork,
		userMessage: "The weather service is taking longer than expected to respond.",
		suggestions: []string{
			"Check your internet connection",
			"Try again in a few moments",
			"The weather service may be experiencing high load",
		},
		retryable: true,
	},
	CodeNetworkUnavailable: {
		severity:    SeverityCritical,
		category:    CategoryNetwork,
		userMessage: "Unable to connect to the weather service.",
		suggestions: []string{
			"Check your internet connection",
			"Verify that you can access other websites",
			"Try again later as the service may be temporarily unavailable",
		},
		retryable: true,
	},
	CodeAPIRateLimit: {
		severity:    SeverityWarning,
		category:    CategoryRateLimit,
		userMessage: "You've made too many requests. Please wait a moment before trying again.",
		suggestions: []string{
			"Wait 60 seconds before making another request",
			"Consider reducing the frequency of your requests",
		},
		retryable: true,
	},
	CodeAPIServiceError: {
		severity:    SeverityWarning,
		category:    CategoryAPI,
		userMessage: "The weather service is experiencing technical difficulties.",
		suggestions: []string{
			"Try again in a few minutes",
			"The service should be restored shortly",
		},
		retryable: true,
	},
	CodeLocationNotFound: {
		severity:    SeverityInfo,
		category:    CategoryLocation,
		userMessage: "We couldn't find a location matching your search.",
		suggestions: []string{
			"Check the spelling of the location name",
			"Try including the state or country (e.g., 'Paris, France' or 'Paris, TX')",
			"Use coordinates if you know them (e.g., '40.7128,-74.0060')",
			"Use the search_locations tool to see available options",
		},
	},
	CodeLocationAmbiguous: {
		severity:    SeverityInfo,
		category:    CategoryLocation,
		userMessage: "Multiple locations match your search. Please be more specific.",
		suggestions: []string{
			"Include the state or country in your search",
			"Use the search_locations tool to see all matching locations",
			"Choose the most specific location name",
		},
	},
	CodeInvalidCoordinates: {
		severity:    SeverityInfo,
		category:    CategoryValidation,
		userMessage: "The coordinates you provided are not valid.",
		suggestions: []string{
			"Latitude must be between -90 and 90",
			"Longitude must be between -180 and 180",
			"Use decimal format (e.g., '40.7128,-74.0060')",
			"Double-check your coordinate values",
		},
	},
	CodeInvalidLocationFormat: {
		severity:    SeverityInfo,
		category:    CategoryValidation,
		userMessage: "The location format is not recognized.",
		suggestions: []string{
			"Use city names (e.g., 'New York')",
			"Include state for US cities (e.g., 'Miami, FL')",
			"Include country for international cities (e.g., 'London, UK')",
			"Use coordinates in 'latitude,longitude' format if needed",
		},
	},
	CodeInvalidTemperatureUnit: {
		severity:    SeverityInfo,
		category:    CategoryValidation,
		userMessage: "The temperature unit you specified is not supported.",
		suggestions: []string{
			"Use 'fahrenheit' or 'celsius'",
			"Leave blank to use Fahrenheit (default)",
		},
	},
	CodeWeatherDataUnavailable: {
		severity:    SeverityWarning,
		category:    CategoryWeather,
		userMessage: "Weather data is temporarily unavailable for this location.",
		suggestions: []string{
			"Try again in a few minutes",
			"Verify the location exists and has weather coverage",
			"Try a nearby major city",
		},
		retryable: true,
	},
	CodeSystemError: {
		severity:    SeverityCritical,
		category:    CategorySystem,
		userMessage: "An unexpected error occurred. Please try again.",
		suggestions: []string{
			"Try your request again",
			"If the problem persists, the issue has been logged for investigation",
		},
		retryable: true,
	},
}

// NewError builds an Error from the catalog entry for code. Unknown codes
// fall back to SYSTEM_ERROR.
func NewError(code Code, technical string) *Error {
	tmpl, ok := catalog[code]
	if !ok {
		code = CodeSystemError
		tmpl = catalog[CodeSystemError]
	}
	return &Error{
		Severity:         tmpl.severity,
		Category:         tmpl.category,
		Code:             code,
		UserMessage:      tmpl.userMessage,
		TechnicalMessage: technical,
		Suggestions:      slices.Clone(tmpl.suggestions),
		Retryable:        tmpl.retryable,
	}
}

// Errorf is NewError with a formatted technical message.
func Errorf(code Code, format string, args ...any) *Error {
	return NewError(code, fmt.Sprintf(format, args...))
}

// AsError extracts an *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// WrapError returns err unchanged when it already carries an *Error, and
// otherwise wraps it as fallback (SYSTEM_ERROR when fallback is empty).
func WrapError(err error, fallback Code) *Error {
	if err == nil {
		return nil
	}
	if e, ok := AsError(err); ok {
		return e
	}
	if fallback == "" {
		fallback = CodeSystemError
	}
	return NewError(fallback, err.Error()).WithCause(err)
}

// HasCode reports whether err carries an *Error with the given code.
func HasCode(err error, code Code) bool {
	e, ok := AsError(err)
	return ok && e.Code == code
}
