package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Outcome classifies how a lookup ended.
type Outcome string

const (
	OutcomeResolved    Outcome = "resolved"
	OutcomeCoordinates Outcome = "coordinates"
	OutcomeSearched    Outcome = "searched"
	OutcomeAmbiguous   Outcome = "ambiguous"
	OutcomeNotFound    Outcome = "not_found"
	OutcomeInvalid     Outcome = "invalid"
	OutcomeFailed      Outcome = "failed"
)

// OutcomeOf maps a resolution error to its Outcome. A nil error is a
// successful name resolution.
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeResolved
	}
	e, ok := AsError(err)
	if !ok {
		return OutcomeFailed
	}
	switch {
	case e.Code == CodeLocationAmbiguous:
		return OutcomeAmbiguous
	case e.Code == CodeLocationNotFound:
		return OutcomeNotFound
	case e.Category == CategoryValidation:
		return OutcomeInvalid
	default:
		return OutcomeFailed
	}
}

// LookupEvent records one location lookup made by a tool call. Events are
// published to an outbound stream and never read back by this service.
type LookupEvent struct {
	ID           string    `json:"id"`
	Tool         string    `json:"tool"`
	Query        string    `json:"query"`
	Outcome      Outcome   `json:"outcome"`
	ErrorCode    Code      `json:"error_code,omitempty"`
	Latitude     float64   `json:"latitude,omitempty"`
	Longitude    float64   `json:"longitude,omitempty"`
	LocationName string    `json:"location_name,omitempty"`
	Candidates   int       `json:"candidates,omitempty"`
	ResolvedAt   time.Time `json:"resolved_at"`
}

// HasPoint reports whether the event carries resolved coordinates.
func (e LookupEvent) HasPoint() bool {
	return e.Outcome == OutcomeResolved || e.Outcome == OutcomeCoordinates
}

// NewLookupEvent builds an event for a resolve call on query. For a
// successful call, result supplies the point; a result without a location
// name means the query was already coordinates.
func NewLookupEvent(tool, query string, result LocationResult, err error) LookupEvent {
	ev := LookupEvent{
		ID:         uuid.NewString(),
		Tool:       tool,
		Query:      query,
		Outcome:    OutcomeOf(err),
		ResolvedAt: clock.Now().UTC(),
	}
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			ev.ErrorCode = e.Code
		} else {
			ev.ErrorCode = CodeSystemError
		}
		return ev
	}

	if result.LocationName == "" {
		ev.Outcome = OutcomeCoordinates
	}
	ev.Latitude = result.Latitude
	ev.Longitude = result.Longitude
	ev.LocationName = result.LocationName
	return ev
}

// NewSearchEvent builds an event for a search call that returned n candidates.
func NewSearchEvent(tool, query string, n int, err error) LookupEvent {
	ev := NewLookupEvent(tool, query, LocationResult{}, err)
	if err == nil {
		ev.Outcome = OutcomeSearched
		ev.Candidates = n
	}
	return ev
}
