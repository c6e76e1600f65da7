package domain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const (
	// ambiguityWindow is how many leading candidates the ambiguity check inspects.
	ambiguityWindow = 5
	// maxAlternatives caps the alternatives listed in an ambiguity error.
	maxAlternatives = 5
)

// Resolver turns free-form location strings into a single point, or a
// structured error explaining why it cannot. It holds no mutable state and
// is safe for concurrent use.
type Resolver struct {
	searcher Searcher
	logger   *slog.Logger
}

// NewResolver creates a Resolver backed by the given search service.
func NewResolver(searcher Searcher, logger *slog.Logger) *Resolver {
	return &Resolver{searcher: searcher, logger: logger}
}

// ResolveLocation resolves raw to one location. Coordinate input is
// validated and returned without a network call. Name input is searched,
// filtered by state or country, and checked for ambiguity; an ambiguous
// match fails with LOCATION_AMBIGUOUS listing the alternatives.
func (r *Resolver) ResolveLocation(ctx context.Context, raw string) (LocationResult, error) {
	location, err := ValidateLocation(raw)
	if err != nil {
		return LocationResult{}, err
	}

	input, err := Classify(location)
	if err != nil {
		return LocationResult{}, err
	}
	if input.IsCoordinates {
		return LocationResult{
			Latitude:  input.Coordinates.Latitude,
			Longitude: input.Coordinates.Longitude,
		}, nil
	}

	candidates, err := r.search(ctx, location, input.Query)
	if err != nil {
		return LocationResult{}, err
	}

	if alternatives := findAmbiguity(candidates, input.Query); alternatives != nil {
		return LocationResult{}, ambiguousError(location, input.Query, alternatives, len(candidates))
	}

	best := candidates[0]
	coords, err := ValidateCoordinates(best.Latitude, best.Longitude)
	if err != nil {
		return LocationResult{}, err
	}

	name := FormatLocationName(best)
	r.logger.Debug("location resolved",
		"query", location,
		"location_name", name,
		"candidates", len(candidates),
	)
	return LocationResult{
		Latitude:     coords.Latitude,
		Longitude:    coords.Longitude,
		LocationName: name,
	}, nil
}

// SearchLocations returns every candidate for query after state/country
// filtering, without failing on ambiguity. It backs "list all matches"
// style tools.
func (r *Resolver) SearchLocations(ctx context.Context, query string) ([]Candidate, error) {
	location, err := ValidateLocation(query)
	if err != nil {
		return nil, err
	}
	if IsCoordinateString(location) {
		return nil, Errorf(CodeInvalidLocationFormat, "search query %q is a coordinate pair", location).
			WithUserMessage("Location search expects a place name, not coordinates. Coordinates can be passed directly to the weather tools.")
	}
	return r.search(ctx, location, ParseLocationQuery(location))
}

// search issues the upstream request for the query's city token and applies
// state/country filtering. It fails when nothing matches.
func (r *Resolver) search(ctx context.Context, location string, query ParsedLocationQuery) ([]Candidate, error) {
	if query.City == "" {
		return nil, Errorf(CodeInvalidLocationFormat, "no place name in %q", location)
	}

	results, err := r.searcher.Search(ctx, query.City)
	if err != nil {
		return nil, WrapError(err, CodeSystemError)
	}
	if len(results) == 0 {
		return nil, notFoundError(location)
	}

	return r.filterCandidates(results, query)
}

// filterCandidates narrows candidates to the query's US state (hard filter)
// or country (soft filter). Filtering never reorders.
func (r *Resolver) filterCandidates(candidates []Candidate, query ParsedLocationQuery) ([]Candidate, error) {
	switch {
	case query.IsUSQuery && query.State != "":
		filtered := filterFunc(candidates, func(c Candidate) bool {
			return strings.EqualFold(c.CountryCode, "US") && NormalizeStateName(c.Admin1) == query.State
		})
		if len(filtered) == 0 {
			msg := fmt.Sprintf("No locations found for %q in %s", query.City, query.State)
			return nil, NewError(CodeLocationNotFound, msg).
				WithUserMessage(msg + ".").
				WithDetails(map[string]any{"city": query.City, "state": query.State, "candidates": len(candidates)})
		}
		return filtered, nil

	case query.Country != "" && !query.IsUSQuery:
		filtered := filterFunc(candidates, func(c Candidate) bool {
			return matchesCountry(c, query.Country)
		})
		if len(filtered) == 0 {
			r.logger.Debug("country filter matched nothing, keeping all candidates",
				"city", query.City,
				"country", query.Country,
				"candidates", len(candidates),
			)
			return candidates, nil
		}
		return filtered, nil
	}
	return candidates, nil
}

// findAmbiguity inspects the leading candidates and returns the distinct
// alternatives when they describe more than one place, or nil when the
// first candidate can be used.
//
// With a country in the query and at least one candidate from that country,
// only those candidates are compared, by admin1 region. Otherwise
// candidates are compared by (country code, admin1) pair.
func findAmbiguity(candidates []Candidate, query ParsedLocationQuery) []Candidate {
	window := candidates[:min(len(candidates), ambiguityWindow)]
	if len(window) < 2 {
		return nil
	}

	if query.Country != "" {
		matches := filterFunc(window, func(c Candidate) bool {
			return matchesCountry(c, query.Country)
		})
		switch {
		case len(matches) == 1:
			return nil
		case len(matches) > 1:
			if countDistinct(matches, regionName) < 2 {
				return nil
			}
			return distinctByRegion(matches)
		}
	}

	alternatives := distinctByRegion(window)
	if len(alternatives) < 2 {
		return nil
	}
	return alternatives
}

// regionKey identifies a candidate's (country code, admin1) pair.
func regionKey(c Candidate) string {
	return strings.ToUpper(c.CountryCode) + "|" + regionName(c)
}

// regionName is the comparable form of admin1: US state names and
// abbreviations collapse to the canonical name, and case is folded.
func regionName(c Candidate) string {
	admin1 := NormalizeStateName(c.Admin1)
	if admin1 == "" {
		return "none"
	}
	return strings.ToLower(admin1)
}

// distinctByRegion keeps the first candidate for each region pair, in order,
// up to maxAlternatives.
func distinctByRegion(candidates []Candidate) []Candidate {
	seen := make(map[string]bool, len(candidates))
	out := make([]Candidate, 0, min(len(candidates), maxAlternatives))
	for _, c := range candidates {
		key := regionKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
		if len(out) == maxAlternatives {
			break
		}
	}
	return out
}

func countDistinct(candidates []Candidate, key func(Candidate) string) int {
	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		seen[key(c)] = struct{}{}
	}
	return len(seen)
}

func filterFunc(candidates []Candidate, keep func(Candidate) bool) []Candidate {
	out := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func notFoundError(location string) *Error {
	msg := fmt.Sprintf("No locations found for %q", location)
	return NewError(CodeLocationNotFound, msg).
		WithUserMessage(msg + ". Please try a different search term or be more specific.").
		WithDetails(map[string]any{"query": location})
}

func ambiguousError(location string, query ParsedLocationQuery, alternatives []Candidate, total int) *Error {
	names := make([]string, len(alternatives))
	for i, c := range alternatives {
		names[i] = formatAlternative(c)
	}

	qualifier := alternatives[0].Admin1
	if qualifier == "" {
		qualifier = alternatives[0].Country
	}
	example := query.City
	if qualifier != "" {
		example += ", " + qualifier
	}

	msg := fmt.Sprintf("Multiple locations found for %q: %s. Use the search_locations tool to see all %d options, or use a more specific query (e.g. %q).",
		location, strings.Join(names, "; "), total, example)

	return NewError(CodeLocationAmbiguous, msg).
		WithUserMessage(msg).
		WithDetails(map[string]any{
			"query":        location,
			"alternatives": names,
			"total":        total,
		})
}
