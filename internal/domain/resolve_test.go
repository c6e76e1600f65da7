package domain

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- fake searcher ---

type fakeSearcher struct {
	results []Candidate
	err     error
	names   []string
}

func (f *fakeSearcher) Search(_ context.Context, name string) ([]Candidate, error) {
	f.names = append(f.names, name)
	return f.results, f.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestResolver(results []Candidate, err error) (*Resolver, *fakeSearcher) {
	s := &fakeSearcher{results: results, err: err}
	return NewResolver(s, discardLogger()), s
}

func usCandidate(name, state string, lat, lng float64) Candidate {
	return Candidate{
		Name:        name,
		Latitude:    lat,
		Longitude:   lng,
		Country:     "United States",
		CountryCode: "US",
		Admin1:      state,
	}
}

func springfields() []Candidate {
	return []Candidate{
		usCandidate("Springfield", "Illinois", 39.7817, -89.6501),
		usCandidate("Springfield", "Massachusetts", 42.1015, -72.5898),
		usCandidate("Springfield", "Missouri", 37.2153, -93.2982),
		usCandidate("Springfield", "Ohio", 39.9242, -83.8088),
	}
}

func requireCode(t *testing.T, err error, code Code) *Error {
	t.Helper()
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok, "expected *domain.Error, got %T", err)
	require.Equal(t, code, e.Code, "message: %s", e.TechnicalMessage)
	return e
}

// --- tests ---

func TestResolveLocation_StateFilterNarrowsToOne(t *testing.T) {
	r, s := newTestResolver(springfields(), nil)

	got, err := r.ResolveLocation(context.Background(), "Springfield, IL")

	require.NoError(t, err)
	want := LocationResult{Latitude: 39.7817, Longitude: -89.6501, LocationName: "Springfield, Illinois, United States"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ResolveLocation mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{"Springfield"}, s.names, "only the city token is searched")
}

func TestResolveLocation_AmbiguousWithoutState(t *testing.T) {
	r, _ := newTestResolver(springfields(), nil)

	_, err := r.ResolveLocation(context.Background(), "Springfield")

	e := requireCode(t, err, CodeLocationAmbiguous)
	assert.Equal(t, CategoryLocation, e.Category)
	assert.Contains(t, e.UserMessage,
		"Springfield, Illinois, United States; Springfield, Massachusetts, United States; "+
			"Springfield, Missouri, United States; Springfield, Ohio, United States")
	assert.Contains(t, e.UserMessage, "see all 4 options")
	assert.Equal(t, 4, e.Details["total"])
}

func TestResolveLocation_CoordinatesSkipSearch(t *testing.T) {
	r, s := newTestResolver(springfields(), nil)

	got, err := r.ResolveLocation(context.Background(), "40.7128,-74.0060")

	require.NoError(t, err)
	assert.Equal(t, LocationResult{Latitude: 40.7128, Longitude: -74.006}, got)
	assert.Empty(t, got.LocationName)
	assert.Empty(t, s.names, "coordinates must not reach the search service")
}

func TestResolveLocation_CoordinateShapes(t *testing.T) {
	tests := []struct {
		input    string
		lat, lng float64
	}{
		{"0,0", 0, 0},
		{" 51.5074 , -0.1278 ", 51.5074, -0.1278},
		{"-90,180", -90, 180},
		{"90,-180", 90, -180},
		{"-33.8688,151.2093", -33.8688, 151.2093},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, s := newTestResolver(nil, nil)

			got, err := r.ResolveLocation(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.lat, got.Latitude)
			assert.Equal(t, tt.lng, got.Longitude)
			assert.Empty(t, s.names)
		})
	}
}

func TestResolveLocation_OutOfRangeCoordinates(t *testing.T) {
	for _, input := range []string{"91,0", "0,181", "-90.5,10", "45,-200"} {
		t.Run(input, func(t *testing.T) {
			r, s := newTestResolver(springfields(), nil)

			_, err := r.ResolveLocation(context.Background(), input)

			e := requireCode(t, err, CodeInvalidCoordinates)
			assert.Equal(t, CategoryValidation, e.Category)
			assert.Empty(t, s.names, "invalid coordinates never fall back to a name search")
		})
	}
}

func TestResolveLocation_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"whitespace", "   \t "},
		{"too long", strings.Repeat("a", MaxLocationLength+1)},
		{"commas only", ", ,"},
		{"state without city", ", FL"},
		{"country without city", " , France"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, s := newTestResolver(springfields(), nil)

			_, err := r.ResolveLocation(context.Background(), tt.input)

			e := requireCode(t, err, CodeInvalidLocationFormat)
			assert.Equal(t, CategoryValidation, e.Category)
			assert.False(t, e.Retryable)
			assert.Empty(t, s.names)
		})
	}
}

func TestResolveLocation_MaxLengthAccepted(t *testing.T) {
	r, s := newTestResolver([]Candidate{usCandidate("X", "Texas", 30, -97)}, nil)

	_, err := r.ResolveLocation(context.Background(), strings.Repeat("é", MaxLocationLength))

	require.NoError(t, err)
	assert.Len(t, s.names, 1)
}

func TestResolveLocation_StateFilterRejectsFalsePositive(t *testing.T) {
	candidates := []Candidate{
		usCandidate("Miami Gardens", "California", 34.05, -118.25),
		usCandidate("Miami", "Florida", 25.7743, -80.1937),
	}
	r, _ := newTestResolver(candidates, nil)

	got, err := r.ResolveLocation(context.Background(), "Miami, FL")

	require.NoError(t, err)
	assert.Equal(t, 25.7743, got.Latitude)
	assert.Equal(t, -80.1937, got.Longitude)
	assert.Equal(t, "Miami, Florida, United States", got.LocationName)
}

func TestResolveLocation_StateFilterIgnoresOtherCountries(t *testing.T) {
	candidates := []Candidate{
		{Name: "Georgia", Latitude: 42, Longitude: 43.5, Country: "Georgia", CountryCode: "GE", Admin1: "Georgia"},
		usCandidate("Athens", "Georgia", 33.9609, -83.3779),
	}
	r, _ := newTestResolver(candidates, nil)

	got, err := r.ResolveLocation(context.Background(), "Athens, GA")

	require.NoError(t, err)
	assert.Equal(t, "Athens, Georgia, United States", got.LocationName)
}

func TestResolveLocation_StateFilterNoMatch(t *testing.T) {
	r, _ := newTestResolver([]Candidate{usCandidate("Miami", "Florida", 25.77, -80.19)}, nil)

	_, err := r.ResolveLocation(context.Background(), "Miami, california")

	e := requireCode(t, err, CodeLocationNotFound)
	assert.Equal(t, `No locations found for "Miami" in California`, e.TechnicalMessage)
}

func TestResolveLocation_StateWithUSASynonym(t *testing.T) {
	candidates := []Candidate{
		usCandidate("Portland", "Maine", 43.6591, -70.2568),
		usCandidate("Portland", "Oregon", 45.5234, -122.6762),
	}
	r, _ := newTestResolver(candidates, nil)

	got, err := r.ResolveLocation(context.Background(), "Portland, OR, USA")

	require.NoError(t, err)
	assert.Equal(t, 45.5234, got.Latitude)
	assert.Equal(t, "Portland, Oregon, United States", got.LocationName)
}

func TestResolveLocation_NotFound(t *testing.T) {
	r, s := newTestResolver([]Candidate{}, nil)

	_, err := r.ResolveLocation(context.Background(), "Atlantis, Ocean")

	e := requireCode(t, err, CodeLocationNotFound)
	assert.Equal(t, `No locations found for "Atlantis, Ocean"`, e.TechnicalMessage)
	assert.Equal(t, []string{"Atlantis"}, s.names)
	assert.NotEmpty(t, e.Suggestions)
}

func TestResolveLocation_ThreeDistinctPairsInWindow(t *testing.T) {
	candidates := []Candidate{
		usCandidate("Columbia", "South Carolina", 34.0007, -81.0348),
		usCandidate("Columbia", "South Carolina", 34.01, -81.04),
		usCandidate("Columbia", "Missouri", 38.9517, -92.3341),
		{Name: "Columbia", Latitude: 4.6, Longitude: -74.1, Country: "Colombia", CountryCode: "CO"},
		usCandidate("Columbia", "Missouri", 38.95, -92.33),
		// Sixth candidate is outside the inspected window.
		usCandidate("Columbia", "Maryland", 39.2037, -76.861),
	}
	r, _ := newTestResolver(candidates, nil)

	_, err := r.ResolveLocation(context.Background(), "Columbia")

	e := requireCode(t, err, CodeLocationAmbiguous)
	want := []string{
		"Columbia, South Carolina, United States",
		"Columbia, Missouri, United States",
		"Columbia, Colombia",
	}
	if diff := cmp.Diff(want, e.Details["alternatives"]); diff != "" {
		t.Errorf("alternatives mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 6, e.Details["total"])
	assert.NotContains(t, e.UserMessage, "Maryland")
}

func TestResolveLocation_AlternativesCappedAtFive(t *testing.T) {
	states := []string{"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado", "Connecticut"}
	candidates := make([]Candidate, 0, len(states))
	for i, s := range states {
		candidates = append(candidates, usCandidate("Franklin", s, float64(30+i), -90))
	}
	r, _ := newTestResolver(candidates, nil)

	_, err := r.ResolveLocation(context.Background(), "Franklin")

	e := requireCode(t, err, CodeLocationAmbiguous)
	assert.Len(t, e.Details["alternatives"], maxAlternatives)
	assert.Contains(t, e.UserMessage, "see all 7 options")
}

func TestResolveLocation_SameRegionDuplicatesAreUnambiguous(t *testing.T) {
	candidates := []Candidate{
		usCandidate("Austin", "Texas", 30.2672, -97.7431),
		usCandidate("Austin", "Texas", 30.3, -97.8),
	}
	r, _ := newTestResolver(candidates, nil)

	got, err := r.ResolveLocation(context.Background(), "Austin")

	require.NoError(t, err)
	assert.Equal(t, 30.2672, got.Latitude, "upstream order is preserved")
}

func TestResolveLocation_RegionSpellingsAreUnambiguous(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		candidates []Candidate
	}{
		{
			name:  "state filter with mixed case",
			query: "Springfield, IL",
			candidates: []Candidate{
				usCandidate("Springfield", "Illinois", 39.7817, -89.6501),
				usCandidate("Springfield", "ILLINOIS", 39.8, -89.6),
			},
		},
		{
			name:  "state name and abbreviation",
			query: "Austin",
			candidates: []Candidate{
				usCandidate("Austin", "Texas", 39.7817, -89.6501),
				usCandidate("Austin", "TX", 30.3, -97.8),
			},
		},
		{
			name:  "non-US region case",
			query: "Newport",
			candidates: []Candidate{
				{Name: "Newport", Latitude: 39.7817, Longitude: -89.6501, Country: "United Kingdom", CountryCode: "GB", Admin1: "Wales"},
				{Name: "Newport", Latitude: 51.6, Longitude: -3.0, Country: "United Kingdom", CountryCode: "gb", Admin1: "WALES"},
			},
		},
		{
			name:  "country query with region case",
			query: "Newport, UK",
			candidates: []Candidate{
				{Name: "Newport", Latitude: 39.7817, Longitude: -89.6501, Country: "United Kingdom", CountryCode: "GB", Admin1: "Wales"},
				{Name: "Newport", Latitude: 51.6, Longitude: -3.0, Country: "United Kingdom", CountryCode: "GB", Admin1: "wales"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestResolver(tt.candidates, nil)

			got, err := r.ResolveLocation(context.Background(), tt.query)

			require.NoError(t, err)
			assert.Equal(t, 39.7817, got.Latitude)
		})
	}
}

func TestResolveLocation_CountryFilter(t *testing.T) {
	london := []Candidate{
		{Name: "London", Latitude: 51.5085, Longitude: -0.1257, Country: "United Kingdom", CountryCode: "GB", Admin1: "England"},
		{Name: "London", Latitude: 42.9834, Longitude: -81.233, Country: "Canada", CountryCode: "CA", Admin1: "Ontario"},
		usCandidate("London", "Kentucky", 37.129, -84.0833),
	}

	tests := []struct {
		name     string
		input    string
		wantName string
	}{
		{"alias", "London, UK", "London, England, United Kingdom"},
		{"iso code", "London, gb", "London, England, United Kingdom"},
		{"country name", "London, Canada", "London, Ontario, Canada"},
		{"region alias", "London, England", "London, England, United Kingdom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newTestResolver(london, nil)

			got, err := r.ResolveLocation(context.Background(), tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, got.LocationName)
		})
	}
}

func TestResolveLocation_CountryFilterFallsBack(t *testing.T) {
	paris := []Candidate{
		{Name: "Paris", Latitude: 48.8534, Longitude: 2.3488, Country: "France", CountryCode: "FR", Admin1: "Île-de-France"},
		usCandidate("Paris", "Texas", 33.6609, -95.5555),
	}
	r, _ := newTestResolver(paris, nil)

	_, err := r.ResolveLocation(context.Background(), "Paris, Narnia")

	requireCode(t, err, CodeLocationAmbiguous)
}

func TestResolveLocation_CountryMatchesAcrossRegions(t *testing.T) {
	candidates := []Candidate{
		{Name: "Richmond", Latitude: 54.4, Longitude: -1.73, Country: "United Kingdom", CountryCode: "GB", Admin1: "England"},
		{Name: "Richmond", Latitude: 57.1, Longitude: -2.1, Country: "United Kingdom", CountryCode: "GB", Admin1: "Scotland"},
		usCandidate("Richmond", "Virginia", 37.5538, -77.4603),
	}
	r, _ := newTestResolver(candidates, nil)

	_, err := r.ResolveLocation(context.Background(), "Richmond, UK")

	e := requireCode(t, err, CodeLocationAmbiguous)
	assert.Equal(t, []string{
		"Richmond, England, United Kingdom",
		"Richmond, Scotland, United Kingdom",
	}, e.Details["alternatives"])
}

func TestResolveLocation_CountryMatchesSameRegion(t *testing.T) {
	candidates := []Candidate{
		{Name: "Newport", Latitude: 51.5877, Longitude: -2.9984, Country: "United Kingdom", CountryCode: "GB", Admin1: "Wales"},
		{Name: "Newport", Latitude: 51.6, Longitude: -3.0, Country: "United Kingdom", CountryCode: "GB", Admin1: "Wales"},
	}
	r, _ := newTestResolver(candidates, nil)

	got, err := r.ResolveLocation(context.Background(), "Newport, Wales, UK")

	require.NoError(t, err)
	assert.Equal(t, 51.5877, got.Latitude)
	assert.Equal(t, "Newport, Wales, United Kingdom", got.LocationName)
}

func TestResolveLocation_CandidateOutOfRange(t *testing.T) {
	r, _ := newTestResolver([]Candidate{{Name: "Nowhere", Latitude: 95, Longitude: 0}}, nil)

	_, err := r.ResolveLocation(context.Background(), "Nowhere")

	requireCode(t, err, CodeInvalidCoordinates)
}

func TestResolveLocation_SearchErrors(t *testing.T) {
	t.Run("structured error passes through", func(t *testing.T) {
		r, _ := newTestResolver(nil, NewError(CodeAPIRateLimit, "HTTP 429"))

		_, err := r.ResolveLocation(context.Background(), "Berlin")

		e := requireCode(t, err, CodeAPIRateLimit)
		assert.True(t, e.Retryable)
	})

	t.Run("plain error becomes system error", func(t *testing.T) {
		cause := errors.New("boom")
		r, _ := newTestResolver(nil, cause)

		_, err := r.ResolveLocation(context.Background(), "Berlin")

		requireCode(t, err, CodeSystemError)
		assert.ErrorIs(t, err, cause)
	})
}

func TestResolveLocation_NameFormatting(t *testing.T) {
	candidates := []Candidate{
		{Name: "Berlin", Latitude: 52.5244, Longitude: 13.4105, Country: "Germany", CountryCode: "DE", Admin1: "Berlin"},
	}
	r, _ := newTestResolver(candidates, nil)

	got, err := r.ResolveLocation(context.Background(), "  Berlin  ")

	require.NoError(t, err)
	assert.Equal(t, "Berlin, Germany", got.LocationName)
}

func TestSearchLocations(t *testing.T) {
	t.Run("returns every candidate without ambiguity check", func(t *testing.T) {
		r, _ := newTestResolver(springfields(), nil)

		got, err := r.SearchLocations(context.Background(), "Springfield")

		require.NoError(t, err)
		if diff := cmp.Diff(springfields(), got); diff != "" {
			t.Errorf("SearchLocations mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("applies state filter", func(t *testing.T) {
		r, _ := newTestResolver(springfields(), nil)

		got, err := r.SearchLocations(context.Background(), "Springfield, Missouri")

		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Missouri", got[0].Admin1)
	})

	t.Run("no results", func(t *testing.T) {
		r, _ := newTestResolver(nil, nil)

		_, err := r.SearchLocations(context.Background(), "Qwertyuiop")

		requireCode(t, err, CodeLocationNotFound)
	})

	t.Run("coordinates rejected", func(t *testing.T) {
		r, s := newTestResolver(springfields(), nil)

		_, err := r.SearchLocations(context.Background(), "40.7,-74.0")

		requireCode(t, err, CodeInvalidLocationFormat)
		assert.Empty(t, s.names)
	})

	t.Run("empty rejected", func(t *testing.T) {
		r, s := newTestResolver(springfields(), nil)

		_, err := r.SearchLocations(context.Background(), "")

		requireCode(t, err, CodeInvalidLocationFormat)
		assert.Empty(t, s.names)
	})
}
