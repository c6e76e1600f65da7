package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/weather-mcp-server/internal/domain"
)

// check is one live validation against the configured upstream services.
type check struct {
	name string
	run  func(ctx context.Context, a *app) error
}

// resolvesTo checks that location resolves to a name containing want.
func resolvesTo(location, want string) check {
	return check{
		name: fmt.Sprintf("resolve %q", location),
		run: func(ctx context.Context, a *app) error {
			got, err := a.resolver.ResolveLocation(ctx, location)
			if err != nil {
				return err
			}
			if !strings.Contains(got.LocationName, want) {
				return fmt.Errorf("resolved to %q, want a name containing %q", got.LocationName, want)
			}
			return nil
		},
	}
}

// failsWith checks that resolving location fails with code.
func failsWith(location string, code domain.Code) check {
	return check{
		name: fmt.Sprintf("resolve %q fails with %s", location, code),
		run: func(ctx context.Context, a *app) error {
			got, err := a.resolver.ResolveLocation(ctx, location)
			if err == nil {
				return fmt.Errorf("resolved to %q, want %s", got.LocationName, code)
			}
			if !domain.HasCode(err, code) {
				return fmt.Errorf("got %w, want %s", err, code)
			}
			return nil
		},
	}
}

var checks = []check{
	resolvesTo("New York, NY", "New York"),
	resolvesTo("Springfield, IL", "Illinois"),
	resolvesTo("London, UK", "United Kingdom"),
	resolvesTo("Paris, France", "France"),
	resolvesTo("Tokyo", "Japan"),
	failsWith("Springfield", domain.CodeLocationAmbiguous),
	failsWith("Xyzzyqwertyville", domain.CodeLocationNotFound),
	{
		name: "current weather for 40.7128,-74.0060",
		run: func(ctx context.Context, a *app) error {
			_, err := a.weather.Current(ctx, domain.Coordinates{Latitude: 40.7128, Longitude: -74.006})
			return err
		},
	},
	{
		name: fmt.Sprintf("%d-day forecast for London", domain.ForecastDays),
		run: func(ctx context.Context, a *app) error {
			f, err := a.weather.Forecast(ctx, domain.Coordinates{Latitude: 51.5085, Longitude: -0.1257}, domain.ForecastDays)
			if err != nil {
				return err
			}
			if len(f.Days) != domain.ForecastDays {
				return fmt.Errorf("got %d days, want %d", len(f.Days), domain.ForecastDays)
			}
			return nil
		},
	},
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check resolution and weather lookups against the live upstream services",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if failed := runChecks(cmd.Context(), cmd.OutOrStdout(), a, checks); failed > 0 {
				return fmt.Errorf("validation failed: %d of %d checks", failed, len(checks))
			}
			return nil
		},
	}
}

// runChecks runs every check, prints a summary, and returns the number that
// failed.
func runChecks(ctx context.Context, w io.Writer, a *app, checks []check) int {
	fmt.Fprintln(w, "=== Weather MCP Live Validation ===")
	fmt.Fprintln(w)

	var failures []string
	for _, c := range checks {
		status := "PASS"
		if err := c.run(ctx, a); err != nil {
			status = "FAIL"
			failures = append(failures, fmt.Sprintf("%s: %v", c.name, err))
		}
		fmt.Fprintf(w, "  %-48s %s\n", c.name, status)
	}

	fmt.Fprintln(w)
	if len(failures) == 0 {
		fmt.Fprintln(w, "All validations passed.")
		return 0
	}
	for i, f := range failures {
		fmt.Fprintf(w, "  [%d] %s\n", i+1, f)
	}
	fmt.Fprintln(w, "\nValidation FAILED.")
	return len(failures)
}
