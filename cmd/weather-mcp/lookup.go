package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/weather-mcp-server/internal/domain"
	"github.com/couchcryptid/weather-mcp-server/internal/report"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <location>",
		Short: "Resolve a place name or \"lat,lng\" to a single point",
		Example: `  weather-mcp resolve "Springfield, IL"
  weather-mcp resolve "London, UK"
  weather-mcp resolve "40.7128,-74.0060"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			result, err := a.resolver.ResolveLocation(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return userError(err)
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
}

func newSearchCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "List every location matching a query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			candidates, err := a.resolver.SearchLocations(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return userError(err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), candidates)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), report.SearchResults(candidates))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print candidates as JSON")
	return cmd
}

// userError replaces a domain error with its user-facing text.
func userError(err error) error {
	if e, ok := domain.AsError(err); ok {
		return fmt.Errorf("%s: %s", e.Code, e.UserText())
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
