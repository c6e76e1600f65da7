// Command weather-mcp serves weather and location tools over the Model
// Context Protocol and offers the same lookups from the command line.
//
// Usage:
//
//	weather-mcp serve                     # stdio transport (MCP_TRANSPORT=http for /mcp)
//	weather-mcp resolve "Springfield, IL"
//	weather-mcp search Springfield
//	weather-mcp validate
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is not an error; the environment may be set directly.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "weather-mcp",
		Short:         "Weather and location MCP server",
		Long:          "Resolves place names to coordinates and reports current weather and forecasts from Open-Meteo, as MCP tools or from the command line.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newResolveCmd(), newSearchCmd(), newValidateCmd())
	return root
}
