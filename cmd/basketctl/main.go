// Package main provides the BasketLens command-line client.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/basketlens/backend/internal/observability"
)

var (
	// Global flags
	outputJSON bool
	noColor    bool
	logLevel   string

	logger zerolog.Logger
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "basketctl",
	Short: "Compare grocery search results by price, unit price and quantity",
	Long: `basketctl normalizes retailer search results and ranks them.

Use this tool to:
- View a saved Waitrose or Asda search payload through the filter pipeline
- Search a retailer live and filter the results
- List the units, unit kinds and sort criteria the pipeline understands

All commands support --json for automation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		logger = observability.NewLogger(observability.LogConfig{
			Level:       logLevel,
			Format:      "console",
			Output:      os.Stderr,
			ServiceName: "basketctl",
		})
		return nil
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newViewCmd())
	rootCmd.AddCommand(newSearchCmd())
	rootCmd.AddCommand(newUnitsCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
