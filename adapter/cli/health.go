package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/doable/pkg/observability"
)

// ErrUnhealthy is returned by the health command when a required dependency is down.
var ErrUnhealthy = errors.New("health check failed")

var healthFormat string

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the report data source and cache",
	Long: `Run the registered health checks.

A cache failure only degrades the result; report data source failures
make the command exit non-zero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.Health == nil {
			return ErrNotInitialized
		}
		format, err := ParseFormat(healthFormat)
		if err != nil {
			return err
		}

		health := app.Health.Check(cmd.Context())
		if err := Render(cmd.OutOrStdout(), format, health, func(w io.Writer) {
			writeHealth(w, health, app.Health.Names())
		}); err != nil {
			return err
		}
		if health.Status == observability.HealthStatusUnhealthy {
			return ErrUnhealthy
		}
		return nil
	},
}

func writeHealth(w io.Writer, health observability.OverallHealth, names []string) {
	fmt.Fprintf(w, "%s\n", health.Status)
	for _, name := range names {
		check := health.Checks[name]
		line := fmt.Sprintf("  %-10s %s", name, check.Status)
		if check.Message != "" {
			line += " (" + check.Message + ")"
		}
		fmt.Fprintln(w, line)
	}
}

func init() {
	healthCmd.Flags().StringVarP(&healthFormat, "format", "o", "text", "output format (text, yaml, json)")
	rootCmd.AddCommand(healthCmd)
}
