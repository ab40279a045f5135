// Package report implements the `doable report` command group.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/doable/adapter/cli"
	"github.com/felixgeelhaar/doable/internal/reporting/domain"
)

const dateLayout = "2006-01-02"

var (
	outputFormat string
	refresh      bool
)

// Cmd is the report command group
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Generate project reports",
	Long: `Generate status, time-tracking, workload and progress reports.

Examples:
  doable report projects
  doable report status <project-id>
  doable report time <project-id> --from 2026-01-01 --to 2026-01-31
  doable report generate --type workload <project-id> --format yaml`,
}

func init() {
	Cmd.PersistentFlags().StringVarP(&outputFormat, "format", "o", "text", "output format (text, yaml, json)")
	Cmd.PersistentFlags().BoolVar(&refresh, "refresh", false, "bypass cached reports")

	Cmd.AddCommand(projectsCmd)
	Cmd.AddCommand(statusCmd)
	Cmd.AddCommand(timeCmd)
	Cmd.AddCommand(workloadCmd)
	Cmd.AddCommand(progressCmd)
	Cmd.AddCommand(generateCmd)
}

// prepare resolves the app, output format and project id shared by report commands.
func prepare(cmd *cobra.Command, arg string) (*cli.App, cli.Format, uuid.UUID, error) {
	app := cli.GetApp()
	if app == nil || app.Reporter == nil {
		return nil, "", uuid.Nil, cli.ErrNotInitialized
	}

	format, err := cli.ParseFormat(outputFormat)
	if err != nil {
		return nil, "", uuid.Nil, err
	}

	projectID, err := uuid.Parse(arg)
	if err != nil {
		return nil, "", uuid.Nil, fmt.Errorf("invalid project ID: %w", err)
	}

	if refresh {
		if err := app.Refresh(cmd.Context(), projectID); err != nil {
			return nil, "", uuid.Nil, fmt.Errorf("failed to refresh cached reports: %w", err)
		}
	}
	return app, format, projectID, nil
}

// generate runs one report type and renders it.
func generate(cmd *cobra.Command, app *cli.App, format cli.Format, reportType domain.ReportType, projectID uuid.UUID, window domain.TimeWindow) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch reportType {
	case domain.ReportTypeStatus:
		report, err := app.Reporter.StatusReport(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to generate status report: %w", err)
		}
		return cli.Render(out, format, report, statusText(report))

	case domain.ReportTypeTimeTracking:
		report, err := app.Reporter.TimeTrackingReport(ctx, projectID, window)
		if err != nil {
			return fmt.Errorf("failed to generate time tracking report: %w", err)
		}
		return cli.Render(out, format, report, timeTrackingText(report))

	case domain.ReportTypeWorkload:
		report, err := app.Reporter.WorkloadReport(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to generate workload report: %w", err)
		}
		return cli.Render(out, format, report, workloadText(report))

	case domain.ReportTypeProgress:
		report, err := app.Reporter.ProgressReport(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to generate progress report: %w", err)
		}
		return cli.Render(out, format, report, progressText(report))

	default:
		return fmt.Errorf("%w: %q", domain.ErrInvalidReportType, reportType)
	}
}

// parseWindow builds the time-tracking window from --from/--to, falling
// back to the app's default window when neither is given.
func parseWindow(app *cli.App, from, to string) (domain.TimeWindow, error) {
	if from == "" && to == "" {
		return app.DefaultWindow(app.Now()), nil
	}

	parse := func(flag, value string) (*time.Time, error) {
		if value == "" {
			return nil, nil
		}
		t, err := time.Parse(dateLayout, value)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s date %q (expected YYYY-MM-DD)", flag, value)
		}
		return &t, nil
	}

	start, err := parse("from", from)
	if err != nil {
		return domain.TimeWindow{}, err
	}
	end, err := parse("to", to)
	if err != nil {
		return domain.TimeWindow{}, err
	}
	return domain.NewTimeWindow(start, end)
}
