package report

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/doable/adapter/cli"
	"github.com/felixgeelhaar/doable/internal/reporting/domain"
)

var (
	timeFrom     string
	timeTo       string
	generateType string
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List projects reports can be generated for",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Reporter == nil {
			return cli.ErrNotInitialized
		}
		format, err := cli.ParseFormat(outputFormat)
		if err != nil {
			return err
		}

		projects, err := app.Reporter.ListProjects(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}

		return cli.Render(cmd.OutOrStdout(), format, projects, func(w io.Writer) {
			if len(projects) == 0 {
				fmt.Fprintln(w, "No projects found.")
				return
			}
			fmt.Fprintf(w, "Found %d project(s):\n\n", len(projects))
			for _, p := range projects {
				fmt.Fprintf(w, "📁 %s [%s]\n", p.Name, p.Status)
				fmt.Fprintf(w, "   ID: %s\n", p.ID)
			}
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <project-id>",
	Short: "Show completed, in-progress and upcoming tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, format, projectID, err := prepare(cmd, args[0])
		if err != nil {
			return err
		}
		return generate(cmd, app, format, domain.ReportTypeStatus, projectID, domain.TimeWindow{})
	},
}

var timeCmd = &cobra.Command{
	Use:     "time <project-id>",
	Aliases: []string{"time-tracking"},
	Short:   "Show hours logged per task, employee, day and week",
	Long: `Show hours logged per task, employee, day and week.

Without --from and --to the report covers the last month.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, format, projectID, err := prepare(cmd, args[0])
		if err != nil {
			return err
		}
		window, err := parseWindow(app, timeFrom, timeTo)
		if err != nil {
			return err
		}
		return generate(cmd, app, format, domain.ReportTypeTimeTracking, projectID, window)
	},
}

var workloadCmd = &cobra.Command{
	Use:   "workload <project-id>",
	Short: "Show assigned work per employee and overallocation alerts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, format, projectID, err := prepare(cmd, args[0])
		if err != nil {
			return err
		}
		return generate(cmd, app, format, domain.ReportTypeWorkload, projectID, domain.TimeWindow{})
	},
}

var progressCmd = &cobra.Command{
	Use:   "progress <project-id>",
	Short: "Show completion, milestones and project health",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, format, projectID, err := prepare(cmd, args[0])
		if err != nil {
			return err
		}
		return generate(cmd, app, format, domain.ReportTypeProgress, projectID, domain.TimeWindow{})
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <project-id>",
	Short: "Generate a report selected with --type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reportType, err := domain.ParseReportType(generateType)
		if err != nil {
			return err
		}
		app, format, projectID, err := prepare(cmd, args[0])
		if err != nil {
			return err
		}

		var window domain.TimeWindow
		if reportType == domain.ReportTypeTimeTracking {
			if window, err = parseWindow(app, timeFrom, timeTo); err != nil {
				return err
			}
		}
		return generate(cmd, app, format, reportType, projectID, window)
	},
}

func init() {
	timeCmd.Flags().StringVar(&timeFrom, "from", "", "start date (YYYY-MM-DD)")
	timeCmd.Flags().StringVar(&timeTo, "to", "", "end date (YYYY-MM-DD)")

	generateCmd.Flags().StringVarP(&generateType, "type", "t", "status", "report type (status, time_tracking, workload, progress)")
	generateCmd.Flags().StringVar(&timeFrom, "from", "", "start date for time tracking (YYYY-MM-DD)")
	generateCmd.Flags().StringVar(&timeTo, "to", "", "end date for time tracking (YYYY-MM-DD)")
}
