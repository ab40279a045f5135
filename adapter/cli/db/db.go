// Package db implements the `doable db` maintenance commands.
package db

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/doable/adapter/cli"
)

// Cmd is the db command group
var Cmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the report database",
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Maintenance == nil {
			return cli.ErrNotInitialized
		}

		applied, err := app.Maintenance.Migrate(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(applied) == 0 {
			fmt.Fprintln(out, "Database is up to date.")
			return nil
		}
		for _, version := range applied {
			fmt.Fprintf(out, "✅ applied %s\n", version)
		}
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo projects, tasks and time entries",
	Long: `Load a demo dataset with three projects, their tasks, assignments
and time entries dated relative to today. Nothing is written when the
database already contains projects.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Maintenance == nil {
			return cli.ErrNotInitialized
		}

		result, err := app.Maintenance.Seed(cmd.Context(), app.Now())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if result.Skipped {
			fmt.Fprintln(out, "Database already contains projects, nothing seeded.")
			return nil
		}
		fmt.Fprintf(out, "Seeded %d employees, %d projects, %d tasks, %d assignments and %d time entries.\n",
			result.Employees, result.Projects, result.Tasks, result.Assignments, result.TimeEntries)
		fmt.Fprintln(out, "Run `doable report projects` to list them.")
		return nil
	},
}

func init() {
	Cmd.AddCommand(migrateCmd)
	Cmd.AddCommand(seedCmd)
}
