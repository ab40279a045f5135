package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/doable/internal/reporting/domain"
)

var (
	// Version is set during build
	Version = "dev"
	// Commit is set during build
	Commit = "none"
)

var versionFormat string

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string   `json:"version" yaml:"version"`
	Commit    string   `json:"commit" yaml:"commit"`
	GoVersion string   `json:"go_version" yaml:"go_version"`
	Reports   []string `json:"reports" yaml:"reports"`
}

// CurrentBuildInfo returns the build metadata and the report types this binary serves.
func CurrentBuildInfo() BuildInfo {
	types := domain.AllReportTypes()
	reports := make([]string, len(types))
	for i, t := range types {
		reports[i] = t.String()
	}
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		Reports:   reports,
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := ParseFormat(versionFormat)
		if err != nil {
			return err
		}
		info := CurrentBuildInfo()
		return Render(cmd.OutOrStdout(), format, info, func(w io.Writer) {
			fmt.Fprintf(w, "doable %s (%s, %s)\n", info.Version, info.Commit, info.GoVersion)
			fmt.Fprintf(w, "reports: %s\n", strings.Join(info.Reports, ", "))
		})
	},
}

func init() {
	versionCmd.Flags().StringVarP(&versionFormat, "format", "o", "text", "output format (text, yaml, json)")
	rootCmd.AddCommand(versionCmd)
}
